package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/bundleworks/gitbundle/internal/repoadmin"
	"github.com/bundleworks/gitbundle/internal/shared"
)

const (
	administratorsMissingMessageConstant    = "at least one repository administrator is required"
	branchNameRequiredMessageConstant       = "branch name must be provided"
	commitMessageRequiredMessageConstant    = "commit message must be provided"
	aggregateFailureTemplateConstant        = "%s failed for %d of %d repositories (%s): %w"
	failedRepositorySeparatorConstant       = ", "
	checkedOutStatusConstant                = "checked out"
	createdBranchStatusTemplateConstant     = "created from %s"
	refreshedStatusTemplateConstant         = "merged %s"
	pulledStatusConstant                    = "pulled from remote"
	statsCollectedStatusConstant            = "collected"
	completedStatusTemplateConstant         = "merged into %s and pushed"
	removedStatusConstant                   = "branch removed"
	notCleanGuardTemplateConstant           = "working tree not clean (%d modified, %d deleted, %d untracked)"
	notMergedGuardTemplateConstant          = "branch %q not merged into %q"
	workOnFeatureOperationNameConstant      = "work on feature"
	refreshFeatureOperationNameConstant     = "refresh from integration"
	refreshRemoteOperationNameConstant      = "refresh from remote"
	commitFeatureOperationNameConstant      = "commit feature"
	completeFeatureOperationNameConstant    = "complete feature"
	completeGuardOperationNameConstant      = "complete feature guard"
	removeFeatureOperationNameConstant      = "remove feature branch"
	removeGuardOperationNameConstant        = "remove feature branch guard"
	repoStatsOperationNameConstant          = "repository stats"
)

// ErrAdministratorsRequired indicates the manager was constructed without repositories.
var ErrAdministratorsRequired = errors.New(administratorsMissingMessageConstant)

// ErrBranchNameRequired indicates an empty branch name was supplied to a workflow.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrCommitMessageRequired indicates an empty commit message was supplied to a workflow.
var ErrCommitMessageRequired = errors.New(commitMessageRequiredMessageConstant)

// RepositoryAdministrator enumerates the single-repository primitives the
// manager fans out across the bundle.
type RepositoryAdministrator interface {
	RepositoryName() string
	Checkout(executionContext context.Context, branchName string) error
	CreateBranch(executionContext context.Context, branchName string, startPoint string) error
	Pull(executionContext context.Context, branchName string) error
	Commit(executionContext context.Context, branchName string, message string) (repoadmin.CommitOutcome, error)
	Merge(executionContext context.Context, sourceBranch string, targetBranch string) error
	Push(executionContext context.Context, branchName string) error
	RemoveBranch(executionContext context.Context, branchName string) error
	Stats(executionContext context.Context) (repoadmin.RepositoryStats, error)
	IsBranchMerged(branchName string, destinationBranch string) (bool, error)
}

// Dependencies enumerates the collaborators required by the lifecycle manager.
type Dependencies struct {
	Administrators []RepositoryAdministrator
	Branches       shared.BranchConfiguration
	Clock          shared.Clock
}

// Manager applies repository primitives across every repository of the bundle,
// in bundle order, continuing past per-repository failures and aggregating them.
type Manager struct {
	administrators []RepositoryAdministrator
	branches       shared.BranchConfiguration
	clock          shared.Clock
}

// NewManager validates dependencies and constructs a Manager.
func NewManager(dependencies Dependencies) (*Manager, error) {
	if len(dependencies.Administrators) == 0 {
		return nil, ErrAdministratorsRequired
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}

	return &Manager{
		administrators: dependencies.Administrators,
		branches:       dependencies.Branches,
		clock:          clock,
	}, nil
}

// WorkOnFeature checks out the feature branch in every repository, creating it
// from the integration branch tip wherever it does not exist yet.
func (manager *Manager) WorkOnFeature(executionContext context.Context, branchName string) (WorkflowReport, error) {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return WorkflowReport{}, ErrBranchNameRequired
	}

	return manager.forEachRepository(executionContext, workOnFeatureOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		checkoutError := administrator.Checkout(executionContext, trimmedBranch)
		if checkoutError == nil {
			return checkedOutStatusConstant, nil
		}
		if !errors.Is(checkoutError, repoadmin.ErrBranchNotFound) {
			return "", checkoutError
		}

		if pullError := administrator.Pull(executionContext, manager.branches.Integration); pullError != nil {
			return "", pullError
		}
		if createError := administrator.CreateBranch(executionContext, trimmedBranch, manager.branches.Integration); createError != nil {
			return "", createError
		}
		return fmt.Sprintf(createdBranchStatusTemplateConstant, manager.branches.Integration), nil
	})
}

// RefreshFromIntegration updates the local integration branch from its remote
// and merges it into the feature branch in every repository. Conflicts are
// recorded per repository and the remaining repositories still refresh.
func (manager *Manager) RefreshFromIntegration(executionContext context.Context, branchName string) (WorkflowReport, error) {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return WorkflowReport{}, ErrBranchNameRequired
	}

	return manager.forEachRepository(executionContext, refreshFeatureOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		if pullError := administrator.Pull(executionContext, manager.branches.Integration); pullError != nil {
			return "", pullError
		}
		if mergeError := administrator.Merge(executionContext, manager.branches.Integration, trimmedBranch); mergeError != nil {
			return "", mergeError
		}
		return fmt.Sprintf(refreshedStatusTemplateConstant, manager.branches.Integration), nil
	})
}

// RefreshFromRemote fast-forwards the feature branch from its remote tracking
// branch in every repository.
func (manager *Manager) RefreshFromRemote(executionContext context.Context, branchName string) (WorkflowReport, error) {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return WorkflowReport{}, ErrBranchNameRequired
	}

	return manager.forEachRepository(executionContext, refreshRemoteOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		if pullError := administrator.Pull(executionContext, trimmedBranch); pullError != nil {
			return "", pullError
		}
		return pulledStatusConstant, nil
	})
}

// RepoStats collects the read-only status snapshot of every repository.
func (manager *Manager) RepoStats(executionContext context.Context) ([]repoadmin.RepositoryStats, WorkflowReport, error) {
	collected := make([]repoadmin.RepositoryStats, 0, len(manager.administrators))
	report, aggregateError := manager.forEachRepository(executionContext, repoStatsOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		repositoryStats, statsError := administrator.Stats(executionContext)
		if statsError != nil {
			return "", statsError
		}
		collected = append(collected, repositoryStats)
		return statsCollectedStatusConstant, nil
	})
	return collected, report, aggregateError
}

// CommitFeature stages, commits, and pushes the feature branch in every
// repository, recording which repositories had changes and which no-oped.
func (manager *Manager) CommitFeature(executionContext context.Context, branchName string, message string) (WorkflowReport, error) {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return WorkflowReport{}, ErrBranchNameRequired
	}
	trimmedMessage := strings.TrimSpace(message)
	if len(trimmedMessage) == 0 {
		return WorkflowReport{}, ErrCommitMessageRequired
	}

	return manager.forEachRepository(executionContext, commitFeatureOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		outcome, commitError := administrator.Commit(executionContext, trimmedBranch, trimmedMessage)
		if commitError != nil {
			return "", commitError
		}
		return outcome.StatusText, nil
	})
}

// CompleteFeature pulls the integration branch, merges the feature branch
// into it, and pushes the result in every repository, optionally removing the
// feature branch afterwards. Before any repository is mutated, every
// repository must
// present a clean working tree; a dirty repository anywhere aborts the whole
// operation.
func (manager *Manager) CompleteFeature(executionContext context.Context, branchName string, removeFeatureBranch bool) (WorkflowReport, error) {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return WorkflowReport{}, ErrBranchNameRequired
	}

	guardReport, guardError := manager.forEachRepository(executionContext, completeGuardOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		repositoryStats, statsError := administrator.Stats(executionContext)
		if statsError != nil {
			return "", statsError
		}
		if !repositoryStats.Clean {
			return "", multierr.Append(repoadmin.ErrDirtyWorktree, fmt.Errorf(
				notCleanGuardTemplateConstant,
				repositoryStats.ModifiedCount,
				repositoryStats.DeletedCount,
				repositoryStats.UntrackedCount,
			))
		}
		return statsCollectedStatusConstant, nil
	})
	if guardError != nil {
		return guardReport, guardError
	}

	return manager.forEachRepository(executionContext, completeFeatureOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		if pullError := administrator.Pull(executionContext, manager.branches.Integration); pullError != nil {
			return "", pullError
		}
		if mergeError := administrator.Merge(executionContext, trimmedBranch, manager.branches.Integration); mergeError != nil {
			return "", mergeError
		}
		if pushError := administrator.Push(executionContext, manager.branches.Integration); pushError != nil {
			return "", pushError
		}
		statusText := fmt.Sprintf(completedStatusTemplateConstant, manager.branches.Integration)
		if removeFeatureBranch {
			if removeError := administrator.RemoveBranch(executionContext, trimmedBranch); removeError != nil {
				return "", removeError
			}
			statusText = statusText + ", " + removedStatusConstant
		}
		return statusText, nil
	})
}

// RemoveFeatureBranch deletes the feature branch in every repository. Before
// any deletion happens, every repository must have the branch merged into the
// integration branch; an unmerged branch anywhere aborts the whole operation.
func (manager *Manager) RemoveFeatureBranch(executionContext context.Context, branchName string) (WorkflowReport, error) {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return WorkflowReport{}, ErrBranchNameRequired
	}

	guardReport, guardError := manager.forEachRepository(executionContext, removeGuardOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		merged, mergedError := administrator.IsBranchMerged(trimmedBranch, manager.branches.Integration)
		if mergedError != nil {
			// The branch may simply not exist locally; deletion handles that.
			return statsCollectedStatusConstant, nil
		}
		if !merged {
			return "", multierr.Append(repoadmin.ErrBranchNotMerged, fmt.Errorf(
				notMergedGuardTemplateConstant,
				trimmedBranch,
				manager.branches.Integration,
			))
		}
		return statsCollectedStatusConstant, nil
	})
	if guardError != nil {
		return guardReport, guardError
	}

	return manager.forEachRepository(executionContext, removeFeatureOperationNameConstant, func(administrator RepositoryAdministrator) (string, error) {
		if removeError := administrator.RemoveBranch(executionContext, trimmedBranch); removeError != nil {
			return "", removeError
		}
		return removedStatusConstant, nil
	})
}

// forEachRepository applies the operation to every repository sequentially in
// bundle order, timing each application, continuing past failures, and
// returning a single aggregate error enumerating every failed repository.
func (manager *Manager) forEachRepository(
	executionContext context.Context,
	operationName string,
	operation func(administrator RepositoryAdministrator) (string, error),
) (WorkflowReport, error) {
	report := WorkflowReport{Operation: operationName, Results: make([]WorkflowResult, 0, len(manager.administrators))}

	var combinedFailures error
	for _, administrator := range manager.administrators {
		startedAt := manager.clock.Now()
		statusText, operationError := operation(administrator)
		report.Results = append(report.Results, WorkflowResult{
			RepositoryName: administrator.RepositoryName(),
			Elapsed:        manager.clock.Now().Sub(startedAt),
			Status:         statusText,
			Err:            operationError,
		})
		if operationError != nil {
			combinedFailures = multierr.Append(combinedFailures, operationError)
		}
	}

	if combinedFailures == nil {
		return report, nil
	}

	failedNames := report.FailedRepositories()
	aggregateError := fmt.Errorf(
		aggregateFailureTemplateConstant,
		operationName,
		len(failedNames),
		len(manager.administrators),
		strings.Join(failedNames, failedRepositorySeparatorConstant),
		combinedFailures,
	)
	return report, aggregateError
}
