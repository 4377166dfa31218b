package release

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bundleworks/gitbundle/internal/githubcli"
	"github.com/bundleworks/gitbundle/internal/gitrepo"
	"github.com/bundleworks/gitbundle/internal/repoadmin"
	"github.com/bundleworks/gitbundle/internal/shared"
)

const (
	administratorMissingMessageConstant     = "operate repository administrator not configured"
	pullRequestClientMissingMessageConstant = "pull request client not configured"
	commitMessageRequiredMessageConstant    = "hotfix commit message must be provided"
	tagLabelRequiredMessageConstant         = "release tag label must be provided"
	remoteURLResolutionTemplateConstant     = "failed to resolve operate remote: %w"
	remoteURLParseTemplateConstant          = "failed to parse operate remote %q: %w"
	pullRequestTitleTemplateConstant        = "Promote %s to %s"
	pullRequestBodyTemplateConstant         = "Promotes the %s branch of %s into %s for release."
)

// ErrAdministratorNotConfigured indicates the manager was constructed without an operate repository.
var ErrAdministratorNotConfigured = errors.New(administratorMissingMessageConstant)

// ErrPullRequestClientNotConfigured indicates a PR workflow ran without a GitHub client.
var ErrPullRequestClientNotConfigured = errors.New(pullRequestClientMissingMessageConstant)

// ErrCommitMessageRequired indicates an empty hotfix commit message was supplied.
var ErrCommitMessageRequired = errors.New(commitMessageRequiredMessageConstant)

// ErrTagLabelRequired indicates an empty release tag label was supplied.
var ErrTagLabelRequired = errors.New(tagLabelRequiredMessageConstant)

// OperateAdministrator enumerates the single-repository primitives release
// workflows sequence against the operate checkout.
type OperateAdministrator interface {
	RepositoryName() string
	Checkout(executionContext context.Context, branchName string) error
	Pull(executionContext context.Context, branchName string) error
	Commit(executionContext context.Context, branchName string, message string) (repoadmin.CommitOutcome, error)
	Merge(executionContext context.Context, sourceBranch string, targetBranch string) error
	Push(executionContext context.Context, branchName string) error
	TagAndPublish(executionContext context.Context, label string) error
	RemoteURL(executionContext context.Context) (string, error)
}

// PullRequestCreator opens pull requests on the hosting service.
type PullRequestCreator interface {
	CreatePullRequest(executionContext context.Context, repository string, options githubcli.PullRequestCreateOptions) (string, error)
}

// Dependencies enumerates the collaborators required by the release manager.
type Dependencies struct {
	Administrator OperateAdministrator
	PullRequests  PullRequestCreator
	Branches      shared.BranchConfiguration
}

// Manager implements the release and hotfix workflows against a single
// operate repository.
type Manager struct {
	administrator OperateAdministrator
	pullRequests  PullRequestCreator
	branches      shared.BranchConfiguration
}

// NewManager validates dependencies and constructs a Manager.
func NewManager(dependencies Dependencies) (*Manager, error) {
	if dependencies.Administrator == nil {
		return nil, ErrAdministratorNotConfigured
	}
	return &Manager{
		administrator: dependencies.Administrator,
		pullRequests:  dependencies.PullRequests,
		branches:      dependencies.Branches,
	}, nil
}

// PullRequestIntegrationToMaster opens a pull request promoting the
// integration branch into master. The merge itself is a deliberate manual
// checkpoint and never happens here. Returns the pull request URL.
func (manager *Manager) PullRequestIntegrationToMaster(executionContext context.Context) (string, error) {
	if manager.pullRequests == nil {
		return "", ErrPullRequestClientNotConfigured
	}

	if pullError := manager.administrator.Pull(executionContext, manager.branches.Integration); pullError != nil {
		return "", pullError
	}

	remoteURLText, remoteError := manager.administrator.RemoteURL(executionContext)
	if remoteError != nil {
		return "", fmt.Errorf(remoteURLResolutionTemplateConstant, remoteError)
	}

	remoteURL, parseError := gitrepo.ParseRemoteURL(remoteURLText)
	if parseError != nil {
		return "", fmt.Errorf(remoteURLParseTemplateConstant, remoteURLText, parseError)
	}

	return manager.pullRequests.CreatePullRequest(executionContext, remoteURL.Slug(), githubcli.PullRequestCreateOptions{
		BaseBranch: manager.branches.Master,
		HeadBranch: manager.branches.Integration,
		Title:      fmt.Sprintf(pullRequestTitleTemplateConstant, manager.branches.Integration, manager.branches.Master),
		Body: fmt.Sprintf(
			pullRequestBodyTemplateConstant,
			manager.branches.Integration,
			manager.administrator.RepositoryName(),
			manager.branches.Master,
		),
	})
}

// PublishRelease pulls the externally merged master branch, merges it into the
// operate branch, pushes the result, and publishes an annotated tag.
func (manager *Manager) PublishRelease(executionContext context.Context, label string) error {
	trimmedLabel := strings.TrimSpace(label)
	if len(trimmedLabel) == 0 {
		return ErrTagLabelRequired
	}

	if pullError := manager.administrator.Pull(executionContext, manager.branches.Master); pullError != nil {
		return pullError
	}
	if mergeError := manager.administrator.Merge(executionContext, manager.branches.Master, manager.branches.Operate); mergeError != nil {
		return mergeError
	}
	if pushError := manager.administrator.Push(executionContext, manager.branches.Operate); pushError != nil {
		return pushError
	}
	return manager.administrator.TagAndPublish(executionContext, trimmedLabel)
}

// PublishHotFix commits a fix on the operate branch, then propagates it
// operate into master and only then master into integration, in exactly that
// order, so the integration branch never advances past what production runs.
func (manager *Manager) PublishHotFix(executionContext context.Context, message string) error {
	trimmedMessage := strings.TrimSpace(message)
	if len(trimmedMessage) == 0 {
		return ErrCommitMessageRequired
	}

	if _, commitError := manager.administrator.Commit(executionContext, manager.branches.Operate, trimmedMessage); commitError != nil {
		return commitError
	}

	if mergeError := manager.administrator.Merge(executionContext, manager.branches.Operate, manager.branches.Master); mergeError != nil {
		return mergeError
	}
	if pushError := manager.administrator.Push(executionContext, manager.branches.Master); pushError != nil {
		return pushError
	}

	if mergeError := manager.administrator.Merge(executionContext, manager.branches.Master, manager.branches.Integration); mergeError != nil {
		return mergeError
	}
	return manager.administrator.Push(executionContext, manager.branches.Integration)
}
