package repoadmin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bundleworks/gitbundle/internal/bundle"
	"github.com/bundleworks/gitbundle/internal/execshell"
	"github.com/bundleworks/gitbundle/internal/inspect"
	"github.com/bundleworks/gitbundle/internal/shared"
)

const (
	gitExecutorMissingMessageConstant       = "git executor not configured"
	inspectorMissingMessageConstant         = "repository inspector not configured"
	localRootRequiredMessageConstant        = "local root path must be provided"
	descriptorNameRequiredMessageConstant   = "repository descriptor requires a name"
	branchNameRequiredMessageConstant       = "branch name must be provided"
	commitMessageRequiredMessageConstant    = "commit message must be provided"
	tagLabelRequiredMessageConstant         = "tag label must be provided"
	nothingToCommitStatusConstant           = "nothing to commit"
	committedStatusTemplateConstant         = "committed and pushed to %s"
	remoteBranchRefTemplateConstant         = "refs/heads/%s"
	upstreamRangeTemplateConstant           = "%s...%s/%s"
	remoteRefMissingPatternConstant         = "remote ref does not exist"
	checkoutOperationNameConstant           = "checkout"
	createBranchOperationNameConstant       = "create branch"
	pullOperationNameConstant               = "pull"
	commitOperationNameConstant             = "commit"
	mergeOperationNameConstant              = "merge"
	pushOperationNameConstant               = "push"
	tagOperationNameConstant                = "tag and publish"
	removeBranchOperationNameConstant       = "remove branch"
	statsOperationNameConstant              = "stats"
	gitFetchSubcommandConstant              = "fetch"
	gitFetchPruneFlagConstant               = "--prune"
	gitCheckoutSubcommandConstant           = "checkout"
	gitCheckoutCreateFlagConstant           = "-b"
	gitCheckoutTrackFlagConstant            = "--track"
	gitPullSubcommandConstant               = "pull"
	gitPullFastForwardFlagConstant          = "--ff-only"
	gitAddSubcommandConstant                = "add"
	gitAddAllFlagConstant                   = "--all"
	gitStatusSubcommandConstant             = "status"
	gitStatusPorcelainFlagConstant          = "--porcelain"
	gitCommitSubcommandConstant             = "commit"
	gitCommitMessageFlagConstant            = "-m"
	gitMergeSubcommandConstant              = "merge"
	gitDiffSubcommandConstant               = "diff"
	gitDiffNameOnlyFlagConstant             = "--name-only"
	gitDiffUnmergedFilterFlagConstant       = "--diff-filter=U"
	gitPushSubcommandConstant               = "push"
	gitPushSetUpstreamFlagConstant          = "--set-upstream"
	gitPushDeleteFlagConstant               = "--delete"
	gitTagSubcommandConstant                = "tag"
	gitTagAnnotateFlagConstant              = "-a"
	gitTagMessageFlagConstant               = "-m"
	gitBranchSubcommandConstant             = "branch"
	gitBranchDeleteFlagConstant             = "-d"
	gitLsRemoteSubcommandConstant           = "ls-remote"
	gitLsRemoteHeadsFlagConstant            = "--heads"
	gitRevListSubcommandConstant            = "rev-list"
	gitRevListLeftRightFlagConstant         = "--left-right"
	gitRevListCountFlagConstant             = "--count"
	gitRemoteSubcommandConstant             = "remote"
	gitRemoteGetURLSubcommandConstant       = "get-url"
	gitTerminalPromptEnvironmentName        = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisable     = "0"
	aheadBehindFieldCountConstant           = 2
	decimalBaseConstant                     = 10
	countBitSizeConstant                    = 0
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrInspectorNotConfigured indicates the repository inspector dependency was missing.
var ErrInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// ErrLocalRootRequired indicates the local root binding was empty.
var ErrLocalRootRequired = errors.New(localRootRequiredMessageConstant)

// ErrDescriptorNameRequired indicates the repository descriptor binding had no name.
var ErrDescriptorNameRequired = errors.New(descriptorNameRequiredMessageConstant)

// ErrBranchNameRequired indicates an empty branch name was supplied.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrCommitMessageRequired indicates an empty commit message was supplied.
var ErrCommitMessageRequired = errors.New(commitMessageRequiredMessageConstant)

// ErrTagLabelRequired indicates an empty tag label was supplied.
var ErrTagLabelRequired = errors.New(tagLabelRequiredMessageConstant)

// RepositoryInspector exposes the read-only repository queries used by guards and stats.
type RepositoryInspector interface {
	Status(repositoryPath string) (inspect.WorktreeStatus, error)
	CurrentBranch(repositoryPath string) (string, error)
	BranchExists(repositoryPath string, branchName string) (bool, error)
	IsBranchMerged(repositoryPath string, branchName string, destinationBranch string) (bool, error)
	LastCommit(repositoryPath string) (inspect.CommitSummary, error)
}

// Dependencies enumerates external collaborators required by repository administration.
type Dependencies struct {
	GitExecutor shared.GitExecutor
	Inspector   RepositoryInspector
}

// Binding ties an Administration to one repository of the bundle.
type Binding struct {
	LocalRoot  string
	RemoteRoot string
	Descriptor bundle.RepoDescriptor
	Branches   shared.BranchConfiguration
}

// CommitOutcome reports whether a commit operation found anything to record.
type CommitOutcome struct {
	Committed  bool
	StatusText string
}

// RepositoryStats is the read-only status snapshot of one repository.
type RepositoryStats struct {
	RepositoryName string
	CurrentBranch  string
	Clean          bool
	ModifiedCount  int
	DeletedCount   int
	UntrackedCount int
	AheadCount     int
	BehindCount    int
	LastCommit     inspect.CommitSummary
}

// Administration exposes atomic version-control operations against one repository.
type Administration struct {
	executor   shared.GitExecutor
	inspector  RepositoryInspector
	binding    Binding
	workingDir string
}

// NewAdministration validates dependencies and binds an Administration to a repository.
func NewAdministration(dependencies Dependencies, binding Binding) (*Administration, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}

	trimmedLocalRoot := strings.TrimSpace(binding.LocalRoot)
	if len(trimmedLocalRoot) == 0 {
		return nil, ErrLocalRootRequired
	}

	trimmedName := strings.TrimSpace(binding.Descriptor.Name)
	if len(trimmedName) == 0 {
		return nil, ErrDescriptorNameRequired
	}

	relativePath := strings.TrimSpace(binding.Descriptor.RelativePath)
	if len(relativePath) == 0 {
		relativePath = trimmedName
	}

	normalizedBinding := binding
	normalizedBinding.LocalRoot = trimmedLocalRoot
	normalizedBinding.Descriptor = bundle.RepoDescriptor{Name: trimmedName, RelativePath: relativePath}

	return &Administration{
		executor:   dependencies.GitExecutor,
		inspector:  dependencies.Inspector,
		binding:    normalizedBinding,
		workingDir: filepath.Join(trimmedLocalRoot, relativePath),
	}, nil
}

// RepositoryName returns the bound repository's bundle name.
func (administration *Administration) RepositoryName() string {
	return administration.binding.Descriptor.Name
}

// WorkingDirectory returns the local working copy path of the bound repository.
func (administration *Administration) WorkingDirectory() string {
	return administration.workingDir
}

// Checkout switches to the named branch, tracking it from the remote when it
// only exists there. Absent on both sides yields ErrBranchNotFound.
func (administration *Administration) Checkout(executionContext context.Context, branchName string) error {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}

	existsLocally, existenceError := administration.inspector.BranchExists(administration.workingDir, trimmedBranch)
	if existenceError != nil {
		return administration.failure(checkoutOperationNameConstant, existenceError)
	}

	if existsLocally {
		if checkoutError := administration.executeGit(executionContext, gitCheckoutSubcommandConstant, trimmedBranch); checkoutError != nil {
			return administration.failure(checkoutOperationNameConstant, checkoutError)
		}
		return nil
	}

	existsRemotely, remoteError := administration.BranchExistsOnRemote(executionContext, trimmedBranch)
	if remoteError != nil {
		return remoteError
	}
	if !existsRemotely {
		return &OperationError{
			RepositoryName: administration.RepositoryName(),
			Operation:      checkoutOperationNameConstant,
			Kind:           ErrBranchNotFound,
			Cause:          fmt.Errorf("branch %q exists neither locally nor on %s", trimmedBranch, shared.OriginRemoteNameConstant),
		}
	}

	if fetchError := administration.executeGit(executionContext, gitFetchSubcommandConstant, gitFetchPruneFlagConstant, shared.OriginRemoteNameConstant); fetchError != nil {
		return administration.failure(checkoutOperationNameConstant, fetchError)
	}

	trackingReference := shared.OriginRemoteNameConstant + "/" + trimmedBranch
	if checkoutError := administration.executeGit(executionContext, gitCheckoutSubcommandConstant, gitCheckoutTrackFlagConstant, trackingReference); checkoutError != nil {
		return administration.failure(checkoutOperationNameConstant, checkoutError)
	}

	return nil
}

// CreateBranch creates the named branch from startPoint, checks it out, and
// publishes it to the remote with upstream tracking.
func (administration *Administration) CreateBranch(executionContext context.Context, branchName string, startPoint string) error {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}

	createArguments := []string{gitCheckoutSubcommandConstant, gitCheckoutCreateFlagConstant, trimmedBranch}
	trimmedStartPoint := strings.TrimSpace(startPoint)
	if len(trimmedStartPoint) > 0 {
		createArguments = append(createArguments, trimmedStartPoint)
	}

	if createError := administration.executeGit(executionContext, createArguments...); createError != nil {
		return administration.failure(createBranchOperationNameConstant, createError)
	}

	if pushError := administration.executeGit(executionContext, gitPushSubcommandConstant, gitPushSetUpstreamFlagConstant, shared.OriginRemoteNameConstant, trimmedBranch); pushError != nil {
		return administration.failure(createBranchOperationNameConstant, pushError)
	}

	return nil
}

// Pull checks out the named branch and fast-forwards it from its remote
// tracking branch. A non-fast-forwardable state surfaces ErrMergeConflict.
func (administration *Administration) Pull(executionContext context.Context, branchName string) error {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}

	if checkoutError := administration.Checkout(executionContext, trimmedBranch); checkoutError != nil {
		return checkoutError
	}

	if pullError := administration.executeGit(executionContext, gitPullSubcommandConstant, gitPullFastForwardFlagConstant, shared.OriginRemoteNameConstant, trimmedBranch); pullError != nil {
		return administration.failure(pullOperationNameConstant, pullError)
	}

	return nil
}

// Commit stages every working-tree change on the named branch and commits
// with the supplied message. The branch must already be checked out: a
// different current branch fails with ErrWrongBranch rather than switching,
// so changes made on another branch are never carried onto this one. Clean
// trees no-op with a "nothing to commit" outcome. Committed or not, the
// branch is pushed for backup.
func (administration *Administration) Commit(executionContext context.Context, branchName string, message string) (CommitOutcome, error) {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return CommitOutcome{}, ErrBranchNameRequired
	}
	trimmedMessage := strings.TrimSpace(message)
	if len(trimmedMessage) == 0 {
		return CommitOutcome{}, ErrCommitMessageRequired
	}

	currentBranch, currentBranchError := administration.inspector.CurrentBranch(administration.workingDir)
	if currentBranchError != nil {
		return CommitOutcome{}, administration.failure(commitOperationNameConstant, currentBranchError)
	}
	if currentBranch != trimmedBranch {
		return CommitOutcome{}, &OperationError{
			RepositoryName: administration.RepositoryName(),
			Operation:      commitOperationNameConstant,
			Kind:           ErrWrongBranch,
			Cause:          fmt.Errorf("repository has %q checked out, not %q", currentBranch, trimmedBranch),
		}
	}

	if stageError := administration.executeGit(executionContext, gitAddSubcommandConstant, gitAddAllFlagConstant); stageError != nil {
		return CommitOutcome{}, administration.failure(commitOperationNameConstant, stageError)
	}

	statusResult, statusError := administration.executor.ExecuteGit(executionContext, administration.commandDetails(gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant))
	if statusError != nil {
		return CommitOutcome{}, administration.failure(commitOperationNameConstant, statusError)
	}

	if len(strings.TrimSpace(statusResult.StandardOutput)) == 0 {
		if pushError := administration.Push(executionContext, trimmedBranch); pushError != nil {
			return CommitOutcome{}, pushError
		}
		return CommitOutcome{Committed: false, StatusText: nothingToCommitStatusConstant}, nil
	}

	if commitError := administration.executeGit(executionContext, gitCommitSubcommandConstant, gitCommitMessageFlagConstant, trimmedMessage); commitError != nil {
		return CommitOutcome{}, administration.failure(commitOperationNameConstant, commitError)
	}

	if pushError := administration.Push(executionContext, trimmedBranch); pushError != nil {
		return CommitOutcome{}, pushError
	}

	return CommitOutcome{Committed: true, StatusText: fmt.Sprintf(committedStatusTemplateConstant, trimmedBranch)}, nil
}

// Merge checks out targetBranch and merges sourceBranch into it. Conflicts are
// never auto-resolved: the merge is left in place and a MergeConflictError
// naming the conflicting files is returned.
func (administration *Administration) Merge(executionContext context.Context, sourceBranch string, targetBranch string) error {
	trimmedSource := strings.TrimSpace(sourceBranch)
	trimmedTarget := strings.TrimSpace(targetBranch)
	if len(trimmedSource) == 0 || len(trimmedTarget) == 0 {
		return ErrBranchNameRequired
	}

	if checkoutError := administration.Checkout(executionContext, trimmedTarget); checkoutError != nil {
		return checkoutError
	}

	mergeError := administration.executeGit(executionContext, gitMergeSubcommandConstant, trimmedSource)
	if mergeError == nil {
		return nil
	}

	if errors.Is(classifyGitFailure(mergeError), ErrMergeConflict) {
		conflictingFiles := administration.conflictingFiles(executionContext)
		return &MergeConflictError{
			RepositoryName:   administration.RepositoryName(),
			SourceBranch:     trimmedSource,
			TargetBranch:     trimmedTarget,
			ConflictingFiles: conflictingFiles,
		}
	}

	return administration.failure(mergeOperationNameConstant, mergeError)
}

// Push publishes the named branch to the origin remote.
func (administration *Administration) Push(executionContext context.Context, branchName string) error {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}

	if pushError := administration.executeGit(executionContext, gitPushSubcommandConstant, shared.OriginRemoteNameConstant, trimmedBranch); pushError != nil {
		return administration.failure(pushOperationNameConstant, pushError)
	}

	return nil
}

// TagAndPublish creates an annotated tag with the label as its message and pushes it.
func (administration *Administration) TagAndPublish(executionContext context.Context, label string) error {
	trimmedLabel := strings.TrimSpace(label)
	if len(trimmedLabel) == 0 {
		return ErrTagLabelRequired
	}

	if tagError := administration.executeGit(executionContext, gitTagSubcommandConstant, gitTagAnnotateFlagConstant, trimmedLabel, gitTagMessageFlagConstant, trimmedLabel); tagError != nil {
		return administration.failure(tagOperationNameConstant, tagError)
	}

	if pushError := administration.executeGit(executionContext, gitPushSubcommandConstant, shared.OriginRemoteNameConstant, trimmedLabel); pushError != nil {
		return administration.failure(tagOperationNameConstant, pushError)
	}

	return nil
}

// RemoveBranch deletes the named branch locally and on the remote. Reserved
// branch names are refused with ErrProtectedBranch; branches not yet merged
// into the integration branch are refused with ErrBranchNotMerged rather
// than force-deleted.
func (administration *Administration) RemoveBranch(executionContext context.Context, branchName string) error {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}

	for _, reservedName := range administration.binding.Branches.ReservedBranchNames() {
		if trimmedBranch == reservedName {
			return &OperationError{
				RepositoryName: administration.RepositoryName(),
				Operation:      removeBranchOperationNameConstant,
				Kind:           ErrProtectedBranch,
				Cause:          fmt.Errorf("branch %q is reserved", trimmedBranch),
			}
		}
	}

	existsLocally, existenceError := administration.inspector.BranchExists(administration.workingDir, trimmedBranch)
	if existenceError != nil {
		return administration.failure(removeBranchOperationNameConstant, existenceError)
	}

	if existsLocally {
		merged, mergedError := administration.inspector.IsBranchMerged(administration.workingDir, trimmedBranch, administration.binding.Branches.Integration)
		if mergedError != nil {
			return administration.failure(removeBranchOperationNameConstant, mergedError)
		}
		if !merged {
			return &OperationError{
				RepositoryName: administration.RepositoryName(),
				Operation:      removeBranchOperationNameConstant,
				Kind:           ErrBranchNotMerged,
				Cause:          fmt.Errorf("branch %q is not merged into %q", trimmedBranch, administration.binding.Branches.Integration),
			}
		}

		currentBranch, currentBranchError := administration.inspector.CurrentBranch(administration.workingDir)
		if currentBranchError != nil {
			return administration.failure(removeBranchOperationNameConstant, currentBranchError)
		}
		if currentBranch == trimmedBranch {
			if checkoutError := administration.Checkout(executionContext, administration.binding.Branches.Integration); checkoutError != nil {
				return checkoutError
			}
		}

		if deleteError := administration.executeGit(executionContext, gitBranchSubcommandConstant, gitBranchDeleteFlagConstant, trimmedBranch); deleteError != nil {
			return administration.failure(removeBranchOperationNameConstant, deleteError)
		}
	}

	remoteDeleteError := administration.executeGit(executionContext, gitPushSubcommandConstant, shared.OriginRemoteNameConstant, gitPushDeleteFlagConstant, trimmedBranch)
	if remoteDeleteError != nil && !isMissingRemoteRef(remoteDeleteError) {
		return administration.failure(removeBranchOperationNameConstant, remoteDeleteError)
	}

	return nil
}

// BranchExistsOnRemote reports whether the remote advertises the named branch.
func (administration *Administration) BranchExistsOnRemote(executionContext context.Context, branchName string) (bool, error) {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return false, ErrBranchNameRequired
	}

	listResult, listError := administration.executor.ExecuteGit(executionContext, administration.commandDetails(
		gitLsRemoteSubcommandConstant,
		gitLsRemoteHeadsFlagConstant,
		shared.OriginRemoteNameConstant,
		fmt.Sprintf(remoteBranchRefTemplateConstant, trimmedBranch),
	))
	if listError != nil {
		return false, administration.failure(checkoutOperationNameConstant, listError)
	}

	return len(strings.TrimSpace(listResult.StandardOutput)) > 0, nil
}

// IsBranchMerged reports whether the named branch is an ancestor of destinationBranch.
func (administration *Administration) IsBranchMerged(branchName string, destinationBranch string) (bool, error) {
	return administration.inspector.IsBranchMerged(administration.workingDir, branchName, destinationBranch)
}

// Stats returns the read-only status snapshot of the bound repository.
func (administration *Administration) Stats(executionContext context.Context) (RepositoryStats, error) {
	worktreeStatus, statusError := administration.inspector.Status(administration.workingDir)
	if statusError != nil {
		return RepositoryStats{}, administration.failure(statsOperationNameConstant, statusError)
	}

	lastCommit, commitError := administration.inspector.LastCommit(administration.workingDir)
	if commitError != nil {
		return RepositoryStats{}, administration.failure(statsOperationNameConstant, commitError)
	}

	aheadCount, behindCount := administration.aheadBehindCounts(executionContext, worktreeStatus.CurrentBranch)

	return RepositoryStats{
		RepositoryName: administration.RepositoryName(),
		CurrentBranch:  worktreeStatus.CurrentBranch,
		Clean:          worktreeStatus.Clean,
		ModifiedCount:  worktreeStatus.ModifiedCount,
		DeletedCount:   worktreeStatus.DeletedCount,
		UntrackedCount: worktreeStatus.UntrackedCount,
		AheadCount:     aheadCount,
		BehindCount:    behindCount,
		LastCommit:     lastCommit,
	}, nil
}

// RemoteURL resolves the configured origin remote URL of the bound repository.
func (administration *Administration) RemoteURL(executionContext context.Context) (string, error) {
	remoteResult, remoteError := administration.executor.ExecuteGit(executionContext, administration.commandDetails(
		gitRemoteSubcommandConstant,
		gitRemoteGetURLSubcommandConstant,
		shared.OriginRemoteNameConstant,
	))
	if remoteError != nil {
		return "", administration.failure(statsOperationNameConstant, remoteError)
	}

	return strings.TrimSpace(remoteResult.StandardOutput), nil
}

// aheadBehindCounts queries divergence against the upstream tracking branch.
// Missing upstreams report zero rather than failing the stats call.
func (administration *Administration) aheadBehindCounts(executionContext context.Context, branchName string) (int, int) {
	if len(strings.TrimSpace(branchName)) == 0 {
		return 0, 0
	}

	revListResult, revListError := administration.executor.ExecuteGit(executionContext, administration.commandDetails(
		gitRevListSubcommandConstant,
		gitRevListLeftRightFlagConstant,
		gitRevListCountFlagConstant,
		fmt.Sprintf(upstreamRangeTemplateConstant, branchName, shared.OriginRemoteNameConstant, branchName),
	))
	if revListError != nil {
		return 0, 0
	}

	counts := strings.Fields(strings.TrimSpace(revListResult.StandardOutput))
	if len(counts) != aheadBehindFieldCountConstant {
		return 0, 0
	}

	aheadCount, aheadError := strconv.ParseInt(counts[0], decimalBaseConstant, countBitSizeConstant)
	behindCount, behindError := strconv.ParseInt(counts[1], decimalBaseConstant, countBitSizeConstant)
	if aheadError != nil || behindError != nil {
		return 0, 0
	}

	return int(aheadCount), int(behindCount)
}

func (administration *Administration) conflictingFiles(executionContext context.Context) []string {
	diffResult, diffError := administration.executor.ExecuteGit(executionContext, administration.commandDetails(
		gitDiffSubcommandConstant,
		gitDiffNameOnlyFlagConstant,
		gitDiffUnmergedFilterFlagConstant,
	))
	if diffError != nil {
		return nil
	}

	conflictingFiles := []string{}
	for _, line := range strings.Split(diffResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) > 0 {
			conflictingFiles = append(conflictingFiles, trimmedLine)
		}
	}
	return conflictingFiles
}

func (administration *Administration) executeGit(executionContext context.Context, arguments ...string) error {
	_, executionError := administration.executor.ExecuteGit(executionContext, administration.commandDetails(arguments...))
	return executionError
}

func (administration *Administration) commandDetails(arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: administration.workingDir,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentName: gitTerminalPromptEnvironmentDisable,
		},
	}
}

func (administration *Administration) failure(operationName string, cause error) error {
	return &OperationError{
		RepositoryName: administration.RepositoryName(),
		Operation:      operationName,
		Kind:           classifyGitFailure(cause),
		Cause:          cause,
	}
}

func isMissingRemoteRef(failure error) bool {
	var commandFailure execshell.CommandFailedError
	if !errors.As(failure, &commandFailure) {
		return false
	}
	return strings.Contains(strings.ToLower(commandFailure.Result.StandardError), remoteRefMissingPatternConstant)
}
