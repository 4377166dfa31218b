package repoadmin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bundleworks/gitbundle/internal/execshell"
)

const (
	branchNotFoundMessageConstant        = "branch not found"
	mergeConflictMessageConstant         = "merge conflict requires manual resolution"
	protectedBranchMessageConstant       = "branch is protected from deletion"
	dirtyWorktreeMessageConstant         = "working tree has uncommitted changes"
	branchNotMergedMessageConstant       = "branch is not merged into the integration branch"
	wrongBranchMessageConstant           = "repository has a different branch checked out"
	remoteUnavailableMessageConstant     = "remote repository unavailable"
	operationErrorTemplateConstant       = "repository %q: %s failed: %v"
	mergeConflictErrorTemplateConstant   = "repository %q: merging %q into %q left conflicts in: %s"
	conflictingFileSeparatorConstant     = ", "
)

// ErrBranchNotFound indicates the requested branch exists neither locally nor remotely.
var ErrBranchNotFound = errors.New(branchNotFoundMessageConstant)

// ErrMergeConflict indicates divergent history that cannot be merged automatically.
var ErrMergeConflict = errors.New(mergeConflictMessageConstant)

// ErrProtectedBranch indicates an attempt to delete a reserved branch.
var ErrProtectedBranch = errors.New(protectedBranchMessageConstant)

// ErrDirtyWorktree indicates uncommitted changes block the requested operation.
var ErrDirtyWorktree = errors.New(dirtyWorktreeMessageConstant)

// ErrBranchNotMerged indicates a deletion target still carries unmerged work.
var ErrBranchNotMerged = errors.New(branchNotMergedMessageConstant)

// ErrWrongBranch indicates an operation that requires the named branch to be
// checked out found a different branch at HEAD.
var ErrWrongBranch = errors.New(wrongBranchMessageConstant)

// ErrRemoteUnavailable indicates the remote could not be reached or authenticated against.
var ErrRemoteUnavailable = errors.New(remoteUnavailableMessageConstant)

// OperationError describes a failed single-repository operation with its classified kind.
type OperationError struct {
	RepositoryName string
	Operation      string
	Kind           error
	Cause          error
}

// Error describes the failed operation and its underlying cause.
func (operationError *OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.RepositoryName, operationError.Operation, operationError.Cause)
}

// Unwrap exposes both the classified kind and the underlying cause for errors.Is matching.
func (operationError *OperationError) Unwrap() []error {
	unwrapped := make([]error, 0, 2)
	if operationError.Kind != nil {
		unwrapped = append(unwrapped, operationError.Kind)
	}
	if operationError.Cause != nil {
		unwrapped = append(unwrapped, operationError.Cause)
	}
	return unwrapped
}

// MergeConflictError enumerates the files left conflicting by a failed merge.
type MergeConflictError struct {
	RepositoryName   string
	SourceBranch     string
	TargetBranch     string
	ConflictingFiles []string
}

// Error describes the conflicting merge including the affected files.
func (conflictError *MergeConflictError) Error() string {
	return fmt.Sprintf(
		mergeConflictErrorTemplateConstant,
		conflictError.RepositoryName,
		conflictError.SourceBranch,
		conflictError.TargetBranch,
		strings.Join(conflictError.ConflictingFiles, conflictingFileSeparatorConstant),
	)
}

// Unwrap identifies the error as a merge conflict.
func (conflictError *MergeConflictError) Unwrap() error {
	return ErrMergeConflict
}

var branchNotFoundPatterns = []string{
	"did not match any file(s) known to git",
	"couldn't find remote ref",
	"no such branch",
	"not found in upstream",
	"unknown revision",
}

var mergeConflictPatterns = []string{
	"automatic merge failed",
	"conflict",
	"not possible to fast-forward",
	"needs merge",
	"you have unmerged paths",
}

var dirtyWorktreePatterns = []string{
	"would be overwritten by",
	"please commit your changes",
	"uncommitted changes",
}

var remoteUnavailablePatterns = []string{
	"could not resolve host",
	"could not read from remote repository",
	"connection refused",
	"connection timed out",
	"authentication failed",
	"permission denied",
	"repository not found",
}

// classifyGitFailure maps git command output onto the sentinel error kinds.
// A failure matching no known pattern stays unclassified.
func classifyGitFailure(cause error) error {
	var commandFailure execshell.CommandFailedError
	if !errors.As(cause, &commandFailure) {
		return nil
	}

	combinedOutput := strings.ToLower(commandFailure.Result.StandardError + "\n" + commandFailure.Result.StandardOutput)

	for _, pattern := range dirtyWorktreePatterns {
		if strings.Contains(combinedOutput, pattern) {
			return ErrDirtyWorktree
		}
	}
	for _, pattern := range branchNotFoundPatterns {
		if strings.Contains(combinedOutput, pattern) {
			return ErrBranchNotFound
		}
	}
	for _, pattern := range mergeConflictPatterns {
		if strings.Contains(combinedOutput, pattern) {
			return ErrMergeConflict
		}
	}
	for _, pattern := range remoteUnavailablePatterns {
		if strings.Contains(combinedOutput, pattern) {
			return ErrRemoteUnavailable
		}
	}

	return nil
}
