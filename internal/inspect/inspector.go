package inspect

import (
	"fmt"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	repositoryOpenErrorTemplateConstant    = "failed to open repository at %s: %w"
	worktreeAccessErrorTemplateConstant    = "failed to access worktree at %s: %w"
	worktreeStatusErrorTemplateConstant    = "failed to read worktree status at %s: %w"
	headResolutionErrorTemplateConstant    = "failed to resolve HEAD at %s: %w"
	branchListingErrorTemplateConstant     = "failed to list branches at %s: %w"
	branchResolutionErrorTemplateConstant  = "failed to resolve branch %q at %s: %w"
	commitResolutionErrorTemplateConstant  = "failed to resolve commit for %q at %s: %w"
	commitMessageLineSeparatorConstant     = "\n"
	commitMessageSummarySegmentCountConstant = 2
)

// WorktreeStatus summarizes the mutable state of one repository working tree.
type WorktreeStatus struct {
	CurrentBranch  string
	ModifiedCount  int
	DeletedCount   int
	UntrackedCount int
	Clean          bool
}

// CommitSummary describes the most recent commit of a repository.
type CommitSummary struct {
	Hash    string
	Summary string
	Author  string
	When    time.Time
}

// Inspector answers read-only questions about repositories on the local filesystem.
type Inspector struct{}

// NewInspector constructs an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Status reports the current branch and working tree counters for the repository at repositoryPath.
func (inspector *Inspector) Status(repositoryPath string) (WorktreeStatus, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return WorktreeStatus{}, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	headReference, headError := repository.Head()
	if headError != nil {
		return WorktreeStatus{}, fmt.Errorf(headResolutionErrorTemplateConstant, repositoryPath, headError)
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return WorktreeStatus{}, fmt.Errorf(worktreeAccessErrorTemplateConstant, repositoryPath, worktreeError)
	}

	worktreeStatus, statusError := worktree.Status()
	if statusError != nil {
		return WorktreeStatus{}, fmt.Errorf(worktreeStatusErrorTemplateConstant, repositoryPath, statusError)
	}

	status := WorktreeStatus{
		CurrentBranch: headReference.Name().Short(),
		Clean:         worktreeStatus.IsClean(),
	}

	for _, fileStatus := range worktreeStatus {
		switch {
		case fileStatus.Worktree == git.Untracked:
			status.UntrackedCount++
		case fileStatus.Worktree == git.Deleted || fileStatus.Staging == git.Deleted:
			status.DeletedCount++
		default:
			status.ModifiedCount++
		}
	}

	return status, nil
}

// CurrentBranch reports the branch checked out at repositoryPath.
func (inspector *Inspector) CurrentBranch(repositoryPath string) (string, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return "", fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	headReference, headError := repository.Head()
	if headError != nil {
		return "", fmt.Errorf(headResolutionErrorTemplateConstant, repositoryPath, headError)
	}

	return headReference.Name().Short(), nil
}

// Branches lists the local branch names of the repository at repositoryPath.
func (inspector *Inspector) Branches(repositoryPath string) ([]string, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return nil, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	branchIterator, branchError := repository.Branches()
	if branchError != nil {
		return nil, fmt.Errorf(branchListingErrorTemplateConstant, repositoryPath, branchError)
	}

	branchNames := []string{}
	iterationError := branchIterator.ForEach(func(branchReference *plumbing.Reference) error {
		branchNames = append(branchNames, branchReference.Name().Short())
		return nil
	})
	if iterationError != nil {
		return nil, fmt.Errorf(branchListingErrorTemplateConstant, repositoryPath, iterationError)
	}

	return branchNames, nil
}

// BranchExists reports whether a local branch with the given name exists.
func (inspector *Inspector) BranchExists(repositoryPath string, branchName string) (bool, error) {
	branchNames, branchError := inspector.Branches(repositoryPath)
	if branchError != nil {
		return false, branchError
	}
	for _, existingName := range branchNames {
		if existingName == branchName {
			return true, nil
		}
	}
	return false, nil
}

// IsBranchMerged reports whether branchName has been merged into destinationBranch.
func (inspector *Inspector) IsBranchMerged(repositoryPath string, branchName string, destinationBranch string) (bool, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return false, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	branchReference, branchError := repository.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if branchError != nil {
		return false, fmt.Errorf(branchResolutionErrorTemplateConstant, branchName, repositoryPath, branchError)
	}

	destinationReference, destinationError := repository.Reference(plumbing.NewBranchReferenceName(destinationBranch), true)
	if destinationError != nil {
		return false, fmt.Errorf(branchResolutionErrorTemplateConstant, destinationBranch, repositoryPath, destinationError)
	}

	branchCommit, branchCommitError := repository.CommitObject(branchReference.Hash())
	if branchCommitError != nil {
		return false, fmt.Errorf(commitResolutionErrorTemplateConstant, branchName, repositoryPath, branchCommitError)
	}

	destinationCommit, destinationCommitError := repository.CommitObject(destinationReference.Hash())
	if destinationCommitError != nil {
		return false, fmt.Errorf(commitResolutionErrorTemplateConstant, destinationBranch, repositoryPath, destinationCommitError)
	}

	return branchCommit.IsAncestor(destinationCommit)
}

// LastCommit reports the most recent commit reachable from HEAD.
func (inspector *Inspector) LastCommit(repositoryPath string) (CommitSummary, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return CommitSummary{}, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	headReference, headError := repository.Head()
	if headError != nil {
		return CommitSummary{}, fmt.Errorf(headResolutionErrorTemplateConstant, repositoryPath, headError)
	}

	headCommit, commitError := repository.CommitObject(headReference.Hash())
	if commitError != nil {
		return CommitSummary{}, fmt.Errorf(commitResolutionErrorTemplateConstant, headReference.Name().Short(), repositoryPath, commitError)
	}

	summaryLine := strings.SplitN(headCommit.Message, commitMessageLineSeparatorConstant, commitMessageSummarySegmentCountConstant)[0]

	return CommitSummary{
		Hash:    headCommit.Hash.String(),
		Summary: strings.TrimSpace(summaryLine),
		Author:  headCommit.Author.Name,
		When:    headCommit.Author.When,
	}, nil
}
