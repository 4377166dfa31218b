package inspect_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/bundleworks/gitbundle/internal/inspect"
)

const (
	fixtureAuthorNameConstant  = "Fixture Author"
	fixtureAuthorEmailConstant = "fixture@example.com"
	initialBranchNameConstant  = "master"
)

func fixtureSignature() *object.Signature {
	return &object.Signature{
		Name:  fixtureAuthorNameConstant,
		Email: fixtureAuthorEmailConstant,
		When:  time.Now(),
	}
}

func initializeRepository(testInstance *testing.T) (string, *git.Repository) {
	testInstance.Helper()

	repositoryPath := testInstance.TempDir()
	repository, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testInstance, initError)

	return repositoryPath, repository
}

func commitFile(testInstance *testing.T, repositoryPath string, repository *git.Repository, fileName string, contents string, message string) plumbing.Hash {
	testInstance.Helper()

	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, fileName), []byte(contents), 0o644))

	worktree, worktreeError := repository.Worktree()
	require.NoError(testInstance, worktreeError)

	_, addError := worktree.Add(fileName)
	require.NoError(testInstance, addError)

	commitHash, commitError := worktree.Commit(message, &git.CommitOptions{Author: fixtureSignature()})
	require.NoError(testInstance, commitError)

	return commitHash
}

func TestStatusReportsCleanWorktree(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance)
	commitFile(testInstance, repositoryPath, repository, "readme.md", "hello\n", "initial commit")

	inspector := inspect.NewInspector()
	worktreeStatus, statusError := inspector.Status(repositoryPath)
	require.NoError(testInstance, statusError)
	require.True(testInstance, worktreeStatus.Clean)
	require.Zero(testInstance, worktreeStatus.ModifiedCount)
	require.Zero(testInstance, worktreeStatus.UntrackedCount)
	require.Zero(testInstance, worktreeStatus.DeletedCount)
	require.Equal(testInstance, initialBranchNameConstant, worktreeStatus.CurrentBranch)
}

func TestStatusCountsUntrackedAndModifiedFiles(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance)
	commitFile(testInstance, repositoryPath, repository, "readme.md", "hello\n", "initial commit")

	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, "readme.md"), []byte("changed\n"), 0o644))
	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, "notes.txt"), []byte("new file\n"), 0o644))

	inspector := inspect.NewInspector()
	worktreeStatus, statusError := inspector.Status(repositoryPath)
	require.NoError(testInstance, statusError)
	require.False(testInstance, worktreeStatus.Clean)
	require.Equal(testInstance, 1, worktreeStatus.ModifiedCount)
	require.Equal(testInstance, 1, worktreeStatus.UntrackedCount)
}

func TestStatusFailsForMissingRepository(testInstance *testing.T) {
	inspector := inspect.NewInspector()
	_, statusError := inspector.Status(filepath.Join(testInstance.TempDir(), "absent"))
	require.Error(testInstance, statusError)
}

func TestBranchesAndBranchExists(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance)
	headHash := commitFile(testInstance, repositoryPath, repository, "readme.md", "hello\n", "initial commit")

	branchReference := plumbing.NewHashReference(plumbing.NewBranchReferenceName("integration"), headHash)
	require.NoError(testInstance, repository.Storer.SetReference(branchReference))

	inspector := inspect.NewInspector()

	branchNames, branchError := inspector.Branches(repositoryPath)
	require.NoError(testInstance, branchError)
	require.ElementsMatch(testInstance, []string{initialBranchNameConstant, "integration"}, branchNames)

	exists, existsError := inspector.BranchExists(repositoryPath, "integration")
	require.NoError(testInstance, existsError)
	require.True(testInstance, exists)

	missing, missingError := inspector.BranchExists(repositoryPath, "feature-x")
	require.NoError(testInstance, missingError)
	require.False(testInstance, missing)
}

func TestIsBranchMergedDistinguishesAncestry(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance)
	baseHash := commitFile(testInstance, repositoryPath, repository, "readme.md", "hello\n", "initial commit")

	mergedReference := plumbing.NewHashReference(plumbing.NewBranchReferenceName("merged-feature"), baseHash)
	require.NoError(testInstance, repository.Storer.SetReference(mergedReference))

	tipHash := commitFile(testInstance, repositoryPath, repository, "notes.txt", "later work\n", "second commit")
	unmergedReference := plumbing.NewHashReference(plumbing.NewBranchReferenceName("unmerged-feature"), tipHash)
	require.NoError(testInstance, repository.Storer.SetReference(unmergedReference))

	integrationReference := plumbing.NewHashReference(plumbing.NewBranchReferenceName("integration"), baseHash)
	require.NoError(testInstance, repository.Storer.SetReference(integrationReference))

	inspector := inspect.NewInspector()

	merged, mergedError := inspector.IsBranchMerged(repositoryPath, "merged-feature", "integration")
	require.NoError(testInstance, mergedError)
	require.True(testInstance, merged)

	unmerged, unmergedError := inspector.IsBranchMerged(repositoryPath, "unmerged-feature", "integration")
	require.NoError(testInstance, unmergedError)
	require.False(testInstance, unmerged)

	_, missingBranchError := inspector.IsBranchMerged(repositoryPath, "feature-x", "integration")
	require.Error(testInstance, missingBranchError)
}

func TestLastCommitReportsSummaryLine(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance)
	commitHash := commitFile(testInstance, repositoryPath, repository, "readme.md", "hello\n", "add readme\n\nwith a longer body")

	inspector := inspect.NewInspector()
	commitSummary, commitError := inspector.LastCommit(repositoryPath)
	require.NoError(testInstance, commitError)
	require.Equal(testInstance, commitHash.String(), commitSummary.Hash)
	require.Equal(testInstance, "add readme", commitSummary.Summary)
	require.Equal(testInstance, fixtureAuthorNameConstant, commitSummary.Author)
}

func TestCurrentBranchReportsHead(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance)
	commitFile(testInstance, repositoryPath, repository, "readme.md", "hello\n", "initial commit")

	inspector := inspect.NewInspector()
	currentBranch, branchError := inspector.CurrentBranch(repositoryPath)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, initialBranchNameConstant, currentBranch)
}
