package release_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundleworks/gitbundle/internal/githubcli"
	"github.com/bundleworks/gitbundle/internal/release"
	"github.com/bundleworks/gitbundle/internal/repoadmin"
	"github.com/bundleworks/gitbundle/internal/shared"
)

const operateRepositoryNameConstant = "cash.ops"

type fakeOperateAdministrator struct {
	calls       []string
	remoteURL   string
	remoteError error
	pullError   error
	commitError error
	mergeError  error
	pushError   error
	tagError    error
}

func newFakeOperateAdministrator() *fakeOperateAdministrator {
	return &fakeOperateAdministrator{remoteURL: "git@github.com:acme/cash.ops.git"}
}

func (administrator *fakeOperateAdministrator) record(call string) {
	administrator.calls = append(administrator.calls, call)
}

func (administrator *fakeOperateAdministrator) RepositoryName() string {
	return operateRepositoryNameConstant
}

func (administrator *fakeOperateAdministrator) Checkout(executionContext context.Context, branchName string) error {
	administrator.record("checkout " + branchName)
	return nil
}

func (administrator *fakeOperateAdministrator) Pull(executionContext context.Context, branchName string) error {
	administrator.record("pull " + branchName)
	return administrator.pullError
}

func (administrator *fakeOperateAdministrator) Commit(executionContext context.Context, branchName string, message string) (repoadmin.CommitOutcome, error) {
	administrator.record("commit " + branchName)
	return repoadmin.CommitOutcome{Committed: true}, administrator.commitError
}

func (administrator *fakeOperateAdministrator) Merge(executionContext context.Context, sourceBranch string, targetBranch string) error {
	administrator.record("merge " + sourceBranch + " into " + targetBranch)
	return administrator.mergeError
}

func (administrator *fakeOperateAdministrator) Push(executionContext context.Context, branchName string) error {
	administrator.record("push " + branchName)
	return administrator.pushError
}

func (administrator *fakeOperateAdministrator) TagAndPublish(executionContext context.Context, label string) error {
	administrator.record("tag " + label)
	return administrator.tagError
}

func (administrator *fakeOperateAdministrator) RemoteURL(executionContext context.Context) (string, error) {
	administrator.record("remote-url")
	return administrator.remoteURL, administrator.remoteError
}

type fakePullRequestCreator struct {
	repository string
	options    githubcli.PullRequestCreateOptions
	url        string
	failure    error
}

func (creator *fakePullRequestCreator) CreatePullRequest(executionContext context.Context, repository string, options githubcli.PullRequestCreateOptions) (string, error) {
	creator.repository = repository
	creator.options = options
	return creator.url, creator.failure
}

func newReleaseManager(testInstance *testing.T, administrator *fakeOperateAdministrator, creator *fakePullRequestCreator) *release.Manager {
	testInstance.Helper()

	manager, constructionError := release.NewManager(release.Dependencies{
		Administrator: administrator,
		PullRequests:  creator,
		Branches:      shared.DefaultBranchConfiguration(),
	})
	require.NoError(testInstance, constructionError)
	return manager
}

func TestNewManagerRequiresAdministrator(testInstance *testing.T) {
	_, constructionError := release.NewManager(release.Dependencies{})
	require.ErrorIs(testInstance, constructionError, release.ErrAdministratorNotConfigured)
}

func TestPullRequestIntegrationToMasterOpensPullRequest(testInstance *testing.T) {
	administrator := newFakeOperateAdministrator()
	creator := &fakePullRequestCreator{url: "https://github.com/acme/cash.ops/pull/7"}
	manager := newReleaseManager(testInstance, administrator, creator)

	pullRequestURL, workflowError := manager.PullRequestIntegrationToMaster(context.Background())
	require.NoError(testInstance, workflowError)
	require.Equal(testInstance, "https://github.com/acme/cash.ops/pull/7", pullRequestURL)
	require.Equal(testInstance, "acme/cash.ops", creator.repository)
	require.Equal(testInstance, "master", creator.options.BaseBranch)
	require.Equal(testInstance, "integration", creator.options.HeadBranch)
	require.Equal(testInstance, []string{"pull integration", "remote-url"}, administrator.calls)
}

func TestPullRequestIntegrationToMasterRequiresClient(testInstance *testing.T) {
	manager, constructionError := release.NewManager(release.Dependencies{
		Administrator: newFakeOperateAdministrator(),
		Branches:      shared.DefaultBranchConfiguration(),
	})
	require.NoError(testInstance, constructionError)

	_, workflowError := manager.PullRequestIntegrationToMaster(context.Background())
	require.ErrorIs(testInstance, workflowError, release.ErrPullRequestClientNotConfigured)
}

func TestPullRequestIntegrationToMasterRejectsUnparseableRemote(testInstance *testing.T) {
	administrator := newFakeOperateAdministrator()
	administrator.remoteURL = "not a remote"
	manager := newReleaseManager(testInstance, administrator, &fakePullRequestCreator{})

	_, workflowError := manager.PullRequestIntegrationToMaster(context.Background())
	require.Error(testInstance, workflowError)
	require.Contains(testInstance, workflowError.Error(), "not a remote")
}

func TestPublishReleaseMergesMasterIntoOperateAndTags(testInstance *testing.T) {
	administrator := newFakeOperateAdministrator()
	manager := newReleaseManager(testInstance, administrator, &fakePullRequestCreator{})

	require.NoError(testInstance, manager.PublishRelease(context.Background(), "v2.1.0"))
	require.Equal(testInstance, []string{
		"pull master",
		"merge master into operate",
		"push operate",
		"tag v2.1.0",
	}, administrator.calls)
}

func TestPublishReleaseRequiresLabel(testInstance *testing.T) {
	manager := newReleaseManager(testInstance, newFakeOperateAdministrator(), &fakePullRequestCreator{})
	require.ErrorIs(testInstance, manager.PublishRelease(context.Background(), "  "), release.ErrTagLabelRequired)
}

func TestPublishHotFixAppliesBranchesInStrictOrder(testInstance *testing.T) {
	administrator := newFakeOperateAdministrator()
	manager := newReleaseManager(testInstance, administrator, &fakePullRequestCreator{})

	require.NoError(testInstance, manager.PublishHotFix(context.Background(), "patch login outage"))
	require.Equal(testInstance, []string{
		"commit operate",
		"merge operate into master",
		"push master",
		"merge master into integration",
		"push integration",
	}, administrator.calls)
}

func TestPublishHotFixStopsBeforeIntegrationWhenMasterMergeFails(testInstance *testing.T) {
	administrator := newFakeOperateAdministrator()
	administrator.mergeError = &repoadmin.MergeConflictError{
		RepositoryName: operateRepositoryNameConstant,
		SourceBranch:   "operate",
		TargetBranch:   "master",
	}
	manager := newReleaseManager(testInstance, administrator, &fakePullRequestCreator{})

	hotfixError := manager.PublishHotFix(context.Background(), "patch login outage")
	require.ErrorIs(testInstance, hotfixError, repoadmin.ErrMergeConflict)
	require.Equal(testInstance, []string{
		"commit operate",
		"merge operate into master",
	}, administrator.calls)
}

func TestPublishHotFixRequiresMessage(testInstance *testing.T) {
	manager := newReleaseManager(testInstance, newFakeOperateAdministrator(), &fakePullRequestCreator{})
	require.ErrorIs(testInstance, manager.PublishHotFix(context.Background(), " "), release.ErrCommitMessageRequired)
}

func TestPullRequestPropagatesCreatorFailure(testInstance *testing.T) {
	underlying := errors.New("gh failure")
	manager := newReleaseManager(testInstance, newFakeOperateAdministrator(), &fakePullRequestCreator{failure: underlying})

	_, workflowError := manager.PullRequestIntegrationToMaster(context.Background())
	require.ErrorIs(testInstance, workflowError, underlying)
}
