package bundle_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundleworks/gitbundle/internal/bundle"
)

func TestNewRepoBundleValidatesDescriptors(testInstance *testing.T) {
	testCases := []struct {
		name        string
		descriptors []bundle.RepoDescriptor
		expectError error
	}{
		{name: "empty_bundle", descriptors: nil, expectError: bundle.ErrEmptyBundle},
		{name: "blank_name", descriptors: []bundle.RepoDescriptor{{Name: "  "}}, expectError: bundle.ErrDescriptorNameRequired},
		{
			name: "complete_bundle",
			descriptors: []bundle.RepoDescriptor{
				{Name: "cash.svc"},
				{Name: "cash.docs", RelativePath: "documentation"},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repoBundle, bundleError := bundle.NewRepoBundle(testCase.descriptors)
			if testCase.expectError != nil {
				require.ErrorIs(testInstance, bundleError, testCase.expectError)
				return
			}
			require.NoError(testInstance, bundleError)
			require.Equal(testInstance, len(testCase.descriptors), repoBundle.Size())
		})
	}
}

func TestNewRepoBundleRejectsDuplicateNames(testInstance *testing.T) {
	_, bundleError := bundle.NewRepoBundle([]bundle.RepoDescriptor{
		{Name: "cash.svc"},
		{Name: "cash.svc"},
	})
	require.Error(testInstance, bundleError)
	require.Contains(testInstance, bundleError.Error(), "cash.svc")
}

func TestRepoBundleDefaultsRelativePathToName(testInstance *testing.T) {
	repoBundle, bundleError := bundle.NewRepoBundle([]bundle.RepoDescriptor{{Name: "cash.svc"}})
	require.NoError(testInstance, bundleError)
	require.Equal(testInstance, []bundle.RepoDescriptor{{Name: "cash.svc", RelativePath: "cash.svc"}}, repoBundle.Descriptors())
}

func TestRepoBundleSubsetPreservesDeclarationOrder(testInstance *testing.T) {
	repoBundle, bundleError := bundle.NewRepoBundle([]bundle.RepoDescriptor{
		{Name: "cash.svc"},
		{Name: "cash.docs"},
		{Name: "cash.test"},
	})
	require.NoError(testInstance, bundleError)

	subset, subsetError := repoBundle.Subset([]string{"cash.test", "cash.svc"})
	require.NoError(testInstance, subsetError)
	require.Equal(testInstance, []string{"cash.svc", "cash.test"}, subset.Names())
}

func TestRepoBundleSubsetRejectsUnknownNames(testInstance *testing.T) {
	repoBundle, bundleError := bundle.NewRepoBundle([]bundle.RepoDescriptor{{Name: "cash.svc"}})
	require.NoError(testInstance, bundleError)

	_, subsetError := repoBundle.Subset([]string{"cash.ops"})
	require.Error(testInstance, subsetError)
	require.Contains(testInstance, subsetError.Error(), "cash.ops")
}

func TestRepoBundleSubsetWithNoNamesReturnsFullBundle(testInstance *testing.T) {
	repoBundle, bundleError := bundle.NewRepoBundle([]bundle.RepoDescriptor{
		{Name: "cash.svc"},
		{Name: "cash.docs"},
	})
	require.NoError(testInstance, bundleError)

	subset, subsetError := repoBundle.Subset(nil)
	require.NoError(testInstance, subsetError)
	require.Equal(testInstance, repoBundle.Names(), subset.Names())
}

func TestLoadManifestReadsRepositories(testInstance *testing.T) {
	manifestContent := `project: cash
local_root: /home/operator/code
remote_root: git@github.com:acme
repositories:
  - name: cash.svc
  - name: cash.docs
    path: documentation
`
	manifestPath := filepath.Join(testInstance.TempDir(), "bundle.yaml")
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(manifestContent), 0o644))

	manifest, repoBundle, loadError := bundle.LoadManifest(manifestPath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "cash", manifest.Project)
	require.Equal(testInstance, "/home/operator/code", manifest.LocalRoot)
	require.Equal(testInstance, []string{"cash.svc", "cash.docs"}, repoBundle.Names())

	descriptor, found := repoBundle.Lookup("cash.docs")
	require.True(testInstance, found)
	require.Equal(testInstance, "documentation", descriptor.RelativePath)
}

func TestLoadManifestValidatesPathAndContent(testInstance *testing.T) {
	_, _, emptyPathError := bundle.LoadManifest("   ")
	require.ErrorIs(testInstance, emptyPathError, bundle.ErrManifestPathRequired)

	manifestPath := filepath.Join(testInstance.TempDir(), "bundle.yaml")
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte("repositories: []\n"), 0o644))

	_, _, emptyBundleError := bundle.LoadManifest(manifestPath)
	require.ErrorIs(testInstance, emptyBundleError, bundle.ErrEmptyBundle)
}
