package shared_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundleworks/gitbundle/internal/shared"
)

func TestProjectConfigurationSanitizeAppliesBranchDefaults(testInstance *testing.T) {
	configuration := shared.ProjectConfiguration{
		ProjectName: "  cash  ",
		LocalRoot:   " /home/operator/code ",
		Repositories: []shared.RepositoryConfiguration{
			{Name: " cash.svc ", Path: " cash.svc "},
			{Name: "   "},
			{Name: "cash.docs"},
		},
	}

	sanitized := configuration.Sanitize()

	require.Equal(testInstance, "cash", sanitized.ProjectName)
	require.Equal(testInstance, "/home/operator/code", sanitized.LocalRoot)
	require.Equal(testInstance, "integration", sanitized.Branches.Integration)
	require.Equal(testInstance, "master", sanitized.Branches.Master)
	require.Equal(testInstance, "operate", sanitized.Branches.Operate)
	require.Equal(testInstance, []shared.RepositoryConfiguration{
		{Name: "cash.svc", Path: "cash.svc"},
		{Name: "cash.docs"},
	}, sanitized.Repositories)
}

func TestBranchConfigurationReservedBranchNames(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration shared.BranchConfiguration
		expectedNames []string
	}{
		{
			name:          "defaults",
			configuration: shared.DefaultBranchConfiguration(),
			expectedNames: []string{"integration", "master", "operate", "operate-standby"},
		},
		{
			name: "custom_reserved_names_deduplicated",
			configuration: shared.BranchConfiguration{
				Integration: "integration",
				Master:      "main",
				Operate:     "operate",
				Reserved:    []string{" release ", "main", ""},
			},
			expectedNames: []string{"integration", "main", "operate", "operate-standby", "release"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedNames, testCase.configuration.ReservedBranchNames())
		})
	}
}
