package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bundleworks/gitbundle/internal/utils"
)

const (
	testConfigurationFileNameConstant = "gitbundle.yaml"
	testConfigurationContentConstant  = `common:
  log_level: info
  log_format: structured
project:
  name: cash
  local_root: /home/operator/code
  remote_root: git@github.com:acme
  operate_repository: cash.operations
  branches:
    integration: develop
  repositories:
    - name: cash.svc
    - name: cash.docs
      path: documentation
`
)

func writeTestConfiguration(t *testing.T) string {
	t.Helper()

	configurationPath := filepath.Join(t.TempDir(), testConfigurationFileNameConstant)
	require.NoError(t, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o600))
	return configurationPath
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	application, creationError := NewApplication()
	require.NoError(t, creationError)
	return application
}

func TestNewApplicationRegistersCommands(t *testing.T) {
	application := newTestApplication(t)

	registeredNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredNames[registeredCommand.Name()] = true
	}

	expectedCommandNames := []string{"feature", "stats", "release", "scaffold"}
	for _, expectedName := range expectedCommandNames {
		require.True(t, registeredNames[expectedName], "command %q not registered", expectedName)
	}
}

func TestInitializeConfigurationDecodesProjectConfiguration(t *testing.T) {
	application := newTestApplication(t)
	application.configurationFilePath = writeTestConfiguration(t)

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, "info", application.configuration.Common.LogLevel)
	require.Equal(t, "cash", application.configuration.Project.ProjectName)
	require.Equal(t, "/home/operator/code", application.configuration.Project.LocalRoot)
	require.Equal(t, "cash.operations", application.configuration.Project.OperateRepository)
	require.Len(t, application.configuration.Project.Repositories, 2)
	require.Equal(t, "documentation", application.configuration.Project.Repositories[1].Path)

	require.Equal(t, "develop", application.configuration.Project.Branches.Integration)
	require.Equal(t, "master", application.configuration.Project.Branches.Master)
	require.Equal(t, "operate", application.configuration.Project.Branches.Operate)
}

func TestInitializeConfigurationHonorsPersistentFlagOverrides(t *testing.T) {
	application := newTestApplication(t)
	application.configurationFilePath = writeTestConfiguration(t)

	require.NoError(t, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(t, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, "debug", application.configuration.Common.LogLevel)
	require.Equal(t, "console", application.configuration.Common.LogFormat)
}

func TestInitializeConfigurationRejectsUnknownLogLevel(t *testing.T) {
	application := newTestApplication(t)
	application.configurationFilePath = writeTestConfiguration(t)

	require.NoError(t, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "verbose"))

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.Error(t, initializationError)
}

func TestInitializeConfigurationToleratesMissingFile(t *testing.T) {
	application := newTestApplication(t)
	application.configurationLoader = utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{t.TempDir()},
	)

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, "info", application.configuration.Common.LogLevel)
	require.Equal(t, "structured", application.configuration.Common.LogFormat)
	require.Equal(t, "integration", application.configuration.Project.Branches.Integration)
}
