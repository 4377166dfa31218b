package release

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bundleworks/gitbundle/internal/bundle"
	"github.com/bundleworks/gitbundle/internal/execshell"
	"github.com/bundleworks/gitbundle/internal/githubcli"
	"github.com/bundleworks/gitbundle/internal/inspect"
	"github.com/bundleworks/gitbundle/internal/repoadmin"
	"github.com/bundleworks/gitbundle/internal/shared"
)

const (
	releaseCommandUseConstant               = "release"
	releaseCommandShortDescriptionConstant  = "Run release and hotfix workflows against the operate repository"
	prCommandUseConstant                    = "pr"
	prCommandShortDescriptionConstant       = "Open a pull request promoting integration into master"
	publishCommandUseConstant               = "publish"
	publishCommandShortDescriptionConstant  = "Merge the released master branch into operate and tag it"
	hotfixCommandUseConstant                = "hotfix"
	hotfixCommandShortDescriptionConstant   = "Commit a fix on operate and propagate it through master and integration"
	flagLabelNameConstant                   = "label"
	flagLabelDescriptionConstant            = "Annotated tag label for the release"
	flagMessageNameConstant                 = "message"
	flagMessageShorthandConstant            = "m"
	flagMessageDescriptionConstant          = "Commit message for the hotfix"
	pullRequestOpenedTemplateConstant       = "opened pull request: %s\n"
	releasePublishedTemplateConstant        = "published release %s on %s\n"
	hotfixPublishedTemplateConstant         = "published hotfix across %s, %s, and %s\n"
	operateRepositoryMissingMessageConstant = "operate repository not configured"
)

// ErrOperateRepositoryNotConfigured indicates the configuration names no operate repository.
var ErrOperateRepositoryNotConfigured = errors.New(operateRepositoryMissingMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved project configuration.
type ConfigurationProvider func() shared.ProjectConfiguration

// CommandBuilder assembles the release command tree.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	GitExecutor           shared.GitExecutor
	Inspector             repoadmin.RepositoryInspector
	PullRequests          PullRequestCreator
}

// Build constructs the release command with its pr, publish, and hotfix subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	releaseCommand := &cobra.Command{
		Use:   releaseCommandUseConstant,
		Short: releaseCommandShortDescriptionConstant,
	}

	prCommand := &cobra.Command{
		Use:   prCommandUseConstant,
		Short: prCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runPullRequest,
	}

	publishCommand := &cobra.Command{
		Use:   publishCommandUseConstant,
		Short: publishCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runPublish,
	}
	publishCommand.Flags().String(flagLabelNameConstant, "", flagLabelDescriptionConstant)

	hotfixCommand := &cobra.Command{
		Use:   hotfixCommandUseConstant,
		Short: hotfixCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runHotfix,
	}
	hotfixCommand.Flags().StringP(flagMessageNameConstant, flagMessageShorthandConstant, "", flagMessageDescriptionConstant)

	releaseCommand.AddCommand(prCommand, publishCommand, hotfixCommand)
	return releaseCommand, nil
}

func (builder *CommandBuilder) runPullRequest(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager()
	if managerError != nil {
		return managerError
	}

	pullRequestURL, workflowError := manager.PullRequestIntegrationToMaster(command.Context())
	if workflowError != nil {
		return workflowError
	}

	fmt.Fprintf(command.OutOrStdout(), pullRequestOpenedTemplateConstant, pullRequestURL)
	return nil
}

func (builder *CommandBuilder) runPublish(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager()
	if managerError != nil {
		return managerError
	}

	label, _ := command.Flags().GetString(flagLabelNameConstant)
	if publishError := manager.PublishRelease(command.Context(), label); publishError != nil {
		return publishError
	}

	configuration := builder.resolveConfiguration().Sanitize()
	fmt.Fprintf(command.OutOrStdout(), releasePublishedTemplateConstant, label, configuration.Branches.Operate)
	return nil
}

func (builder *CommandBuilder) runHotfix(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager()
	if managerError != nil {
		return managerError
	}

	message, _ := command.Flags().GetString(flagMessageNameConstant)
	if hotfixError := manager.PublishHotFix(command.Context(), message); hotfixError != nil {
		return hotfixError
	}

	configuration := builder.resolveConfiguration().Sanitize()
	fmt.Fprintf(
		command.OutOrStdout(),
		hotfixPublishedTemplateConstant,
		configuration.Branches.Operate,
		configuration.Branches.Master,
		configuration.Branches.Integration,
	)
	return nil
}

func (builder *CommandBuilder) resolveManager() (*Manager, error) {
	configuration := builder.resolveConfiguration().Sanitize()
	if len(configuration.OperateRepository) == 0 {
		return nil, ErrOperateRepositoryNotConfigured
	}

	operateRoot := configuration.OperateRoot
	if len(operateRoot) == 0 {
		operateRoot = configuration.LocalRoot
	}

	executor, executorError := builder.resolveExecutor()
	if executorError != nil {
		return nil, executorError
	}

	inspector := builder.Inspector
	if inspector == nil {
		inspector = inspect.NewInspector()
	}

	administration, administrationError := repoadmin.NewAdministration(
		repoadmin.Dependencies{GitExecutor: executor, Inspector: inspector},
		repoadmin.Binding{
			LocalRoot:  operateRoot,
			RemoteRoot: configuration.RemoteRoot,
			Descriptor: bundle.RepoDescriptor{Name: configuration.OperateRepository},
			Branches:   configuration.Branches,
		},
	)
	if administrationError != nil {
		return nil, administrationError
	}

	pullRequests := builder.PullRequests
	if pullRequests == nil {
		client, clientError := githubcli.NewClient(executor)
		if clientError != nil {
			return nil, clientError
		}
		pullRequests = client
	}

	return NewManager(Dependencies{
		Administrator: administration,
		PullRequests:  pullRequests,
		Branches:      configuration.Branches,
	})
}

func (builder *CommandBuilder) resolveConfiguration() shared.ProjectConfiguration {
	if builder.ConfigurationProvider == nil {
		return shared.ProjectConfiguration{}
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor() (shared.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(builder.resolveLogger(), commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
