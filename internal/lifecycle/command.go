package lifecycle

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bundleworks/gitbundle/internal/bundle"
	"github.com/bundleworks/gitbundle/internal/execshell"
	"github.com/bundleworks/gitbundle/internal/inspect"
	"github.com/bundleworks/gitbundle/internal/repoadmin"
	"github.com/bundleworks/gitbundle/internal/shared"
)

const (
	featureCommandUseConstant              = "feature"
	featureCommandShortDescriptionConstant = "Manage a feature branch across every bundle repository"
	startCommandUseConstant                = "start <branch>"
	startCommandShortDescriptionConstant   = "Check out the feature branch everywhere, creating it from integration where missing"
	refreshCommandUseConstant              = "refresh <branch>"
	refreshCommandShortDescriptionConstant = "Merge the latest integration state into the feature branch everywhere"
	commitCommandUseConstant               = "commit <branch>"
	commitCommandShortDescriptionConstant  = "Stage, commit, and push the feature branch everywhere"
	completeCommandUseConstant             = "complete <branch>"
	completeCommandShortDescriptionConstant = "Merge the feature branch into integration everywhere and push"
	removeCommandUseConstant               = "remove <branch>"
	removeCommandShortDescriptionConstant  = "Delete the feature branch everywhere once it is merged"
	statsCommandUseConstant                = "stats"
	statsCommandShortDescriptionConstant   = "Show the working tree status of every bundle repository"
	flagReposNameConstant                  = "repos"
	flagReposDescriptionConstant           = "Restrict the operation to the named bundle repositories"
	flagMessageNameConstant                = "message"
	flagMessageShorthandConstant           = "m"
	flagMessageDescriptionConstant         = "Commit message applied to every repository"
	flagFromRemoteNameConstant             = "from-remote"
	flagFromRemoteDescriptionConstant      = "Pull the feature branch from its remote tracking branch instead of merging integration"
	flagRemoveBranchNameConstant           = "remove-branch"
	flagRemoveBranchDescriptionConstant    = "Delete the feature branch after it has been merged everywhere"
	bundleNotConfiguredMessageConstant     = "no bundle repositories configured: set repositories or a manifest path"
	localRootNotConfiguredMessageConstant  = "local root path not configured"
)

// ErrBundleNotConfigured indicates the configuration declares no repositories.
var ErrBundleNotConfigured = errors.New(bundleNotConfiguredMessageConstant)

// ErrLocalRootNotConfigured indicates the configuration declares no local root.
var ErrLocalRootNotConfigured = errors.New(localRootNotConfiguredMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved project configuration.
type ConfigurationProvider func() shared.ProjectConfiguration

// CommandBuilder assembles the feature and stats commands.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	GitExecutor           shared.GitExecutor
	Inspector             repoadmin.RepositoryInspector
}

// BuildFeatureCommand constructs the feature command tree.
func (builder *CommandBuilder) BuildFeatureCommand() (*cobra.Command, error) {
	featureCommand := &cobra.Command{
		Use:   featureCommandUseConstant,
		Short: featureCommandShortDescriptionConstant,
	}
	featureCommand.PersistentFlags().StringSlice(flagReposNameConstant, nil, flagReposDescriptionConstant)

	startCommand := &cobra.Command{
		Use:   startCommandUseConstant,
		Short: startCommandShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runStart,
	}

	refreshCommand := &cobra.Command{
		Use:   refreshCommandUseConstant,
		Short: refreshCommandShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runRefresh,
	}
	refreshCommand.Flags().Bool(flagFromRemoteNameConstant, false, flagFromRemoteDescriptionConstant)

	commitCommand := &cobra.Command{
		Use:   commitCommandUseConstant,
		Short: commitCommandShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runCommit,
	}
	commitCommand.Flags().StringP(flagMessageNameConstant, flagMessageShorthandConstant, "", flagMessageDescriptionConstant)

	completeCommand := &cobra.Command{
		Use:   completeCommandUseConstant,
		Short: completeCommandShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runComplete,
	}
	completeCommand.Flags().Bool(flagRemoveBranchNameConstant, false, flagRemoveBranchDescriptionConstant)

	removeCommand := &cobra.Command{
		Use:   removeCommandUseConstant,
		Short: removeCommandShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runRemove,
	}

	featureCommand.AddCommand(startCommand, refreshCommand, commitCommand, completeCommand, removeCommand)
	return featureCommand, nil
}

// BuildStatsCommand constructs the stats command.
func (builder *CommandBuilder) BuildStatsCommand() (*cobra.Command, error) {
	statsCommand := &cobra.Command{
		Use:   statsCommandUseConstant,
		Short: statsCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runStats,
	}
	statsCommand.Flags().StringSlice(flagReposNameConstant, nil, flagReposDescriptionConstant)
	return statsCommand, nil
}

func (builder *CommandBuilder) runStart(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager(command)
	if managerError != nil {
		return managerError
	}

	report, workflowError := manager.WorkOnFeature(command.Context(), arguments[0])
	if renderError := report.Render(command.OutOrStdout()); renderError != nil {
		return renderError
	}
	return workflowError
}

func (builder *CommandBuilder) runRefresh(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager(command)
	if managerError != nil {
		return managerError
	}

	fromRemote, _ := command.Flags().GetBool(flagFromRemoteNameConstant)

	var report WorkflowReport
	var workflowError error
	if fromRemote {
		report, workflowError = manager.RefreshFromRemote(command.Context(), arguments[0])
	} else {
		report, workflowError = manager.RefreshFromIntegration(command.Context(), arguments[0])
	}

	if renderError := report.Render(command.OutOrStdout()); renderError != nil {
		return renderError
	}
	return workflowError
}

func (builder *CommandBuilder) runCommit(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager(command)
	if managerError != nil {
		return managerError
	}

	message, _ := command.Flags().GetString(flagMessageNameConstant)

	report, workflowError := manager.CommitFeature(command.Context(), arguments[0], message)
	if renderError := report.Render(command.OutOrStdout()); renderError != nil {
		return renderError
	}
	return workflowError
}

func (builder *CommandBuilder) runComplete(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager(command)
	if managerError != nil {
		return managerError
	}

	removeBranch, _ := command.Flags().GetBool(flagRemoveBranchNameConstant)

	report, workflowError := manager.CompleteFeature(command.Context(), arguments[0], removeBranch)
	if renderError := report.Render(command.OutOrStdout()); renderError != nil {
		return renderError
	}
	return workflowError
}

func (builder *CommandBuilder) runRemove(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager(command)
	if managerError != nil {
		return managerError
	}

	report, workflowError := manager.RemoveFeatureBranch(command.Context(), arguments[0])
	if renderError := report.Render(command.OutOrStdout()); renderError != nil {
		return renderError
	}
	return workflowError
}

func (builder *CommandBuilder) runStats(command *cobra.Command, arguments []string) error {
	manager, managerError := builder.resolveManager(command)
	if managerError != nil {
		return managerError
	}

	statistics, _, workflowError := manager.RepoStats(command.Context())
	if renderError := RenderStats(statistics, command.OutOrStdout()); renderError != nil {
		return renderError
	}
	return workflowError
}

func (builder *CommandBuilder) resolveManager(command *cobra.Command) (*Manager, error) {
	configuration := builder.resolveConfiguration()

	configuration, repoBundle, bundleError := ResolveBundle(configuration)
	if bundleError != nil {
		return nil, bundleError
	}

	subsetNames, _ := command.Flags().GetStringSlice(flagReposNameConstant)
	repoBundle, subsetError := repoBundle.Subset(subsetNames)
	if subsetError != nil {
		return nil, subsetError
	}

	executor, executorError := builder.resolveExecutor()
	if executorError != nil {
		return nil, executorError
	}

	inspector := builder.Inspector
	if inspector == nil {
		inspector = inspect.NewInspector()
	}

	administrators := make([]RepositoryAdministrator, 0, repoBundle.Size())
	for _, descriptor := range repoBundle.Descriptors() {
		administration, administrationError := repoadmin.NewAdministration(
			repoadmin.Dependencies{GitExecutor: executor, Inspector: inspector},
			repoadmin.Binding{
				LocalRoot:  configuration.LocalRoot,
				RemoteRoot: configuration.RemoteRoot,
				Descriptor: descriptor,
				Branches:   configuration.Branches,
			},
		)
		if administrationError != nil {
			return nil, administrationError
		}
		administrators = append(administrators, administration)
	}

	return NewManager(Dependencies{
		Administrators: administrators,
		Branches:       configuration.Branches,
	})
}

// ResolveBundle derives the repository bundle from the project configuration,
// preferring a standalone manifest when one is configured and filling blank
// root paths from it.
func ResolveBundle(configuration shared.ProjectConfiguration) (shared.ProjectConfiguration, bundle.RepoBundle, error) {
	resolved := configuration.Sanitize()

	var repoBundle bundle.RepoBundle
	switch {
	case len(resolved.ManifestPath) > 0:
		manifest, manifestBundle, manifestError := bundle.LoadManifest(resolved.ManifestPath)
		if manifestError != nil {
			return resolved, bundle.RepoBundle{}, manifestError
		}
		repoBundle = manifestBundle
		if len(resolved.LocalRoot) == 0 {
			resolved.LocalRoot = strings.TrimSpace(manifest.LocalRoot)
		}
		if len(resolved.RemoteRoot) == 0 {
			resolved.RemoteRoot = strings.TrimSpace(manifest.RemoteRoot)
		}
		if len(resolved.ProjectName) == 0 {
			resolved.ProjectName = strings.TrimSpace(manifest.Project)
		}
	case len(resolved.Repositories) > 0:
		descriptors := make([]bundle.RepoDescriptor, 0, len(resolved.Repositories))
		for _, repository := range resolved.Repositories {
			descriptors = append(descriptors, bundle.RepoDescriptor{Name: repository.Name, RelativePath: repository.Path})
		}
		configuredBundle, bundleError := bundle.NewRepoBundle(descriptors)
		if bundleError != nil {
			return resolved, bundle.RepoBundle{}, bundleError
		}
		repoBundle = configuredBundle
	default:
		return resolved, bundle.RepoBundle{}, ErrBundleNotConfigured
	}

	if len(resolved.LocalRoot) == 0 {
		return resolved, bundle.RepoBundle{}, ErrLocalRootNotConfigured
	}

	return resolved, repoBundle, nil
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
