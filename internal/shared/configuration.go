package shared

import "strings"

const (
	defaultIntegrationBranchNameConstant    = "integration"
	defaultMasterBranchNameConstant         = "master"
	defaultOperateBranchNameConstant        = "operate"
	defaultOperateStandbyBranchNameConstant = "operate-standby"
)

// BranchConfiguration names the long-lived branches of a bundle project.
type BranchConfiguration struct {
	Integration string   `mapstructure:"integration" yaml:"integration"`
	Master      string   `mapstructure:"master" yaml:"master"`
	Operate     string   `mapstructure:"operate" yaml:"operate"`
	Reserved    []string `mapstructure:"reserved" yaml:"reserved"`
}

// RepositoryConfiguration describes one repository entry of the configured bundle.
type RepositoryConfiguration struct {
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path"`
}

// ProjectConfiguration captures the multi-repository project every command operates on.
type ProjectConfiguration struct {
	ProjectName       string                    `mapstructure:"name" yaml:"name"`
	LocalRoot         string                    `mapstructure:"local_root" yaml:"local_root"`
	RemoteRoot        string                    `mapstructure:"remote_root" yaml:"remote_root"`
	OperateRoot       string                    `mapstructure:"operate_root" yaml:"operate_root"`
	OperateRepository string                    `mapstructure:"operate_repository" yaml:"operate_repository"`
	ManifestPath      string                    `mapstructure:"manifest" yaml:"manifest"`
	Branches          BranchConfiguration       `mapstructure:"branches" yaml:"branches"`
	Repositories      []RepositoryConfiguration `mapstructure:"repositories" yaml:"repositories"`
}

// DefaultBranchConfiguration provides the conventional branch names.
func DefaultBranchConfiguration() BranchConfiguration {
	return BranchConfiguration{
		Integration: defaultIntegrationBranchNameConstant,
		Master:      defaultMasterBranchNameConstant,
		Operate:     defaultOperateBranchNameConstant,
		Reserved:    nil,
	}
}

// Sanitize trims configured values and fills defaulted branch names.
func (configuration ProjectConfiguration) Sanitize() ProjectConfiguration {
	sanitized := configuration

	sanitized.ProjectName = strings.TrimSpace(configuration.ProjectName)
	sanitized.LocalRoot = strings.TrimSpace(configuration.LocalRoot)
	sanitized.RemoteRoot = strings.TrimSpace(configuration.RemoteRoot)
	sanitized.OperateRoot = strings.TrimSpace(configuration.OperateRoot)
	sanitized.OperateRepository = strings.TrimSpace(configuration.OperateRepository)
	sanitized.ManifestPath = strings.TrimSpace(configuration.ManifestPath)
	sanitized.Branches = configuration.Branches.sanitize()

	sanitizedRepositories := make([]RepositoryConfiguration, 0, len(configuration.Repositories))
	for _, repository := range configuration.Repositories {
		trimmedName := strings.TrimSpace(repository.Name)
		if len(trimmedName) == 0 {
			continue
		}
		sanitizedRepositories = append(sanitizedRepositories, RepositoryConfiguration{
			Name: trimmedName,
			Path: strings.TrimSpace(repository.Path),
		})
	}
	sanitized.Repositories = sanitizedRepositories

	return sanitized
}

func (configuration BranchConfiguration) sanitize() BranchConfiguration {
	sanitized := configuration

	sanitized.Integration = strings.TrimSpace(configuration.Integration)
	if len(sanitized.Integration) == 0 {
		sanitized.Integration = defaultIntegrationBranchNameConstant
	}

	sanitized.Master = strings.TrimSpace(configuration.Master)
	if len(sanitized.Master) == 0 {
		sanitized.Master = defaultMasterBranchNameConstant
	}

	sanitized.Operate = strings.TrimSpace(configuration.Operate)
	if len(sanitized.Operate) == 0 {
		sanitized.Operate = defaultOperateBranchNameConstant
	}

	sanitized.Reserved = sanitizeBranchNames(configuration.Reserved)

	return sanitized
}

// ReservedBranchNames returns every branch name protected from deletion.
func (configuration BranchConfiguration) ReservedBranchNames() []string {
	reservedNames := []string{
		configuration.Integration,
		configuration.Master,
		configuration.Operate,
		defaultOperateStandbyBranchNameConstant,
	}
	reservedNames = append(reservedNames, configuration.Reserved...)

	seenNames := map[string]struct{}{}
	uniqueNames := make([]string, 0, len(reservedNames))
	for _, reservedName := range reservedNames {
		trimmedName := strings.TrimSpace(reservedName)
		if len(trimmedName) == 0 {
			continue
		}
		if _, alreadySeen := seenNames[trimmedName]; alreadySeen {
			continue
		}
		seenNames[trimmedName] = struct{}{}
		uniqueNames = append(uniqueNames, trimmedName)
	}

	return uniqueNames
}

func sanitizeBranchNames(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
