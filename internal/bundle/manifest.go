package bundle

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestPathRequiredMessageConstant = "bundle manifest path must be provided"
	manifestReadErrorTemplateConstant   = "failed to read bundle manifest: %w"
	manifestParseErrorTemplateConstant  = "failed to parse bundle manifest: %w"
)

// ErrManifestPathRequired indicates an empty manifest path was supplied.
var ErrManifestPathRequired = errors.New(manifestPathRequiredMessageConstant)

// Manifest declares a bundle in a standalone YAML document.
type Manifest struct {
	Project      string           `yaml:"project"`
	LocalRoot    string           `yaml:"local_root"`
	RemoteRoot   string           `yaml:"remote_root"`
	Repositories []RepoDescriptor `yaml:"repositories"`
}

// LoadManifest reads a bundle manifest from disk and validates its repositories.
func LoadManifest(manifestPath string) (Manifest, RepoBundle, error) {
	trimmedPath := strings.TrimSpace(manifestPath)
	if len(trimmedPath) == 0 {
		return Manifest{}, RepoBundle{}, ErrManifestPathRequired
	}

	manifestBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Manifest{}, RepoBundle{}, fmt.Errorf(manifestReadErrorTemplateConstant, readError)
	}

	var manifest Manifest
	if unmarshalError := yaml.Unmarshal(manifestBytes, &manifest); unmarshalError != nil {
		return Manifest{}, RepoBundle{}, fmt.Errorf(manifestParseErrorTemplateConstant, unmarshalError)
	}

	repoBundle, bundleError := NewRepoBundle(manifest.Repositories)
	if bundleError != nil {
		return Manifest{}, RepoBundle{}, bundleError
	}

	return manifest, repoBundle, nil
}
