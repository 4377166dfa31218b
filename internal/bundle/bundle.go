package bundle

import (
	"errors"
	"fmt"
	"strings"
)

const (
	emptyBundleMessageConstant              = "bundle requires at least one repository"
	descriptorNameRequiredMessageConstant   = "repository descriptor requires a name"
	duplicateDescriptorTemplateConstant     = "repository %q declared more than once"
	unknownSubsetRepositoryTemplateConstant = "repository %q is not part of the bundle"
)

// ErrEmptyBundle indicates a bundle was constructed without repositories.
var ErrEmptyBundle = errors.New(emptyBundleMessageConstant)

// ErrDescriptorNameRequired indicates a descriptor was declared without a name.
var ErrDescriptorNameRequired = errors.New(descriptorNameRequiredMessageConstant)

// RepoDescriptor identifies one repository of a bundle.
//
// Name is unique within the bundle. RelativePath locates the working copy
// under the project local root and defaults to the name when empty.
type RepoDescriptor struct {
	Name         string `yaml:"name" mapstructure:"name"`
	RelativePath string `yaml:"path" mapstructure:"path"`
}

// RepoBundle is an ordered, immutable sequence of repository descriptors.
type RepoBundle struct {
	descriptors []RepoDescriptor
}

// NewRepoBundle validates descriptors and constructs a bundle preserving order.
func NewRepoBundle(descriptors []RepoDescriptor) (RepoBundle, error) {
	if len(descriptors) == 0 {
		return RepoBundle{}, ErrEmptyBundle
	}

	seenNames := map[string]struct{}{}
	normalizedDescriptors := make([]RepoDescriptor, 0, len(descriptors))
	for _, descriptor := range descriptors {
		trimmedName := strings.TrimSpace(descriptor.Name)
		if len(trimmedName) == 0 {
			return RepoBundle{}, ErrDescriptorNameRequired
		}
		if _, alreadySeen := seenNames[trimmedName]; alreadySeen {
			return RepoBundle{}, fmt.Errorf(duplicateDescriptorTemplateConstant, trimmedName)
		}
		seenNames[trimmedName] = struct{}{}

		trimmedPath := strings.TrimSpace(descriptor.RelativePath)
		if len(trimmedPath) == 0 {
			trimmedPath = trimmedName
		}

		normalizedDescriptors = append(normalizedDescriptors, RepoDescriptor{Name: trimmedName, RelativePath: trimmedPath})
	}

	return RepoBundle{descriptors: normalizedDescriptors}, nil
}

// Descriptors returns a copy of the bundled descriptors in declaration order.
func (bundle RepoBundle) Descriptors() []RepoDescriptor {
	duplicated := make([]RepoDescriptor, len(bundle.descriptors))
	copy(duplicated, bundle.descriptors)
	return duplicated
}

// Names returns the repository names in declaration order.
func (bundle RepoBundle) Names() []string {
	names := make([]string, 0, len(bundle.descriptors))
	for _, descriptor := range bundle.descriptors {
		names = append(names, descriptor.Name)
	}
	return names
}

// Size reports the number of bundled repositories.
func (bundle RepoBundle) Size() int {
	return len(bundle.descriptors)
}

// Lookup returns the descriptor with the given name.
func (bundle RepoBundle) Lookup(name string) (RepoDescriptor, bool) {
	for _, descriptor := range bundle.descriptors {
		if descriptor.Name == name {
			return descriptor, true
		}
	}
	return RepoDescriptor{}, false
}

// Subset returns a bundle restricted to the named repositories, preserving the
// original declaration order regardless of the order names are supplied in.
func (bundle RepoBundle) Subset(names []string) (RepoBundle, error) {
	requestedNames := map[string]struct{}{}
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if len(trimmedName) == 0 {
			continue
		}
		if _, known := bundle.Lookup(trimmedName); !known {
			return RepoBundle{}, fmt.Errorf(unknownSubsetRepositoryTemplateConstant, trimmedName)
		}
		requestedNames[trimmedName] = struct{}{}
	}

	if len(requestedNames) == 0 {
		return bundle, nil
	}

	subsetDescriptors := make([]RepoDescriptor, 0, len(requestedNames))
	for _, descriptor := range bundle.descriptors {
		if _, requested := requestedNames[descriptor.Name]; requested {
			subsetDescriptors = append(subsetDescriptors, descriptor)
		}
	}

	return RepoBundle{descriptors: subsetDescriptors}, nil
}
