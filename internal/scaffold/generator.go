package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	templatesRootRequiredMessageConstant = "templates root must be provided"
	destinationRequiredMessageConstant   = "destination root must be provided"
	templatesRootAccessTemplateConstant  = "failed to read templates root %s: %w"
	templateReadErrorTemplateConstant    = "failed to read template %s: %w"
	destinationWriteErrorTemplate        = "failed to write %s: %w"
	directoryCreateErrorTemplate         = "failed to create directory %s: %w"
	unknownVariableTemplateConstant      = "template %s references undefined variable %q"
	variableTokenPatternConstant         = `params\.([A-Za-z_][A-Za-z0-9_]*)`
	directoryPermissionsConstant         = fs.FileMode(0o755)
	filePermissionsConstant              = fs.FileMode(0o644)
)

// ErrTemplatesRootRequired indicates an empty templates root was supplied.
var ErrTemplatesRootRequired = errors.New(templatesRootRequiredMessageConstant)

// ErrDestinationRequired indicates an empty destination root was supplied.
var ErrDestinationRequired = errors.New(destinationRequiredMessageConstant)

var variableTokenPattern = regexp.MustCompile(variableTokenPatternConstant)

// UnknownVariableError reports a params.<name> token with no supplied value.
type UnknownVariableError struct {
	TemplatePath string
	VariableName string
}

// Error describes the missing variable.
func (unknownVariable *UnknownVariableError) Error() string {
	return fmt.Sprintf(unknownVariableTemplateConstant, unknownVariable.TemplatePath, unknownVariable.VariableName)
}

// Spec describes one scaffolding run: where the templates live, where the
// materialized tree goes, and the values substituted for params.<var> tokens.
type Spec struct {
	TemplatesRoot   string
	DestinationRoot string
	Variables       map[string]string
}

// Result reports what a scaffolding run materialized.
type Result struct {
	FilesWritten       []string
	DirectoriesCreated []string
}

// Generator materializes project trees from a template directory, replacing
// params.<var> tokens in both path segments and file contents.
type Generator struct{}

// NewGenerator constructs a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate walks the templates root and writes the substituted tree under the
// destination root. Every params.<var> token, in a path segment or in file
// contents, must have a value in the spec's variables.
func (generator *Generator) Generate(spec Spec) (Result, error) {
	trimmedTemplatesRoot := strings.TrimSpace(spec.TemplatesRoot)
	if len(trimmedTemplatesRoot) == 0 {
		return Result{}, ErrTemplatesRootRequired
	}
	trimmedDestinationRoot := strings.TrimSpace(spec.DestinationRoot)
	if len(trimmedDestinationRoot) == 0 {
		return Result{}, ErrDestinationRequired
	}

	result := Result{}
	walkError := filepath.WalkDir(trimmedTemplatesRoot, func(templatePath string, entry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return fmt.Errorf(templatesRootAccessTemplateConstant, trimmedTemplatesRoot, visitError)
		}

		relativePath, relativeError := filepath.Rel(trimmedTemplatesRoot, templatePath)
		if relativeError != nil {
			return relativeError
		}
		if relativePath == "." {
			return nil
		}

		substitutedPath, substitutionError := substitute(relativePath, spec.Variables, relativePath)
		if substitutionError != nil {
			return substitutionError
		}
		destinationPath := filepath.Join(trimmedDestinationRoot, substitutedPath)

		if entry.IsDir() {
			if mkdirError := os.MkdirAll(destinationPath, directoryPermissionsConstant); mkdirError != nil {
				return fmt.Errorf(directoryCreateErrorTemplate, destinationPath, mkdirError)
			}
			result.DirectoriesCreated = append(result.DirectoriesCreated, destinationPath)
			return nil
		}

		templateBytes, readError := os.ReadFile(templatePath)
		if readError != nil {
			return fmt.Errorf(templateReadErrorTemplateConstant, templatePath, readError)
		}

		substitutedContents, contentsError := substitute(string(templateBytes), spec.Variables, relativePath)
		if contentsError != nil {
			return contentsError
		}

		if mkdirError := os.MkdirAll(filepath.Dir(destinationPath), directoryPermissionsConstant); mkdirError != nil {
			return fmt.Errorf(directoryCreateErrorTemplate, filepath.Dir(destinationPath), mkdirError)
		}
		if writeError := os.WriteFile(destinationPath, []byte(substitutedContents), filePermissionsConstant); writeError != nil {
			return fmt.Errorf(destinationWriteErrorTemplate, destinationPath, writeError)
		}

		result.FilesWritten = append(result.FilesWritten, destinationPath)
		return nil
	})
	if walkError != nil {
		return Result{}, walkError
	}

	return result, nil
}

// substitute replaces every params.<name> token in text with its variable
// value, failing on the first token with no value.
func substitute(text string, variables map[string]string, templatePath string) (string, error) {
	var missingVariable string
	substituted := variableTokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		variableName := strings.TrimPrefix(token, "params.")
		value, known := variables[variableName]
		if !known {
			if len(missingVariable) == 0 {
				missingVariable = variableName
			}
			return token
		}
		return value
	})

	if len(missingVariable) > 0 {
		return "", &UnknownVariableError{TemplatePath: templatePath, VariableName: missingVariable}
	}

	return substituted, nil
}
