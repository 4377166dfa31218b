package scaffold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	commandUseConstant                 = "scaffold"
	commandShortDescriptionConstant    = "Materialize a project tree from params.<var> templates"
	commandLongDescriptionConstant     = "scaffold copies a template directory to a destination, replacing params.<var> tokens in folder names, file names, and file contents with the supplied variable values."
	flagTemplatesNameConstant          = "templates"
	flagTemplatesDescriptionConstant   = "Directory holding the template tree"
	flagDestinationNameConstant        = "destination"
	flagDestinationDescriptionConstant = "Directory the materialized tree is written to"
	flagSetNameConstant                = "set"
	flagSetDescriptionConstant         = "Template variable as name=value (repeatable)"
	malformedVariableTemplateConstant  = "malformed variable assignment %q: expected name=value"
	filesWrittenTemplateConstant       = "wrote %d files to %s\n"
	variableAssignmentSeparator        = "="
	variableAssignmentPartsConstant    = 2
	unexpectedArgumentsMessageConstant = "scaffold does not accept positional arguments"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// CommandBuilder assembles the scaffold command.
type CommandBuilder struct{}

// Build constructs the scaffold command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagTemplatesNameConstant, "", flagTemplatesDescriptionConstant)
	command.Flags().String(flagDestinationNameConstant, "", flagDestinationDescriptionConstant)
	command.Flags().StringArray(flagSetNameConstant, nil, flagSetDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	templatesRoot, _ := command.Flags().GetString(flagTemplatesNameConstant)
	destinationRoot, _ := command.Flags().GetString(flagDestinationNameConstant)
	assignments, _ := command.Flags().GetStringArray(flagSetNameConstant)

	variables, parseError := parseVariableAssignments(assignments)
	if parseError != nil {
		return parseError
	}

	result, generationError := NewGenerator().Generate(Spec{
		TemplatesRoot:   templatesRoot,
		DestinationRoot: destinationRoot,
		Variables:       variables,
	})
	if generationError != nil {
		return generationError
	}

	fmt.Fprintf(command.OutOrStdout(), filesWrittenTemplateConstant, len(result.FilesWritten), strings.TrimSpace(destinationRoot))
	return nil
}

func parseVariableAssignments(assignments []string) (map[string]string, error) {
	variables := map[string]string{}
	for _, assignment := range assignments {
		parts := strings.SplitN(assignment, variableAssignmentSeparator, variableAssignmentPartsConstant)
		if len(parts) != variableAssignmentPartsConstant || len(strings.TrimSpace(parts[0])) == 0 {
			return nil, fmt.Errorf(malformedVariableTemplateConstant, assignment)
		}
		variables[strings.TrimSpace(parts[0])] = parts[1]
	}
	return variables, nil
}
