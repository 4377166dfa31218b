package lifecycle

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bundleworks/gitbundle/internal/repoadmin"
)

const (
	reportColumnPaddingConstant       = 2
	workflowReportHeaderConstant      = "REPOSITORY\tELAPSED\tSTATUS\n"
	workflowReportRowTemplateConstant = "%s\t%s\t%s\n"
	statsReportHeaderConstant         = "REPOSITORY\tBRANCH\tCLEAN\tMODIFIED\tDELETED\tUNTRACKED\tAHEAD\tBEHIND\tLAST COMMIT\n"
	statsReportRowTemplateConstant    = "%s\t%s\t%t\t%d\t%d\t%d\t%d\t%d\t%s\n"
	failedStatusTemplateConstant      = "failed: %v"
	elapsedRoundingUnitConstant       = time.Millisecond
)

// WorkflowResult records the outcome of one repository within a bundle operation.
type WorkflowResult struct {
	RepositoryName string
	Elapsed        time.Duration
	Status         string
	Err            error
}

// WorkflowReport aggregates the per-repository outcomes of one bundle operation.
type WorkflowReport struct {
	Operation string
	Results   []WorkflowResult
}

// FailedRepositories returns the names of repositories whose operation failed,
// in bundle order.
func (report WorkflowReport) FailedRepositories() []string {
	failedNames := []string{}
	for _, result := range report.Results {
		if result.Err != nil {
			failedNames = append(failedNames, result.RepositoryName)
		}
	}
	return failedNames
}

// Render writes the report as an aligned text table.
func (report WorkflowReport) Render(writer io.Writer) error {
	tableWriter := tabwriter.NewWriter(writer, 0, 0, reportColumnPaddingConstant, ' ', 0)
	fmt.Fprint(tableWriter, workflowReportHeaderConstant)
	for _, result := range report.Results {
		statusText := result.Status
		if result.Err != nil {
			statusText = fmt.Sprintf(failedStatusTemplateConstant, result.Err)
		}
		fmt.Fprintf(tableWriter, workflowReportRowTemplateConstant, result.RepositoryName, result.Elapsed.Round(elapsedRoundingUnitConstant), statusText)
	}
	return tableWriter.Flush()
}

// RenderStats writes the bundle status snapshot as an aligned text table.
func RenderStats(statistics []repoadmin.RepositoryStats, writer io.Writer) error {
	tableWriter := tabwriter.NewWriter(writer, 0, 0, reportColumnPaddingConstant, ' ', 0)
	fmt.Fprint(tableWriter, statsReportHeaderConstant)
	for _, repositoryStats := range statistics {
		fmt.Fprintf(
			tableWriter,
			statsReportRowTemplateConstant,
			repositoryStats.RepositoryName,
			repositoryStats.CurrentBranch,
			repositoryStats.Clean,
			repositoryStats.ModifiedCount,
			repositoryStats.DeletedCount,
			repositoryStats.UntrackedCount,
			repositoryStats.AheadCount,
			repositoryStats.BehindCount,
			repositoryStats.LastCommit.Summary,
		)
	}
	return tableWriter.Flush()
}
