package converter

import (
	"fmt"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/changelog"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/types"
)

// Result contains the outcome of one conversion run.
type Result struct {
	// Document is the generated changelog, with one changeset per
	// converted statement in source order.
	Document *changelog.Document `json:"-" yaml:"-"`

	// Issues lists every statement that was skipped or completed with a
	// warning. Empty when the input converted cleanly.
	Issues []*types.Issue `json:"issues" yaml:"issues"`

	// Summary provides aggregate statistics about the run.
	Summary Summary `json:"summary" yaml:"summary"`
}

// Summary provides aggregate statistics about a conversion run.
type Summary struct {
	// Statements is the number of INSERT statements recognized in the
	// input.
	Statements int `json:"statements" yaml:"statements"`

	// Changesets is the number of changesets in the output document.
	Changesets int `json:"changesets" yaml:"changesets"`

	// Skipped is the number of statements dropped as malformed.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Warnings is the count of WARNING-level issues.
	Warnings int `json:"warnings" yaml:"warnings"`

	// Errors is the count of ERROR-level issues.
	Errors int `json:"errors" yaml:"errors"`
}

// HasErrors returns true if any statement was dropped.
func (r *Result) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any statement needed a repair warning.
func (r *Result) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// IsClean returns true if every recognized statement converted without
// issues.
func (r *Result) IsClean() bool {
	return r.Summary.Errors == 0 && r.Summary.Warnings == 0
}

// String returns a human-readable summary of the run.
//
// Example output:
//
//	Converted 5 statement(s) into 5 changeset(s) (0 skipped, 1 warning(s))
func (r *Result) String() string {
	return fmt.Sprintf(
		"Converted %d statement(s) into %d changeset(s) (%d skipped, %d warning(s))",
		r.Summary.Statements,
		r.Summary.Changesets,
		r.Summary.Skipped,
		r.Summary.Warnings,
	)
}

// FilterByStatus returns only the issues with the given status.
func (r *Result) FilterByStatus(status types.Issue_Status) []*types.Issue {
	var filtered []*types.Issue
	for _, issue := range r.Issues {
		if issue.Status == status {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
