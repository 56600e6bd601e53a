// Package types defines the core data structures shared across the converter.
package types

import (
	"fmt"
	"strings"
)

// Position identifies a location in the source SQL text.
// Line and Column are both ONE based.
type Position struct {
	Line   int32 `json:"line" yaml:"line"`
	Column int32 `json:"column" yaml:"column"`
}

func (p *Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// RawStatement is a contiguous span of source text beginning at an INSERT
// keyword and ending at its terminating semicolon, inclusive of embedded
// newlines. It is produced by the scanner and consumed once by the parser.
type RawStatement struct {
	// Text holds the statement with whitespace outside string literals
	// collapsed to single spaces. Whitespace inside literals is preserved.
	Text string

	// Start is the position of the INSERT keyword in the original source.
	Start Position

	// Terminated reports whether the statement ended with a semicolon.
	// A statement completed at end-of-file has Terminated false.
	Terminated bool
}

// ValueKind classifies a single value token from a VALUES row.
type ValueKind int32

const (
	ValueKind_UNSPECIFIED ValueKind = 0
	ValueKind_NULL        ValueKind = 1
	ValueKind_STRING      ValueKind = 2
	ValueKind_NUMERIC     ValueKind = 3
	ValueKind_RAW         ValueKind = 4
)

func (k ValueKind) String() string {
	switch k {
	case ValueKind_NULL:
		return "NULL"
	case ValueKind_STRING:
		return "STRING"
	case ValueKind_NUMERIC:
		return "NUMERIC"
	case ValueKind_RAW:
		return "RAW"
	default:
		return "UNSPECIFIED"
	}
}

// Value is one parsed value token.
//
// For STRING values Text holds the decoded content with the surrounding
// quotes removed and quote escapes resolved. For NUMERIC and RAW values
// Text holds the token verbatim. For NULL values Text is empty.
type Value struct {
	Kind ValueKind
	Text string
}

// ParsedInsert is the structured form of a single INSERT statement.
//
// Invariant: every row in Rows has exactly len(Columns) values.
type ParsedInsert struct {
	// Table is the bare table name with any schema qualifier removed.
	Table string

	// Schema is the qualifier that was stripped from the table name,
	// retained for diagnostics. Empty when the name was unqualified.
	Schema string

	// Columns is the ordered column list from the statement.
	Columns []string

	// Rows holds one value sequence per VALUES row, in source order.
	Rows [][]Value

	// Start is the statement position in the original source.
	Start Position
}

// Changeset is one Liquibase changeset: a unique identifier, an author,
// and the insert it was generated from. Multi-row inserts stay in a
// single changeset so that statement count equals changeset count.
type Changeset struct {
	ID     string
	Author string
	Insert *ParsedInsert
}

// Issue_Status is the severity of a conversion finding.
type Issue_Status int32

const (
	Issue_STATUS_UNSPECIFIED Issue_Status = 0
	Issue_WARNING            Issue_Status = 1
	Issue_ERROR              Issue_Status = 2
)

func (s Issue_Status) String() string {
	switch s {
	case Issue_WARNING:
		return "WARNING"
	case Issue_ERROR:
		return "ERROR"
	default:
		return "STATUS_UNSPECIFIED"
	}
}

// Issue codes.
const (
	Internal = 1

	// 101 ~ 199 extraction codes.
	StatementNotTerminated     = 101
	StatementUnterminatedQuote = 102

	// 201 ~ 299 parse codes.
	StatementNotInsert           = 201
	StatementMissingColumnList   = 202
	StatementColumnValueMismatch = 203
	StatementMissingValues       = 204
	StatementMalformed           = 205
)

// Issue describes a problem found while converting one statement.
// Skipped statements always carry an Issue with enough context to be
// fixed by hand.
type Issue struct {
	Status        Issue_Status `json:"status" yaml:"status"`
	Code          int32        `json:"code" yaml:"code"`
	Title         string       `json:"title" yaml:"title"`
	Content       string       `json:"content" yaml:"content"`
	StartPosition *Position    `json:"startPosition,omitempty" yaml:"startPosition,omitempty"`
}

// Snippet returns at most n characters of s for use in issue content,
// with newlines flattened so the snippet stays on one log line.
func Snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
