// Package pkg provides SQL-to-Liquibase conversion functionality for Go applications.
//
// The converter parses SQL INSERT statements and renders them as Liquibase
// XML changesets. The conversion is purely textual: no database connection
// is made and no SQL dialect validation is performed.
//
// # Package Structure
//
// The pkg directory contains several specialized packages:
//
//   - converter: High-level API for converting SQL text or files (recommended starting point)
//   - scanner: Quote-aware scanning primitives shared by extraction and parsing
//   - insertparser: Structural parsing of individual INSERT statements
//   - changelog: Liquibase XML document model and changeset identity generation
//   - types: Core type definitions and data structures
//   - config: Settings file loading
//   - logger: Logging abstraction layer
//
// # Getting Started
//
// For most use cases, start with the converter package:
//
//	import "github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/converter"
//
//	func main() {
//	    c := converter.New(converter.WithAuthor("migrations-team"))
//	    result, err := c.ConvertFile(context.Background(), "inserts.sql", "liquibase_inserts.xml")
//	    // Inspect result.Summary and result.Issues...
//	}
//
// # Error Handling
//
// Conversion distinguishes between:
//   - Per-statement findings (returned as Issues in Result)
//   - Run-level failures such as unreadable input (returned as error)
//
// By default a malformed statement is skipped with an error-level issue so
// the rest of the file still converts. Strict mode turns the first such
// statement into a run-level failure instead.
package pkg
