// Package insertparser turns extracted INSERT statements into their
// structured form: table name, column list, and value rows.
//
// The parser is deliberately shallow. It understands exactly the INSERT
// shape this tool converts and nothing else; dialect validation is out
// of scope. All delimiter handling goes through the quote-aware
// primitives in the scanner package.
package insertparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/scanner"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/types"
)

// ParseError describes why a statement could not be parsed, with the
// statement's source position for manual fixing.
type ParseError struct {
	Code     int32
	Message  string
	Position *types.Position
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("%s at %s", e.Message, e.Position.String())
	}
	return e.Message
}

var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Parse parses one extracted INSERT statement.
//
// The statement must carry an explicit column list; positional inserts
// (INSERT INTO t VALUES ...) are rejected rather than guessed at, since
// the tool has no schema to infer column names from. A schema qualifier
// on the table name is stripped, and every VALUES row must have exactly
// as many values as there are columns.
func Parse(stmt types.RawStatement) (*types.ParsedInsert, error) {
	s := strings.TrimSuffix(strings.TrimSpace(stmt.Text), ";")
	pos := stmt.Start

	rest, ok := cutKeyword(s, "INSERT")
	if ok {
		rest, ok = cutKeyword(rest, "INTO")
	}
	if !ok {
		return nil, &ParseError{
			Code:     types.StatementNotInsert,
			Message:  fmt.Sprintf("not an INSERT INTO statement: %q", types.Snippet(s, 40)),
			Position: &pos,
		}
	}

	table, rest := cutTableName(rest)
	if table == "" {
		return nil, &ParseError{
			Code:     types.StatementMalformed,
			Message:  "missing table name after INSERT INTO",
			Position: &pos,
		}
	}

	// Strip the schema qualifier so only the bare table name reaches
	// the output.
	schema := ""
	if idx := strings.LastIndexByte(table, '.'); idx >= 0 {
		schema, table = table[:idx], table[idx+1:]
		if table == "" {
			return nil, &ParseError{
				Code:     types.StatementMalformed,
				Message:  fmt.Sprintf("malformed table name %q", schema+"."),
				Position: &pos,
			}
		}
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") {
		return nil, &ParseError{
			Code:     types.StatementMissingColumnList,
			Message:  fmt.Sprintf("INSERT into %q has no explicit column list; positional inserts are not supported", table),
			Position: &pos,
		}
	}

	end := scanner.MatchParen(rest, 0)
	if end < 0 {
		return nil, &ParseError{
			Code:     types.StatementMalformed,
			Message:  fmt.Sprintf("unbalanced parenthesis in column list of INSERT into %q", table),
			Position: &pos,
		}
	}

	columns := scanner.SplitTopLevel(rest[1:end], ',')
	for _, col := range columns {
		if col == "" {
			return nil, &ParseError{
				Code:     types.StatementMalformed,
				Message:  fmt.Sprintf("empty column name in INSERT into %q", table),
				Position: &pos,
			}
		}
	}

	rest, ok = cutKeyword(strings.TrimSpace(rest[end+1:]), "VALUES")
	if !ok {
		return nil, &ParseError{
			Code:     types.StatementMissingValues,
			Message:  fmt.Sprintf("expected VALUES after column list in INSERT into %q", table),
			Position: &pos,
		}
	}

	rows, err := parseRows(rest, table, len(columns), pos)
	if err != nil {
		return nil, err
	}

	return &types.ParsedInsert{
		Table:   table,
		Schema:  schema,
		Columns: columns,
		Rows:    rows,
		Start:   pos,
	}, nil
}

// parseRows parses the (...) groups after VALUES. Each group is one row.
func parseRows(s string, table string, columnCount int, pos types.Position) ([][]types.Value, error) {
	var rows [][]types.Value
	for i, part := range scanner.SplitTopLevel(s, ',') {
		if part == "" && len(rows) == 0 {
			break
		}
		if !strings.HasPrefix(part, "(") || scanner.MatchParen(part, 0) != len(part)-1 {
			return nil, &ParseError{
				Code:     types.StatementMalformed,
				Message:  fmt.Sprintf("malformed VALUES row %d in INSERT into %q: %q", i+1, table, types.Snippet(part, 40)),
				Position: &pos,
			}
		}

		var row []types.Value
		for _, token := range scanner.SplitTopLevel(part[1:len(part)-1], ',') {
			row = append(row, classify(token))
		}
		if len(row) != columnCount {
			return nil, &ParseError{
				Code:     types.StatementColumnValueMismatch,
				Message:  fmt.Sprintf("INSERT into %q row %d has %d value(s) for %d column(s)", table, i+1, len(row), columnCount),
				Position: &pos,
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &ParseError{
			Code:     types.StatementMissingValues,
			Message:  fmt.Sprintf("INSERT into %q has no VALUES rows", table),
			Position: &pos,
		}
	}
	return rows, nil
}

// classify maps one value token to its kind. Only an unquoted NULL is
// treated as the null marker; the quoted string 'NULL' stays a string.
func classify(token string) types.Value {
	switch {
	case strings.EqualFold(token, "NULL"):
		return types.Value{Kind: types.ValueKind_NULL}
	case strings.HasPrefix(token, "'"):
		return types.Value{Kind: types.ValueKind_STRING, Text: scanner.Unquote(token)}
	case numericPattern.MatchString(token):
		return types.Value{Kind: types.ValueKind_NUMERIC, Text: token}
	default:
		return types.Value{Kind: types.ValueKind_RAW, Text: token}
	}
}

// cutKeyword strips a leading case-insensitive keyword and any
// whitespace around it, reporting whether the keyword was present.
func cutKeyword(s, keyword string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(keyword) || !strings.EqualFold(s[:len(keyword)], keyword) {
		return s, false
	}
	rest := s[len(keyword):]
	// The keyword must end at a word boundary.
	if rest != "" && rest[0] != ' ' && rest[0] != '(' {
		return s, false
	}
	return strings.TrimSpace(rest), true
}

// cutTableName strips a leading table name token, which may carry a
// schema qualifier.
func cutTableName(s string) (string, string) {
	s = strings.TrimSpace(s)
	end := len(s)
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '(' {
			end = i
			break
		}
	}
	return s[:end], s[end:]
}
