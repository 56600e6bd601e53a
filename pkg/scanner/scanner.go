// Package scanner provides quote-aware scanning over raw SQL text.
//
// Statement splitting and value-list tokenizing both need to know whether
// the current position is inside a single-quoted string literal, so that
// semicolons and commas inside literals are never treated as structural.
// This package implements that state tracking once and is the only place
// in the converter that inspects quote state.
package scanner

import (
	"fmt"
	"strings"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/types"
)

// cursor walks a string byte by byte while tracking the ONE based
// line/column position of the next unread byte.
type cursor struct {
	src  string
	i    int
	line int32
	col  int32
}

func newCursor(src string) *cursor {
	return &cursor{src: src, line: 1, col: 1}
}

func (c *cursor) eof() bool {
	return c.i >= len(c.src)
}

func (c *cursor) peek() byte {
	return c.src[c.i]
}

func (c *cursor) next() byte {
	b := c.src[c.i]
	c.i++
	if b == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return b
}

func (c *cursor) pos() types.Position {
	return types.Position{Line: c.line, Column: c.col}
}

// hasPrefix reports whether the unread input starts with s.
func (c *cursor) hasPrefix(s string) bool {
	return strings.HasPrefix(c.src[c.i:], s)
}

// skipLine consumes up to and including the next newline.
func (c *cursor) skipLine() {
	for !c.eof() {
		if c.next() == '\n' {
			return
		}
	}
}

// readWord consumes a run of identifier bytes.
func (c *cursor) readWord() string {
	start := c.i
	for !c.eof() && isWordByte(c.peek()) {
		c.next()
	}
	return c.src[start:c.i]
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// consumeQuoted consumes a single-quoted literal starting at the opening
// quote, writing it verbatim to buf. A doubled quote ('') and a
// backslash-escaped quote (\') both stay inside the literal. Reports
// false when the input ends before the closing quote.
func consumeQuoted(c *cursor, buf *strings.Builder) bool {
	buf.WriteByte(c.next())
	for !c.eof() {
		b := c.next()
		buf.WriteByte(b)
		switch b {
		case '\\':
			if !c.eof() {
				buf.WriteByte(c.next())
			}
		case '\'':
			if !c.eof() && c.peek() == '\'' {
				buf.WriteByte(c.next())
				continue
			}
			return true
		}
	}
	return false
}

// SplitStatements scans sql for INSERT statements and returns them in
// source order, together with any issues found along the way.
//
// Statement bodies keep string literals byte for byte but collapse runs
// of whitespace outside literals to a single space, so a statement
// wrapped over several physical lines splits identically to the same
// statement written on one line. Line comments (-- to end of line) are
// stripped, but only outside literals. Text between statements that is
// not an INSERT is ignored.
//
// A statement still open at end of input is completed there with a
// warning, unless a string literal is left unterminated, in which case
// the statement is dropped with an error. Empty input yields an empty
// slice, not an error.
func SplitStatements(sql string) ([]types.RawStatement, []*types.Issue) {
	c := newCursor(sql)
	var stmts []types.RawStatement
	var issues []*types.Issue

	for !c.eof() {
		b := c.peek()
		switch {
		case b == '\'':
			// Stray literal outside any recognized statement. Consume it
			// so a semicolon or INSERT keyword inside is not misread.
			var discard strings.Builder
			consumeQuoted(c, &discard)
		case b == '-' && c.hasPrefix("--"):
			c.skipLine()
		case isWordByte(b):
			start := c.pos()
			insertWord := c.readWord()
			if !strings.EqualFold(insertWord, "INSERT") {
				continue
			}
			for !c.eof() && isSpace(c.peek()) {
				c.next()
			}
			intoWord := c.readWord()
			if !strings.EqualFold(intoWord, "INTO") {
				continue
			}
			stmt, issue := collectStatement(c, start, insertWord+" "+intoWord)
			if issue != nil {
				issues = append(issues, issue)
			}
			if stmt != nil {
				stmts = append(stmts, *stmt)
			}
		default:
			c.next()
		}
	}

	return stmts, issues
}

// collectStatement consumes the remainder of a statement whose leading
// keywords have already been read, up to the first semicolon outside a
// string literal.
func collectStatement(c *cursor, start types.Position, head string) (*types.RawStatement, *types.Issue) {
	var buf strings.Builder
	buf.WriteString(head)
	pendingSpace := false

	for !c.eof() {
		b := c.peek()
		switch {
		case b == ';':
			c.next()
			buf.WriteByte(';')
			return &types.RawStatement{Text: buf.String(), Start: start, Terminated: true}, nil
		case b == '\'':
			if pendingSpace {
				buf.WriteByte(' ')
				pendingSpace = false
			}
			quoteStart := c.pos()
			if !consumeQuoted(c, &buf) {
				return nil, &types.Issue{
					Status:        types.Issue_ERROR,
					Code:          types.StatementUnterminatedQuote,
					Title:         "statement.unterminated-quote",
					Content:       fmt.Sprintf("string literal opened at %s is never closed; statement skipped: %q", quoteStart.String(), types.Snippet(buf.String(), 80)),
					StartPosition: &start,
				}
			}
		case b == '-' && c.hasPrefix("--"):
			c.skipLine()
			pendingSpace = true
		case isSpace(b):
			c.next()
			pendingSpace = true
		default:
			if pendingSpace {
				buf.WriteByte(' ')
				pendingSpace = false
			}
			buf.WriteByte(c.next())
		}
	}

	// No terminating semicolon before end of input: complete the
	// statement here and flag it.
	stmt := &types.RawStatement{Text: buf.String() + ";", Start: start, Terminated: false}
	return stmt, &types.Issue{
		Status:        types.Issue_WARNING,
		Code:          types.StatementNotTerminated,
		Title:         "statement.not-terminated",
		Content:       fmt.Sprintf("statement has no terminating semicolon; completed at end of file: %q", types.Snippet(stmt.Text, 80)),
		StartPosition: &start,
	}
}

// SplitTopLevel splits s on sep, ignoring separators inside string
// literals and inside parentheses. Each part is returned with leading
// and trailing whitespace trimmed. An empty input yields one empty part.
func SplitTopLevel(s string, sep byte) []string {
	c := newCursor(s)
	var parts []string
	var buf strings.Builder
	depth := 0

	for !c.eof() {
		b := c.peek()
		switch {
		case b == '\'':
			consumeQuoted(c, &buf)
		case b == '(':
			depth++
			buf.WriteByte(c.next())
		case b == ')':
			depth--
			buf.WriteByte(c.next())
		case b == sep && depth == 0:
			c.next()
			parts = append(parts, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(c.next())
		}
	}

	return append(parts, strings.TrimSpace(buf.String()))
}

// MatchParen returns the index of the parenthesis closing the one at
// open, skipping string literals, or -1 when s[open] is not an opening
// parenthesis or no balancing close exists.
func MatchParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return -1
	}
	c := newCursor(s[open:])
	depth := 0
	var discard strings.Builder
	for !c.eof() {
		switch c.peek() {
		case '\'':
			consumeQuoted(c, &discard)
		case '(':
			c.next()
			depth++
		case ')':
			c.next()
			depth--
			if depth == 0 {
				return open + c.i - 1
			}
		default:
			c.next()
		}
	}
	return -1
}

// Unquote decodes a single-quoted SQL string literal: the surrounding
// quotes are removed and both escape forms ('' and \') collapse to a
// single quote. Inputs that are not quoted are returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return s
	}
	body := s[1 : len(s)-1]
	var buf strings.Builder
	for i := 0; i < len(body); i++ {
		b := body[i]
		switch {
		case b == '\'' && i+1 < len(body) && body[i+1] == '\'':
			buf.WriteByte('\'')
			i++
		case b == '\\' && i+1 < len(body) && (body[i+1] == '\'' || body[i+1] == '\\'):
			buf.WriteByte(body[i+1])
			i++
		default:
			buf.WriteByte(b)
		}
	}
	return buf.String()
}
