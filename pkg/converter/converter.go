// Package converter provides a high-level API for turning SQL INSERT
// scripts into Liquibase changelog documents.
//
// # Quick Start
//
//	c := converter.New()
//	result, err := c.Convert(context.Background(), sqlText)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = result.Document.Encode(os.Stdout)
//
// # With Options
//
//	c := converter.New(
//	    converter.WithAuthor("migrations-team"),
//	    converter.WithIDPrefix("seed"),
//	)
//	result, err := c.ConvertFile(ctx, "inserts.sql", "liquibase_inserts.xml")
package converter

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/changelog"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/config"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/insertparser"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/scanner"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/types"
)

// Converter turns SQL INSERT scripts into Liquibase changelogs.
//
// The clock is captured once per Convert call, so all changeset IDs in
// one run share the same timestamp stem.
type Converter struct {
	author   string
	idPrefix string
	strict   bool
	now      func() time.Time
}

// Option is a functional option for customizing conversion behavior.
type Option func(*Converter)

// WithAuthor sets the author attribute stamped on every changeset.
func WithAuthor(author string) Option {
	return func(c *Converter) {
		if author != "" {
			c.author = author
		}
	}
}

// WithIDPrefix prepends a fixed prefix to every changeset identifier.
func WithIDPrefix(prefix string) Option {
	return func(c *Converter) {
		c.idPrefix = prefix
	}
}

// WithStrict makes the first malformed statement abort the run instead
// of being skipped with a warning.
func WithStrict(strict bool) Option {
	return func(c *Converter) {
		c.strict = strict
	}
}

// WithClock overrides the time source used for changeset IDs. Tests use
// this to get deterministic output for a fixed input.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// WithConfig applies a loaded configuration file. Options given after
// WithConfig override its values.
func WithConfig(cfg *config.Config) Option {
	return func(c *Converter) {
		if cfg == nil {
			return
		}
		if cfg.Author != "" {
			c.author = cfg.Author
		}
		c.idPrefix = cfg.IDPrefix
		c.strict = cfg.Strict
	}
}

// New creates a Converter. With no options it uses the default author
// tag, no ID prefix, skip-and-warn error handling, and the wall clock.
func New(opts ...Option) *Converter {
	c := &Converter{
		author: config.DefaultAuthor,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs the full pipeline on sql: extract statements, parse each
// one, and collect the changesets into a document in source order.
//
// Malformed statements are skipped and reported as issues unless strict
// mode is on, in which case the first one aborts the run. An input with
// zero statements yields a valid empty document, not an error.
func (c *Converter) Convert(ctx context.Context, sql string) (*Result, error) {
	stmts, issues := scanner.SplitStatements(sql)
	slog.Debug("Extracted statements", "count", len(stmts), "issues", len(issues))

	if c.strict {
		for _, issue := range issues {
			if issue.Status == types.Issue_ERROR {
				return nil, errors.Errorf("strict mode: %s", issue.Content)
			}
		}
	}

	gen := changelog.NewIDGenerator(c.idPrefix, c.now())
	doc := changelog.NewDocument()
	result := &Result{Document: doc, Issues: issues}
	result.Summary.Statements = len(stmts)

	for _, stmt := range stmts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		parsed, err := insertparser.Parse(stmt)
		if err != nil {
			if c.strict {
				return nil, errors.Wrap(err, "strict mode: statement rejected")
			}
			result.Issues = append(result.Issues, skipIssue(stmt, err))
			result.Summary.Skipped++
			continue
		}

		cs := changelog.NewChangeSet(&types.Changeset{
			ID:     gen.Next(),
			Author: c.author,
			Insert: parsed,
		})
		doc.Append(cs)
	}

	result.Summary.Changesets = len(doc.ChangeSets)
	for _, issue := range result.Issues {
		switch issue.Status {
		case types.Issue_ERROR:
			result.Summary.Errors++
		case types.Issue_WARNING:
			result.Summary.Warnings++
		}
	}
	return result, nil
}

// ConvertFile reads inputPath, converts it, and writes the changelog to
// outputPath. The returned Result describes what was converted even
// though the document has already been written.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read SQL file: %s", inputPath)
	}
	slog.Debug("SQL file read", "file", inputPath, "size", len(data))

	result, err := c.Convert(ctx, string(data))
	if err != nil {
		return nil, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create output file: %s", outputPath)
	}
	defer out.Close()

	if err := result.Document.Encode(out); err != nil {
		return nil, errors.Wrapf(err, "failed to write changelog: %s", outputPath)
	}
	if err := out.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to close output file: %s", outputPath)
	}
	return result, nil
}

// skipIssue wraps a parse failure as a per-statement issue with the
// offending text for manual fixing.
func skipIssue(stmt types.RawStatement, err error) *types.Issue {
	issue := &types.Issue{
		Status:        types.Issue_ERROR,
		Code:          types.StatementMalformed,
		Title:         "statement.skipped",
		Content:       errors.Wrapf(err, "statement skipped: %q", types.Snippet(stmt.Text, 80)).Error(),
		StartPosition: &stmt.Start,
	}
	var parseErr *insertparser.ParseError
	if errors.As(err, &parseErr) {
		issue.Code = parseErr.Code
	}
	return issue
}
