package converter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/config"
	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/types"
)

func fixedClock() time.Time {
	return time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.author != config.DefaultAuthor {
		t.Errorf("Expected default author %q, got %q", config.DefaultAuthor, c.author)
	}
	if c.strict {
		t.Error("Expected strict off by default")
	}
}

func TestConvert_Basic(t *testing.T) {
	c := New(WithAuthor("tester"), WithClock(fixedClock))

	result, err := c.Convert(context.Background(), `INSERT INTO users (id, name) VALUES (1, 'alice');`)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	if result.Summary.Statements != 1 || result.Summary.Changesets != 1 {
		t.Fatalf("Expected 1 statement and 1 changeset, got %+v", result.Summary)
	}
	if !result.IsClean() {
		t.Errorf("Expected clean result, got issues: %v", result.Issues)
	}

	cs := result.Document.ChangeSets[0]
	if cs.ID != "20240131120000-1" {
		t.Errorf("Expected deterministic ID, got %q", cs.ID)
	}
	if cs.Author != "tester" {
		t.Errorf("Expected author tester, got %q", cs.Author)
	}
	if cs.Inserts[0].TableName != "users" {
		t.Errorf("Expected table users, got %q", cs.Inserts[0].TableName)
	}
}

func TestConvert_EmptyInput(t *testing.T) {
	c := New(WithClock(fixedClock))

	result, err := c.Convert(context.Background(), "")
	if err != nil {
		t.Fatalf("Convert() failed on empty input: %v", err)
	}
	if result.Summary.Statements != 0 || result.Summary.Changesets != 0 {
		t.Fatalf("Expected empty summary, got %+v", result.Summary)
	}

	// The empty document must still encode to well-formed XML.
	var buf bytes.Buffer
	if err := result.Document.Encode(&buf); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "databaseChangeLog") {
		t.Error("Expected root element in empty document")
	}
}

func TestConvert_UniqueIDsInSourceOrder(t *testing.T) {
	c := New(WithIDPrefix("seed"), WithClock(fixedClock))

	sql := `
INSERT INTO a (x) VALUES (1);
INSERT INTO b (x) VALUES (2);
INSERT INTO c (x) VALUES (3);
`
	result, err := c.Convert(context.Background(), sql)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if result.Summary.Changesets != 3 {
		t.Fatalf("Expected 3 changesets, got %d", result.Summary.Changesets)
	}

	seen := make(map[string]bool)
	for i, cs := range result.Document.ChangeSets {
		if seen[cs.ID] {
			t.Errorf("Duplicate changeset ID %q", cs.ID)
		}
		seen[cs.ID] = true

		wantTable := []string{"a", "b", "c"}[i]
		if cs.Inserts[0].TableName != wantTable {
			t.Errorf("Changeset %d: expected table %q, got %q", i, wantTable, cs.Inserts[0].TableName)
		}
	}
	if result.Document.ChangeSets[0].ID != "seed-20240131120000-1" {
		t.Errorf("Unexpected first ID %q", result.Document.ChangeSets[0].ID)
	}
}

func TestConvert_SkipAndWarn(t *testing.T) {
	c := New(WithClock(fixedClock))

	sql := `
INSERT INTO good (x) VALUES (1);
INSERT INTO bad VALUES (2);
INSERT INTO alsogood (x) VALUES (3);
`
	result, err := c.Convert(context.Background(), sql)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	if result.Summary.Changesets != 2 {
		t.Errorf("Expected 2 changesets, got %d", result.Summary.Changesets)
	}
	if result.Summary.Skipped != 1 {
		t.Errorf("Expected 1 skipped statement, got %d", result.Summary.Skipped)
	}
	if !result.HasErrors() {
		t.Error("Expected an error-level issue for the skipped statement")
	}

	issues := result.FilterByStatus(types.Issue_ERROR)
	if len(issues) != 1 {
		t.Fatalf("Expected 1 error issue, got %d", len(issues))
	}
	if issues[0].Code != types.StatementMissingColumnList {
		t.Errorf("Expected missing-column-list code, got %d", issues[0].Code)
	}
	if issues[0].StartPosition == nil || issues[0].StartPosition.Line != 3 {
		t.Errorf("Expected issue at line 3, got %v", issues[0].StartPosition)
	}

	// The good statements still convert, in source order.
	if result.Document.ChangeSets[0].Inserts[0].TableName != "good" {
		t.Errorf("Unexpected first table %q", result.Document.ChangeSets[0].Inserts[0].TableName)
	}
	if result.Document.ChangeSets[1].Inserts[0].TableName != "alsogood" {
		t.Errorf("Unexpected second table %q", result.Document.ChangeSets[1].Inserts[0].TableName)
	}
}

func TestConvert_Strict(t *testing.T) {
	c := New(WithStrict(true), WithClock(fixedClock))

	_, err := c.Convert(context.Background(), `INSERT INTO bad VALUES (1);`)
	if err == nil {
		t.Fatal("Expected strict mode to reject the malformed statement")
	}
}

func TestConvert_MultiRowStaysOneChangeset(t *testing.T) {
	c := New(WithClock(fixedClock))

	result, err := c.Convert(context.Background(), `INSERT INTO t (a) VALUES (1), (2), (3);`)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if result.Summary.Changesets != 1 {
		t.Fatalf("Expected 1 changeset, got %d", result.Summary.Changesets)
	}
	if got := len(result.Document.ChangeSets[0].Inserts); got != 3 {
		t.Errorf("Expected 3 insert elements, got %d", got)
	}
}

func TestConvert_Cancelled(t *testing.T) {
	c := New(WithClock(fixedClock))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, `INSERT INTO t (a) VALUES (1);`)
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "inserts.sql")
	output := filepath.Join(dir, "liquibase_inserts.xml")

	sql := `INSERT INTO myschema.orders (id, note) VALUES (1, 'a & b'), (2, NULL);`
	if err := os.WriteFile(input, []byte(sql), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(WithAuthor("tester"), WithClock(fixedClock))
	result, err := c.ConvertFile(context.Background(), input, output)
	if err != nil {
		t.Fatalf("ConvertFile() failed: %v", err)
	}
	if result.Summary.Changesets != 1 {
		t.Fatalf("Expected 1 changeset, got %d", result.Summary.Changesets)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Output file not written: %v", err)
	}
	out := string(data)

	// Schema prefix stripped, escaping applied exactly once, and the
	// NULL column keeps its element but drops the value attribute.
	for _, want := range []string{
		`tableName="orders"`,
		`value="a &amp; b"`,
		`<column name="note"></column>`,
		`author="tester"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "myschema") {
		t.Error("Schema prefix leaked into output")
	}
}

func TestConvertFile_MissingInput(t *testing.T) {
	c := New()
	_, err := c.ConvertFile(context.Background(), filepath.Join(t.TempDir(), "nope.sql"), filepath.Join(t.TempDir(), "out.xml"))
	if err == nil {
		t.Fatal("Expected error for missing input file")
	}
}

func TestConvertFile_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "inserts.sql")
	if err := os.WriteFile(input, []byte(`INSERT INTO t (a) VALUES (1);`), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	_, err := c.ConvertFile(context.Background(), input, filepath.Join(dir, "no", "such", "dir", "out.xml"))
	if err == nil {
		t.Fatal("Expected error for unwritable output path")
	}
}
