package changelog

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/types"
)

func TestIDGenerator(t *testing.T) {
	now := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	g := NewIDGenerator("", now)
	require.Equal(t, "20240131120000-1", g.Next())
	require.Equal(t, "20240131120000-2", g.Next())

	g = NewIDGenerator("seed", now)
	require.Equal(t, "seed-20240131120000-1", g.Next())
	require.Equal(t, "seed-20240131120000-2", g.Next())
}

func TestIDGenerator_Unique(t *testing.T) {
	g := NewIDGenerator("x", time.Now())
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.Next()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewChangeSet(t *testing.T) {
	cs := NewChangeSet(&types.Changeset{
		ID:     "20240131120000-1",
		Author: "tester",
		Insert: &types.ParsedInsert{
			Table:   "users",
			Columns: []string{"id", "name", "note"},
			Rows: [][]types.Value{
				{
					{Kind: types.ValueKind_NUMERIC, Text: "1"},
					{Kind: types.ValueKind_STRING, Text: "alice"},
					{Kind: types.ValueKind_NULL},
				},
				{
					{Kind: types.ValueKind_NUMERIC, Text: "2"},
					{Kind: types.ValueKind_STRING, Text: "bob"},
					{Kind: types.ValueKind_STRING, Text: "vip"},
				},
			},
		},
	})

	require.Equal(t, "20240131120000-1", cs.ID)
	require.Equal(t, "tester", cs.Author)
	require.Len(t, cs.Inserts, 2)

	first := cs.Inserts[0]
	require.Equal(t, "users", first.TableName)
	require.Len(t, first.Columns, 3)
	require.Equal(t, "id", first.Columns[0].Name)
	require.Equal(t, "1", *first.Columns[0].Value)
	require.Equal(t, "alice", *first.Columns[1].Value)
	// NULL keeps the column element but drops the value attribute.
	require.Nil(t, first.Columns[2].Value)

	require.Equal(t, "vip", *cs.Inserts[1].Columns[2].Value)
}

func TestEncode_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDocument().Encode(&buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, xml.Header))
	require.Contains(t, out, `<databaseChangeLog`)
	require.Contains(t, out, Xmlns)
	require.NotContains(t, out, "<changeSet")

	// Still parseable XML.
	var doc struct {
		XMLName xml.Name `xml:"databaseChangeLog"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
}

// decoded mirrors the generated document shape without the namespace
// attributes, for round-trip checks.
type decoded struct {
	XMLName    xml.Name `xml:"databaseChangeLog"`
	ChangeSets []struct {
		ID      string `xml:"id,attr"`
		Author  string `xml:"author,attr"`
		Inserts []struct {
			TableName string `xml:"tableName,attr"`
			Columns   []struct {
				Name  string  `xml:"name,attr"`
				Value *string `xml:"value,attr"`
			} `xml:"column"`
		} `xml:"insert"`
	} `xml:"changeSet"`
}

func TestEncode_EscapesExactlyOnce(t *testing.T) {
	// Every XML metacharacter, plus text that already looks like an
	// entity. Decoding the generated document must recover the original
	// bytes, which fails both on missed escaping and on double escaping.
	hostile := `a & b < c > d "e" 'f' &amp; still raw`
	value := hostile

	doc := NewDocument()
	doc.Append(ChangeSet{
		ID:     "20240131120000-1",
		Author: "tester",
		Inserts: []Insert{
			{
				TableName: "notes",
				Columns: []Column{
					{Name: "body", Value: &value},
					{Name: "deleted_at"},
				},
			},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))

	var got decoded
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.ChangeSets, 1)
	require.Equal(t, "20240131120000-1", got.ChangeSets[0].ID)
	require.Equal(t, "tester", got.ChangeSets[0].Author)

	ins := got.ChangeSets[0].Inserts[0]
	require.Equal(t, "notes", ins.TableName)
	require.Equal(t, hostile, *ins.Columns[0].Value)
	require.Nil(t, ins.Columns[1].Value)
}

func TestEncode_OrderPreserved(t *testing.T) {
	doc := NewDocument()
	doc.Append(ChangeSet{ID: "a-1", Author: "t"})
	doc.Append(ChangeSet{ID: "a-2", Author: "t"})
	doc.Append(ChangeSet{ID: "a-3", Author: "t"})

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))

	var got decoded
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.ChangeSets, 3)
	for i, want := range []string{"a-1", "a-2", "a-3"} {
		require.Equal(t, want, got.ChangeSets[i].ID)
	}
}
