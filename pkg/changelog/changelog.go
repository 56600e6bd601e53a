// Package changelog renders parsed INSERT statements as a Liquibase
// changelog document.
//
// The document model maps one to one onto the Liquibase XML vocabulary
// and is serialized with encoding/xml, which escapes attribute values
// exactly once. A NULL value is rendered as a column element with no
// value attribute, the form Liquibase uses for explicit nulls.
package changelog

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"

	"github.com/DimitrisAlexiou/sql-to-liquibase-converter/pkg/types"
)

// Liquibase namespace declarations carried on the root element.
const (
	Xmlns          = "http://www.liquibase.org/xml/ns/dbchangelog"
	XmlnsXSI       = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation = "http://www.liquibase.org/xml/ns/dbchangelog http://www.liquibase.org/xml/ns/dbchangelog/dbchangelog-4.26.xsd"
)

// Document is the root databaseChangeLog element.
type Document struct {
	XMLName        xml.Name    `xml:"databaseChangeLog"`
	Xmlns          string      `xml:"xmlns,attr"`
	XmlnsXSI       string      `xml:"xmlns:xsi,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	ChangeSets     []ChangeSet `xml:"changeSet"`
}

// ChangeSet is one changeSet element. IDs must be unique within the
// document; the converter guarantees this by minting them from a single
// IDGenerator per run.
type ChangeSet struct {
	ID      string   `xml:"id,attr"`
	Author  string   `xml:"author,attr"`
	Inserts []Insert `xml:"insert"`
}

// Insert is one insert element. A multi-row SQL INSERT produces several
// insert elements inside the same changeset.
type Insert struct {
	TableName string   `xml:"tableName,attr"`
	Columns   []Column `xml:"column"`
}

// Column is one column element. A nil Value omits the value attribute
// entirely, which is how an explicit SQL NULL is expressed.
type Column struct {
	Name  string  `xml:"name,attr"`
	Value *string `xml:"value,attr,omitempty"`
}

// NewDocument returns an empty changelog with the namespace declarations
// set. An empty document is still well formed and encodes to a valid
// changelog with zero changesets.
func NewDocument() *Document {
	return &Document{
		Xmlns:          Xmlns,
		XmlnsXSI:       XmlnsXSI,
		SchemaLocation: SchemaLocation,
	}
}

// Append adds a changeset to the end of the document, preserving source
// order.
func (d *Document) Append(cs ChangeSet) {
	d.ChangeSets = append(d.ChangeSets, cs)
}

// Encode writes the document as indented XML with the standard header.
func (d *Document) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "failed to write XML header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "failed to encode changelog")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to flush changelog encoder")
	}
	_, err := io.WriteString(w, "\n")
	return errors.Wrap(err, "failed to write trailing newline")
}

// NewChangeSet maps one converted statement onto the XML model. Column
// and value sequences are paired positionally; the parser has already
// enforced that their lengths match.
func NewChangeSet(cs *types.Changeset) ChangeSet {
	out := ChangeSet{ID: cs.ID, Author: cs.Author}
	for _, row := range cs.Insert.Rows {
		ins := Insert{TableName: cs.Insert.Table}
		for i, name := range cs.Insert.Columns {
			col := Column{Name: name}
			if row[i].Kind != types.ValueKind_NULL {
				value := row[i].Text
				col.Value = &value
			}
			ins.Columns = append(ins.Columns, col)
		}
		out.Inserts = append(out.Inserts, ins)
	}
	return out
}
