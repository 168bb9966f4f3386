package aurorawatch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Decode parses body as the given schema. The XML declaration and DOCTYPE
// are skipped; every field of the schema must be present and non-empty.
func Decode(body []byte, schema Schema) (Document, error) {
	doc, err := newDocument(schema)
	if err != nil {
		return nil, &DecodeError{Schema: schema, Err: err}
	}

	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(doc); err != nil {
		return nil, &DecodeError{Schema: schema, Err: fmt.Errorf("unmarshal xml: %w", err)}
	}

	normalize(doc)

	if err := validate.Struct(doc); err != nil {
		return nil, &DecodeError{Schema: schema, Err: fmt.Errorf("validate: %w", err)}
	}
	return doc, nil
}

// Encode marshals doc back to XML, with an XML declaration.
func Encode(doc Document) ([]byte, error) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", doc.Schema(), err)
	}
	return append([]byte(xml.Header), out...), nil
}

func newDocument(schema Schema) (Document, error) {
	switch schema {
	case SchemaCurrent:
		return &CurrentStatus{}, nil
	case SchemaLegacy:
		return &AuroraWatch{}, nil
	case SchemaDescriptions:
		return &StatusList{}, nil
	default:
		return nil, fmt.Errorf("unknown schema %d", int(schema))
	}
}

// normalize trims the whitespace around text content so indented documents
// decode the same as compact ones.
func normalize(doc Document) {
	switch d := doc.(type) {
	case *AuroraWatch:
		d.Current.State.Description = strings.TrimSpace(d.Current.State.Description)
		d.Previous.State.Description = strings.TrimSpace(d.Previous.State.Description)
		d.Station = strings.TrimSpace(d.Station)
		d.Updated = strings.TrimSpace(d.Updated)
	case *CurrentStatus:
		d.Updated.Datetime = strings.TrimSpace(d.Updated.Datetime)
	case *StatusList:
		for i := range d.Statuses {
			s := &d.Statuses[i]
			s.Color = strings.TrimSpace(s.Color)
			s.Description.Text = strings.TrimSpace(s.Description.Text)
			s.Meaning.Text = strings.TrimSpace(s.Meaning.Text)
		}
	}
}
