package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/clinicamia/compliance-api/internal/platform/report"
)

// XMLOptions selects the target schema for an XML export.
type XMLOptions struct {
	// Root is the document element name, e.g. "DeclaracionAutoevaluacion".
	Root string
	// Namespace is the target default namespace URI.
	Namespace string
	// Version is emitted as the document element's version attribute.
	Version string
}

// XML renders the report as a namespaced, pretty-printed UTF-8 document.
// Every declared column is emitted for every row, as an empty element when
// the value is unset: the receiving validators treat a missing element and an
// empty one differently, and only the latter passes.
func XML(r *report.Report, opts XMLOptions) ([]byte, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("xml render: missing root element name")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: opts.Root},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: opts.Namespace},
			{Name: xml.Name{Local: "version"}, Value: opts.Version},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("xml render: %w", err)
	}

	if err := encodeHeader(enc, r.Header); err != nil {
		return nil, fmt.Errorf("xml render: %w", err)
	}

	for _, sec := range r.Sections {
		if err := encodeSection(enc, sec); err != nil {
			return nil, fmt.Errorf("xml render section %s: %w", sec.ID, err)
		}
	}

	if r.Attestation != "" {
		if err := encodeLeaf(enc, "Declaracion", r.Attestation); err != nil {
			return nil, fmt.Errorf("xml render: %w", err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("xml render: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("xml render: %w", err)
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeHeader(enc *xml.Encoder, h report.Header) error {
	start := xml.StartElement{Name: xml.Name{Local: "Prestador"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	fields := []struct {
		name  string
		value string
	}{
		{"CodigoHabilitacion", h.FacilityCode},
		{"RazonSocial", h.FacilityName},
		{"NIT", h.NIT},
		{"Direccion", h.Address},
		{"Municipio", h.Municipality},
		{"Departamento", h.Department},
		{"RepresentanteLegal", h.LegalRep},
		{"FechaGeneracion", h.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Esquema", h.SchemaID},
	}
	for _, f := range fields {
		if err := encodeLeaf(enc, f.name, f.value); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

func encodeSection(enc *xml.Encoder, sec report.Section) error {
	start := xml.StartElement{Name: xml.Name{Local: sec.ID}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	item := sec.ItemName
	if item == "" {
		item = "Registro"
	}

	for _, row := range sec.Rows {
		rowStart := xml.StartElement{Name: xml.Name{Local: item}}
		if err := enc.EncodeToken(rowStart); err != nil {
			return err
		}
		for _, col := range sec.Columns {
			if err := encodeLeaf(enc, col.Key, col.Format(row.Values[col.Key])); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(rowStart.End()); err != nil {
			return err
		}
	}

	if len(sec.Summary) > 0 {
		sumStart := xml.StartElement{Name: xml.Name{Local: "Resumen"}}
		if err := enc.EncodeToken(sumStart); err != nil {
			return err
		}
		for _, kv := range sec.Summary {
			if err := encodeLeaf(enc, kv.Key, kv.Value); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(sumStart.End()); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

func encodeLeaf(enc *xml.Encoder, name, value string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if value != "" {
		if err := enc.EncodeToken(xml.CharData(value)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
