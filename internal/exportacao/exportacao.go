// Package exportacao serializes payroll records into the downloadable formats
// offered by the portal. Every encoder is a pure function of a Request: the
// same schema and records always produce the same payload, and no state is
// kept between calls.
package exportacao

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"exportador/internal/servidor"
)

// Format identifies an export format. Its value is also the file extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatTXT  Format = "txt"
	FormatPDF  Format = "pdf"
	FormatODT  Format = "odt"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	// FormatRaw is the open-data dump: every field, unformatted.
	FormatRaw Format = "raw"
)

var (
	// ErrUnknownFormat is returned by Export for unsupported formats.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrDetailRecord is returned when a detail export gets other than one record.
	ErrDetailRecord = errors.New("detail export requires exactly one record")
	// ErrEmptySchema is returned when the request has no fields.
	ErrEmptySchema = errors.New("export schema has no fields")
)

// Request is the input of every encoder.
type Request struct {
	Schema     servidor.Schema
	Servidores []servidor.Servidor
	// Detail selects the single-record layouts (transposed tables, one
	// object) and the <nome>_dados file name.
	Detail bool
	// Competencia is the payroll id used to name bulk exports.
	Competencia string
	// Periodo is the display label of the competência (Janeiro/2024) used in
	// document titles. Titles fall back to Competencia when it is empty.
	Periodo string
}

// Payload is a ready to download export.
type Payload struct {
	Format      Format
	ContentType string
	Filename    string
	Content     []byte
}

func (r Request) validate() error {
	if len(r.Schema) == 0 {
		return ErrEmptySchema
	}
	if r.Detail && len(r.Servidores) != 1 {
		return fmt.Errorf("%w: got %d", ErrDetailRecord, len(r.Servidores))
	}
	return nil
}

// Filename returns the suggested file name for the given format.
func (r Request) Filename(f Format) string {
	ext := string(f)
	var base string
	if r.Detail && len(r.Servidores) > 0 {
		base = sanitizeFilename(r.Servidores[0].Nome) + "_dados"
	} else {
		base = "folha_pagamento"
		if c := strings.TrimSpace(r.Competencia); c != "" {
			c = sanitizeFilename(c)
			if strings.HasPrefix(c, "folha_pagamento_") {
				base = c
			} else {
				base += "_" + c
			}
		}
	}
	if f == FormatRaw {
		ext = "csv"
		base += "_abertos"
	}
	return fmt.Sprintf("%s.%s", base, ext)
}

// Title is the document title shown by PDF, ODT and the print view.
func (r Request) Title() string {
	if r.Detail {
		return "Dados do Servidor"
	}
	display := strings.TrimSpace(r.Periodo)
	if display == "" {
		display = strings.TrimSpace(r.Competencia)
	}
	if display == "" {
		return "Folha de Pagamento"
	}
	return "Folha de Pagamento - " + display
}

func (r Request) payload(f Format, contentType string, content []byte) Payload {
	return Payload{
		Format:      f,
		ContentType: contentType,
		Filename:    r.Filename(f),
		Content:     content,
	}
}

// recordHeading names a record block in multi-record documents.
func recordHeading(s servidor.Servidor) string {
	if strings.TrimSpace(s.Nome) != "" {
		return s.Nome
	}
	return fmt.Sprintf("Servidor %d", s.ID)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "servidor"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)
}

type encoder func(Request) (Payload, error)

var encoders = map[Format]encoder{
	FormatCSV:  CSV,
	FormatXLSX: XLSX,
	FormatTXT:  TXT,
	FormatPDF:  PDF,
	FormatODT:  ODT,
	FormatJSON: JSON,
	FormatHTML: HTML,
	FormatRaw:  RawCSV,
}

// Formats lists the supported formats in menu order.
func Formats() []Format {
	return []Format{FormatCSV, FormatXLSX, FormatTXT, FormatPDF, FormatODT, FormatJSON, FormatHTML, FormatRaw}
}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Export encodes the request in the given format.
func Export(f Format, req Request) (Payload, error) {
	enc, ok := encoders[f]
	if !ok {
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return enc(req)
}
