package exportacao

import (
	"bytes"
	"encoding/json"
	"fmt"

	"exportador/internal/servidor"
)

// JSON writes each record as an object keyed by field label, in schema order,
// holding the formatted values. Detail exports are a single object, bulk
// exports an array.
func JSON(req Request) (Payload, error) {
	if err := req.validate(); err != nil {
		return Payload{}, err
	}
	var raw bytes.Buffer
	if req.Detail {
		if err := writeObject(&raw, req.Schema, req.Servidores[0]); err != nil {
			return Payload{}, err
		}
	} else {
		raw.WriteByte('[')
		for i, s := range req.Servidores {
			if i > 0 {
				raw.WriteByte(',')
			}
			if err := writeObject(&raw, req.Schema, s); err != nil {
				return Payload{}, err
			}
		}
		raw.WriteByte(']')
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return Payload{}, fmt.Errorf("error indenting json export: %w", err)
	}
	return req.payload(FormatJSON, "application/json", out.Bytes()), nil
}

// writeObject keeps the key order of the schema, which a map would lose.
func writeObject(b *bytes.Buffer, sc servidor.Schema, s servidor.Servidor) error {
	b.WriteByte('{')
	for i, f := range sc {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeString(b, f.Label); err != nil {
			return err
		}
		b.WriteByte(':')
		if err := writeString(b, f.Value(s)); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func writeString(b *bytes.Buffer, s string) error {
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("error encoding json string %q: %w", s, err)
	}
	// Encode termina com uma quebra de linha.
	b.Truncate(b.Len() - 1)
	return nil
}
