package exportacao

import (
	"strings"
)

// bom makes spreadsheet programs that default to a Windows code page read
// the file as UTF-8.
const bom = "\ufeff"

// CSV writes a header row with the labels and one row per record. Every cell
// is quoted and embedded quotes are doubled.
func CSV(req Request) (Payload, error) {
	if err := req.validate(); err != nil {
		return Payload{}, err
	}
	var b strings.Builder
	b.WriteString(bom)
	writeCSVRow(&b, req.Schema.Labels())
	for _, s := range req.Servidores {
		b.WriteByte('\n')
		writeCSVRow(&b, req.Schema.Values(s))
	}
	return req.payload(FormatCSV, "text/csv; charset=utf-8", []byte(b.String())), nil
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
}
