package exportacao

import "strings"

// TXT writes "label: value" lines, with a blank line between records.
func TXT(req Request) (Payload, error) {
	if err := req.validate(); err != nil {
		return Payload{}, err
	}
	blocos := make([]string, len(req.Servidores))
	for i, s := range req.Servidores {
		linhas := make([]string, len(req.Schema))
		for j, f := range req.Schema {
			linhas[j] = f.Label + ": " + f.Value(s)
		}
		blocos[i] = strings.Join(linhas, "\n")
	}
	return req.payload(FormatTXT, "text/plain; charset=utf-8", []byte(strings.Join(blocos, "\n\n"))), nil
}
