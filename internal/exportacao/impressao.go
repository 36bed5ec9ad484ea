package exportacao

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

var printTemplate = template.Must(template.New("impressao").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Titulo}}</title>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; padding: 20px; }
h1 { color: #333; margin-bottom: 20px; }
h2 { color: #333; margin: 24px 0 8px; }
.campo { margin-bottom: 8px; }
@media print { body { padding: 0; } button { display: none; } }
</style>
</head>
<body>
<h1>{{.Titulo}}</h1>
{{range .Blocos}}<section>
{{with .Titulo}}<h2>{{.}}</h2>
{{end}}{{range .Campos}}<div class="campo"><strong>{{.Label}}:</strong> {{.Valor}}</div>
{{end}}</section>
{{end}}<button onclick="window.print()">Imprimir</button>
</body>
</html>
`))

type printCampo struct {
	Label string
	Valor string
}

type printBloco struct {
	Titulo string
	Campos []printCampo
}

// PrintHTML renders the print view: a heading and one "label: value" line per
// field for each record. Values are HTML-escaped.
func PrintHTML(req Request) string {
	data := struct {
		Titulo string
		Blocos []printBloco
	}{Titulo: req.Title()}
	if req.Detail && len(req.Servidores) == 1 {
		data.Titulo = req.Title() + " - " + req.Servidores[0].Nome
	}
	for _, s := range req.Servidores {
		var bloco printBloco
		if !req.Detail {
			bloco.Titulo = recordHeading(s)
		}
		for _, f := range req.Schema {
			bloco.Campos = append(bloco.Campos, printCampo{Label: f.Label, Valor: f.Value(s)})
		}
		data.Blocos = append(data.Blocos, bloco)
	}
	var b strings.Builder
	// O template é fixo e só recebe strings; Execute não falha aqui.
	_ = printTemplate.Execute(&b, data)
	return b.String()
}

// HTML wraps PrintHTML in a Payload.
func HTML(req Request) (Payload, error) {
	if err := req.validate(); err != nil {
		return Payload{}, err
	}
	return req.payload(FormatHTML, "text/html; charset=utf-8", []byte(PrintHTML(req))), nil
}

// Presenter shows a print view to the user: a browser tab, a file on disk, an
// HTTP response.
type Presenter interface {
	Present(ctx context.Context, p Payload) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, p Payload) error

func (f PresenterFunc) Present(ctx context.Context, p Payload) error {
	return f(ctx, p)
}

// Print renders the print view of req and hands it to p.
func Print(ctx context.Context, p Presenter, req Request) error {
	payload, err := HTML(req)
	if err != nil {
		return err
	}
	return p.Present(ctx, payload)
}

// FilePresenter writes print views into Dir.
type FilePresenter struct {
	Dir string
}

func (fp FilePresenter) Present(ctx context.Context, p Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(fp.Dir, p.Filename)
	if err := os.WriteFile(path, p.Content, 0o644); err != nil {
		return fmt.Errorf("error writing print view (%s): %w", path, err)
	}
	return nil
}
