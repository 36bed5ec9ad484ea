package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dadosjusbr/datapackage"
	"github.com/dadosjusbr/proto/coleta"
	"github.com/dadosjusbr/proto/pipeline"
	"github.com/dadosjusbr/status"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/prototext"

	"exportador/internal/exportacao"
	"exportador/internal/folha"
	"exportador/internal/servidor"
)

func newImportarCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "importar",
		Short: "Importa um resultado de coleta do dadosjusbr (prototext na entrada padrão)",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := importar(cfg, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				status.ExitFromError(err)
			}
		},
	}
}

// importar reads a pipeline execution result, packages the crawl as a
// datapackage, writes the competência file with its exports and prints the
// execution result with the packaging step filled in.
func importar(cfg *config, in io.Reader, out io.Writer) error {
	var er pipeline.ResultadoExecucao
	er.Rc = new(coleta.ResultadoColeta)

	erIN, err := io.ReadAll(in)
	if err != nil {
		return status.NewError(4, fmt.Errorf("error reading crawling result: %q", err))
	}
	if err = prototext.Unmarshal(erIN, er.Rc); err != nil {
		return status.NewError(5, fmt.Errorf("error unmarshaling crawling result from STDIN: %q", err))
	}
	if err := os.MkdirAll(cfg.OutputFolder, 0o755); err != nil {
		return status.NewError(status.SystemError, fmt.Errorf("error creating output folder (%s): %q", cfg.OutputFolder, err))
	}

	csvRc, err := datapackage.NewResultadoColetaCSV_V2(er.Rc)
	if err != nil {
		return status.NewError(status.SystemError, fmt.Errorf("error creating CSV from crawling result: %q", err))
	}
	zipName := filepath.Join(cfg.OutputFolder, fmt.Sprintf("%s-%d-%d.zip", er.Rc.GetColeta().GetOrgao(), er.Rc.GetColeta().GetAno(), er.Rc.GetColeta().GetMes()))
	if err := datapackage.ZipV2(zipName, csvRc, true); err != nil {
		return status.NewError(status.SystemError, fmt.Errorf("error zipping datapackage (%s):%q", zipName, err))
	}

	pr, err := empacotar(cfg, er.Rc)
	if err != nil {
		return status.NewError(status.SystemError, err)
	}
	pr.Pacote = zipName
	er.Pr = pr

	b, err := prototext.Marshal(&er)
	if err != nil {
		return status.NewError(status.Unknown, fmt.Errorf("error marshalling packaging result (%s):%q", zipName, err))
	}
	fmt.Fprintf(out, "%s", b)
	return nil
}

// empacotar converts the crawl into a competência file and writes, into the
// output folder, the categorized remunerations and a bundle with every export
// format of the new payroll.
func empacotar(cfg *config, rc *coleta.ResultadoColeta) (*pipeline.ResultadoEmpacotamento, error) {
	imp, err := folha.FromColeta(rc)
	if err != nil {
		return nil, fmt.Errorf("error converting crawling result: %w", err)
	}
	if _, err := folha.WriteCompetencia(cfg.DataFolder, imp.Ano, imp.Mes, imp.Servidores); err != nil {
		return nil, err
	}

	remuneracoes, err := exportacao.MarshalCSV(&imp.Remuneracoes)
	if err != nil {
		return nil, fmt.Errorf("error dumping remunerations: %w", err)
	}
	remuneracoesZip := filepath.Join(cfg.OutputFolder, fmt.Sprintf("remuneracoes-%s-%d-%d.zip", imp.Orgao, imp.Ano, imp.Mes))
	var buf bytes.Buffer
	if err := exportacao.Zip(&buf, exportacao.Payload{Filename: "remuneracoes.csv", Content: remuneracoes}); err != nil {
		return nil, fmt.Errorf("error zipping remunerations file: %w", err)
	}
	if err := os.WriteFile(remuneracoesZip, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("error writing remunerations zip (%s): %w", remuneracoesZip, err)
	}

	id := folha.CompetenciaID(imp.Ano, imp.Mes)
	buf.Reset()
	err = exportacao.Bundle(&buf, exportacao.Request{
		Schema:      servidor.BulkSchema(),
		Servidores:  imp.Servidores,
		Competencia: id,
		Periodo:     folha.Periodo(id),
	})
	if err != nil {
		return nil, fmt.Errorf("error exporting %s: %w", id, err)
	}
	exportsZip := filepath.Join(cfg.OutputFolder, id+".zip")
	if err := os.WriteFile(exportsZip, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("error writing exports zip (%s): %w", exportsZip, err)
	}

	return &pipeline.ResultadoEmpacotamento{
		Remuneracoes: &pipeline.RemuneracoesZip{
			ZipUrl:       remuneracoesZip,
			NumDescontos: imp.Categorias.Descontos,
			NumBase:      imp.Categorias.Base,
			NumOutras:    imp.Categorias.Outras,
		},
	}, nil
}
