package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"exportador/internal/api"
	"exportador/internal/exportacao"
	"exportador/internal/folha"
	"exportador/internal/servidor"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := newRootCmd(&cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config) *cobra.Command {
	root := &cobra.Command{
		Use:          "exportador",
		Short:        "Consulta e exporta folhas de pagamento de servidores públicos",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.DataFolder, "dados", cfg.DataFolder, "pasta com os arquivos folha_pagamento_AAAA_MM.json")
	root.PersistentFlags().StringVar(&cfg.OutputFolder, "saida", cfg.OutputFolder, "pasta onde os arquivos exportados são gravados")

	root.AddCommand(
		newCompetenciasCmd(cfg),
		newExportarCmd(cfg),
		newImportarCmd(cfg),
		newServirCmd(cfg),
	)
	return root
}

func newCompetenciasCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "competencias",
		Short: "Lista as competências disponíveis, da mais recente para a mais antiga",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			competencias, err := folha.NewSource(cfg.DataFolder).ListCompetencias(cmd.Context())
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Competência", "Arquivo"})
			for _, c := range competencias {
				table.Append([]string{c.Display, c.ID})
			}
			table.Render()
			return nil
		},
	}
}

type exportarOpts struct {
	formato string
	id      int64
	// comID é verdadeiro quando --id foi informado, mesmo que valha 0.
	comID  bool
	pacote bool
	filtro servidor.Filtro
}

var errFiltroComID = errors.New("--id cannot be combined with --nome, --cargo, --vinculo or --lotacao")

func newExportarCmd(cfg *config) *cobra.Command {
	var opts exportarOpts
	cmd := &cobra.Command{
		Use:   "exportar <competencia>",
		Short: "Exporta a folha de uma competência, ou os dados de um servidor com --id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.comID = cmd.Flags().Changed("id")
			path, err := exportar(cmd.Context(), cfg, args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.formato, "formato", "f", string(exportacao.FormatCSV), fmt.Sprintf("formato de saída %v", exportacao.Formats()))
	cmd.Flags().Int64Var(&opts.id, "id", 0, "exporta apenas o servidor com este id")
	cmd.Flags().BoolVar(&opts.pacote, "pacote", false, "grava um zip com todos os formatos")
	cmd.Flags().StringVar(&opts.filtro.Nome, "nome", "", "filtra pelo nome (ignora acentos e maiúsculas)")
	cmd.Flags().StringVar(&opts.filtro.Cargo, "cargo", "", "filtra pelo cargo")
	cmd.Flags().StringVar(&opts.filtro.Vinculo, "vinculo", "", "filtra pelo vínculo")
	cmd.Flags().StringVar(&opts.filtro.Lotacao, "lotacao", "", "filtra pela lotação")
	return cmd
}

// exportar writes the export into the output folder and returns its path.
func exportar(ctx context.Context, cfg *config, competencia string, opts exportarOpts) (string, error) {
	if opts.comID && !opts.filtro.Vazio() {
		return "", errFiltroComID
	}
	servidores, err := folha.NewSource(cfg.DataFolder).Servidores(ctx, competencia)
	if err != nil {
		return "", err
	}
	req := exportacao.Request{
		Schema:      servidor.BulkSchema(),
		Servidores:  servidores,
		Competencia: competencia,
		Periodo:     folha.Periodo(competencia),
	}
	if !opts.filtro.Vazio() {
		req.Servidores = opts.filtro.Apply(servidores)
	}
	if opts.comID {
		var achado []servidor.Servidor
		for _, s := range servidores {
			if s.ID == opts.id {
				achado = append(achado, s)
				break
			}
		}
		if achado == nil {
			return "", fmt.Errorf("servidor %d not found in %s", opts.id, competencia)
		}
		req.Schema = servidor.DetailSchema()
		req.Servidores = achado
		req.Detail = true
	}
	if err := os.MkdirAll(cfg.OutputFolder, 0o755); err != nil {
		return "", fmt.Errorf("error creating output folder (%s): %w", cfg.OutputFolder, err)
	}

	if opts.pacote {
		var buf bytes.Buffer
		if err := exportacao.Bundle(&buf, req); err != nil {
			return "", err
		}
		name := req.Filename(exportacao.FormatCSV)
		path := filepath.Join(cfg.OutputFolder, name[:len(name)-len(".csv")]+".zip")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return "", fmt.Errorf("error writing bundle (%s): %w", path, err)
		}
		return path, nil
	}

	f, err := exportacao.ParseFormat(opts.formato)
	if err != nil {
		return "", err
	}
	path := filepath.Join(cfg.OutputFolder, req.Filename(f))
	if f == exportacao.FormatHTML {
		return path, exportacao.Print(ctx, exportacao.FilePresenter{Dir: cfg.OutputFolder}, req)
	}
	p, err := exportacao.Export(f, req)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, p.Content, 0o644); err != nil {
		return "", fmt.Errorf("error writing export (%s): %w", path, err)
	}
	return path, nil
}

func newServirCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servir",
		Short: "Serve a API da folha de pagamento",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return servir(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "endereço HTTP")
	return cmd
}

func servir(ctx context.Context, cfg *config) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewMux(folha.NewSource(cfg.DataFolder)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving payroll folder %s on %s", cfg.DataFolder, cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Printf("shutting down server on %s", cfg.Addr)
	return srv.Shutdown(shutdownCtx)
}
