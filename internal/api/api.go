// Package api serves the payroll files and their exports over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"

	"exportador/internal/exportacao"
	"exportador/internal/folha"
	"exportador/internal/servidor"
)

const (
	routeCompetencias     = "GET /api/folha/competencias"
	routeFolha            = "GET /api/folha/{competencia}"
	routeExportarFolha    = "GET /api/folha/{competencia}/exportar"
	routeFiltros          = "GET /api/folha/{competencia}/filtros"
	routeServidor         = "GET /api/folha/{competencia}/servidores/{id}"
	routeExportarServidor = "GET /api/folha/{competencia}/servidores/{id}/exportar"
)

const msgErroFolha = "Erro ao carregar dados da folha de pagamento"

var errServidorNotFound = errors.New("servidor not found")

// Source is the payroll data the handlers read from.
type Source interface {
	ListCompetencias(ctx context.Context) ([]folha.Competencia, error)
	Servidores(ctx context.Context, competencia string) ([]servidor.Servidor, error)
}

// Handler serves the payroll API.
type Handler struct {
	source Source
}

// New returns a Handler reading from source.
func New(source Source) *Handler {
	return &Handler{source: source}
}

// RegisterRoutes wires the payroll routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	if mux == nil || h == nil {
		return
	}
	mux.HandleFunc(routeCompetencias, h.handleCompetencias)
	mux.HandleFunc(routeFolha, h.handleFolha)
	mux.HandleFunc(routeExportarFolha, h.handleExportarFolha)
	mux.HandleFunc(routeFiltros, h.handleFiltros)
	mux.HandleFunc(routeServidor, h.handleServidor)
	mux.HandleFunc(routeExportarServidor, h.handleExportarServidor)
}

// NewMux returns a mux with every payroll route.
func NewMux(source Source) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterRoutes(mux, New(source))
	return mux
}

func (h *Handler) handleCompetencias(w http.ResponseWriter, r *http.Request) {
	competencias, err := h.source.ListCompetencias(r.Context())
	if err != nil {
		log.Printf("error listing competências: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Erro ao listar competências disponíveis"})
		return
	}
	if competencias == nil {
		competencias = []folha.Competencia{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"competencias": competencias})
}

func (h *Handler) handleFolha(w http.ResponseWriter, r *http.Request) {
	servidores, ok := h.filtrados(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, servidores)
}

func (h *Handler) handleExportarFolha(w http.ResponseWriter, r *http.Request) {
	servidores, ok := h.filtrados(w, r)
	if !ok {
		return
	}
	h.exportar(w, r, exportacao.Request{
		Schema:      servidor.BulkSchema(),
		Servidores:  servidores,
		Competencia: r.PathValue("competencia"),
		Periodo:     folha.Periodo(r.PathValue("competencia")),
	})
}

// handleFiltros lists the options of the filter bar of a competência.
func (h *Handler) handleFiltros(w http.ResponseWriter, r *http.Request) {
	servidores, err := h.source.Servidores(r.Context(), r.PathValue("competencia"))
	if err != nil {
		writeError(w, err)
		return
	}
	ativos := 0
	for _, s := range servidores {
		if s.Ativo() {
			ativos++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cargos":   opcoes(servidores, "cargo"),
		"vinculos": opcoes(servidores, "vinculo"),
		"lotacoes": opcoes(servidores, "lotacao"),
		"total":    len(servidores),
		"ativos":   ativos,
	})
}

func opcoes(servidores []servidor.Servidor, key string) []string {
	if v := servidor.Distinct(servidores, key); v != nil {
		return v
	}
	return []string{}
}

// handleServidor returns the on-screen detail of a record, CPF masked.
func (h *Handler) handleServidor(w http.ResponseWriter, r *http.Request) {
	s, ok := h.servidor(w, r)
	if !ok {
		return
	}
	p, err := exportacao.JSON(exportacao.Request{
		Schema:     servidor.ScreenSchema(),
		Servidores: []servidor.Servidor{s},
		Detail:     true,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", p.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.Content)
}

func (h *Handler) handleExportarServidor(w http.ResponseWriter, r *http.Request) {
	s, ok := h.servidor(w, r)
	if !ok {
		return
	}
	h.exportar(w, r, exportacao.Request{
		Schema:      servidor.DetailSchema(),
		Servidores:  []servidor.Servidor{s},
		Detail:      true,
		Competencia: r.PathValue("competencia"),
		Periodo:     folha.Periodo(r.PathValue("competencia")),
	})
}

func (h *Handler) filtrados(w http.ResponseWriter, r *http.Request) ([]servidor.Servidor, bool) {
	servidores, err := h.source.Servidores(r.Context(), r.PathValue("competencia"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	q := r.URL.Query()
	f := servidor.Filtro{
		Nome:    q.Get("nome"),
		Cargo:   q.Get("cargo"),
		Vinculo: q.Get("vinculo"),
		Lotacao: q.Get("lotacao"),
	}
	return f.Apply(servidores), true
}

func (h *Handler) servidor(w http.ResponseWriter, r *http.Request) (servidor.Servidor, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Identificador de servidor inválido"})
		return servidor.Servidor{}, false
	}
	servidores, err := h.source.Servidores(r.Context(), r.PathValue("competencia"))
	if err != nil {
		writeError(w, err)
		return servidor.Servidor{}, false
	}
	for _, s := range servidores {
		if s.ID == id {
			return s, true
		}
	}
	writeError(w, errServidorNotFound)
	return servidor.Servidor{}, false
}

func (h *Handler) exportar(w http.ResponseWriter, r *http.Request, req exportacao.Request) {
	formato := r.URL.Query().Get("formato")
	if formato == "" {
		formato = string(exportacao.FormatCSV)
	}
	f, err := exportacao.ParseFormat(formato)
	if err != nil {
		writeError(w, err)
		return
	}
	if f == exportacao.FormatHTML {
		if err := exportacao.Print(r.Context(), responsePresenter{w}, req); err != nil {
			writeError(w, err)
		}
		return
	}
	p, err := exportacao.Export(f, req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": p.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.Content)
}

// responsePresenter shows the print view inline, in the browser tab that
// requested it.
type responsePresenter struct {
	w http.ResponseWriter
}

func (rp responsePresenter) Present(_ context.Context, p exportacao.Payload) error {
	rp.w.Header().Set("Content-Type", p.ContentType)
	rp.w.WriteHeader(http.StatusOK)
	_, err := rp.w.Write(p.Content)
	return err
}

func writeError(w http.ResponseWriter, err error) {
	var decErr *folha.DecodeError
	switch {
	case errors.Is(err, folha.ErrCompetenciaNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Competência não encontrada"})
	case errors.Is(err, errServidorNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Servidor não encontrado"})
	case errors.Is(err, folha.ErrInvalidCompetencia):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Competência inválida"})
	case errors.Is(err, exportacao.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Formato de exportação não suportado"})
	case errors.As(err, &decErr):
		log.Printf("error decoding payroll file: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msgErroFolha})
	default:
		log.Printf("error serving payroll: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msgErroFolha})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error writing json response: %v", err)
	}
}
