// Package folha reads the monthly payroll files ("competências") published as
// static JSON documents.
package folha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"exportador/internal/servidor"
)

var (
	// ErrCompetenciaNotFound is returned when no file exists for a competência.
	ErrCompetenciaNotFound = errors.New("competência not found")
	// ErrInvalidCompetencia is returned for ids outside folha_pagamento_YYYY_MM.
	ErrInvalidCompetencia = errors.New("invalid competência id")
)

// DecodeError reports a payroll file that could not be decoded.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding payroll file (%s): %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var competenciaRE = regexp.MustCompile(`^folha_pagamento_(\d{4})_(\d{2})$`)

var meses = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Competencia identifies a monthly payroll file.
type Competencia struct {
	ID      string `json:"valor"`
	Display string `json:"display"`
	Ano     int    `json:"-"`
	Mes     int    `json:"-"`
}

// ParseCompetencia validates an id like folha_pagamento_2024_01.
func ParseCompetencia(id string) (Competencia, error) {
	m := competenciaRE.FindStringSubmatch(id)
	if m == nil {
		return Competencia{}, fmt.Errorf("%w: %q", ErrInvalidCompetencia, id)
	}
	ano, _ := strconv.Atoi(m[1])
	mes, _ := strconv.Atoi(m[2])
	if mes < 1 || mes > 12 {
		return Competencia{}, fmt.Errorf("%w: %q (month %d)", ErrInvalidCompetencia, id, mes)
	}
	return Competencia{
		ID:      id,
		Ano:     ano,
		Mes:     mes,
		Display: fmt.Sprintf("%s/%d", meses[mes-1], ano),
	}, nil
}

// Periodo returns the display label of a competência id, or "" when the id
// is not valid.
func Periodo(id string) string {
	c, err := ParseCompetencia(id)
	if err != nil {
		return ""
	}
	return c.Display
}

// CompetenciaID builds the id of the payroll of the given month.
func CompetenciaID(ano, mes int) string {
	return fmt.Sprintf("folha_pagamento_%04d_%02d", ano, mes)
}

// Source reads payroll files from a directory.
type Source struct {
	Dir string
}

// NewSource returns a Source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{Dir: dir}
}

// ListCompetencias returns the available competências, most recent first.
// Files not named folha_pagamento_YYYY_MM.json are ignored.
func (s *Source) ListCompetencias(ctx context.Context) ([]Competencia, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("error listing payroll folder (%s): %w", s.Dir, err)
	}
	var competencias []Competencia
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		c, err := ParseCompetencia(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		competencias = append(competencias, c)
	}
	sort.Slice(competencias, func(i, j int) bool {
		if competencias[i].Ano != competencias[j].Ano {
			return competencias[i].Ano > competencias[j].Ano
		}
		return competencias[i].Mes > competencias[j].Mes
	})
	return competencias, nil
}

// Servidores reads every record of a competência.
func (s *Source) Servidores(ctx context.Context, id string) ([]servidor.Servidor, error) {
	if _, err := ParseCompetencia(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, id+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCompetenciaNotFound, id)
		}
		return nil, fmt.Errorf("error reading payroll file (%s): %w", path, err)
	}
	return Decode(path, b)
}

// Decode parses the contents of a payroll file. name is only used in errors.
func Decode(name string, b []byte) ([]servidor.Servidor, error) {
	var doc arquivo
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, &DecodeError{File: name, Err: err}
	}
	if doc.Servidores == nil {
		return nil, &DecodeError{File: name, Err: errors.New(`missing "servidores" list`)}
	}
	out := make([]servidor.Servidor, len(doc.Servidores))
	for i, r := range doc.Servidores {
		out[i] = r.toServidor()
	}
	return out, nil
}
