// Package servidor holds the payroll record of a public employee, the value
// formatters used to display it and the field schemas that drive every export.
package servidor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Servidor is one employee payroll record of a competência.
//
// ValorLiquido is expected to be ValorBruto + ProventosAdicionais - Descontos,
// but it is displayed as published and never recomputed.
type Servidor struct {
	ID                  int64     `json:"id"`
	CPF                 string    `json:"cpf"`
	Matricula           Matricula `json:"matricula"`
	Nome                string    `json:"nome"`
	Vinculo             string    `json:"vinculo"`
	Cargo               string    `json:"cargo"`
	Funcao              *string   `json:"funcao,omitempty"`
	Lotacao             string    `json:"lotacao"`
	FormaContratacao    string    `json:"formaContratacao"`
	CargaHoraria        int       `json:"cargaHoraria"`
	DataAdmissao        string    `json:"dataAdmissao"`
	DataExoneracao      *string   `json:"dataExoneracao"`
	ValorBruto          float64   `json:"valorBruto"`
	ProventosAdicionais float64   `json:"proventosAdicionais"`
	Descontos           float64   `json:"descontos"`
	ValorLiquido        float64   `json:"valorLiquido"`
	CompetenciaMensal   string    `json:"competenciaMensal"`
	MesReferencia       int       `json:"mesReferencia"`
	AnoReferencia       int       `json:"anoReferencia"`
}

// Ativo reports whether the employee has no termination date.
func (s Servidor) Ativo() bool {
	return s.DataExoneracao == nil || *s.DataExoneracao == ""
}

// Matricula is the registration number. Some agencies publish it as a number,
// others as a string with leading zeros, so both JSON forms are accepted.
type Matricula string

// UnmarshalJSON accepts a number, a string or null (empty registration).
func (m *Matricula) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("error decoding matricula %s: %w", b, err)
		}
		*m = Matricula(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("error decoding matricula %s: %w", b, err)
	}
	*m = Matricula(n.String())
	return nil
}

// MarshalJSON writes numeric registrations back as numbers.
func (m Matricula) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(m), 10, 64); err == nil && (len(m) == 1 || m[0] != '0') {
		return []byte(m), nil
	}
	return json.Marshal(string(m))
}

func (m Matricula) String() string {
	return string(m)
}
