package folha

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"exportador/internal/servidor"
)

// arquivo is the layout of a folha_pagamento_YYYY_MM.json file.
type arquivo struct {
	Servidores []registro `json:"servidores"`
}

// registro is a record as published, with snake_case keys. Numeric fields
// absent from the file stay zero.
type registro struct {
	ID                  int64              `json:"id"`
	CPF                 string             `json:"cpf"`
	Matricula           servidor.Matricula `json:"matricula"`
	Nome                string             `json:"nome"`
	Vinculo             string             `json:"vinculo"`
	Cargo               string             `json:"cargo"`
	Funcao              *string            `json:"funcao"`
	Lotacao             string             `json:"lotacao"`
	FormaContratacao    string             `json:"forma_contratacao"`
	CargaHoraria        int                `json:"carga_horaria_semanal"`
	DataAdmissao        string             `json:"data_admissao"`
	DataExoneracao      *string            `json:"data_exoneracao"`
	ValorBruto          float64            `json:"valor_bruto"`
	ProventosAdicionais float64            `json:"proventos_adicionais"`
	Descontos           float64            `json:"descontos"`
	ValorLiquido        float64            `json:"valor_liquido"`
	CompetenciaMensal   string             `json:"competencia_mensal"`
	MesReferencia       int                `json:"mes_referencia"`
	AnoReferencia       int                `json:"ano_referencia"`
}

func (r registro) toServidor() servidor.Servidor {
	return servidor.Servidor{
		ID:                  r.ID,
		CPF:                 r.CPF,
		Matricula:           r.Matricula,
		Nome:                r.Nome,
		Vinculo:             r.Vinculo,
		Cargo:               r.Cargo,
		Funcao:              r.Funcao,
		Lotacao:             r.Lotacao,
		FormaContratacao:    r.FormaContratacao,
		CargaHoraria:        r.CargaHoraria,
		DataAdmissao:        r.DataAdmissao,
		DataExoneracao:      r.DataExoneracao,
		ValorBruto:          r.ValorBruto,
		ProventosAdicionais: r.ProventosAdicionais,
		Descontos:           r.Descontos,
		ValorLiquido:        r.ValorLiquido,
		CompetenciaMensal:   r.CompetenciaMensal,
		MesReferencia:       r.MesReferencia,
		AnoReferencia:       r.AnoReferencia,
	}
}

func fromServidor(s servidor.Servidor) registro {
	return registro{
		ID:                  s.ID,
		CPF:                 s.CPF,
		Matricula:           s.Matricula,
		Nome:                s.Nome,
		Vinculo:             s.Vinculo,
		Cargo:               s.Cargo,
		Funcao:              s.Funcao,
		Lotacao:             s.Lotacao,
		FormaContratacao:    s.FormaContratacao,
		CargaHoraria:        s.CargaHoraria,
		DataAdmissao:        s.DataAdmissao,
		DataExoneracao:      s.DataExoneracao,
		ValorBruto:          s.ValorBruto,
		ProventosAdicionais: s.ProventosAdicionais,
		Descontos:           s.Descontos,
		ValorLiquido:        s.ValorLiquido,
		CompetenciaMensal:   s.CompetenciaMensal,
		MesReferencia:       s.MesReferencia,
		AnoReferencia:       s.AnoReferencia,
	}
}

// WriteCompetencia writes the records of a month into dir using the published
// file layout and returns the path of the created file.
func WriteCompetencia(dir string, ano, mes int, servidores []servidor.Servidor) (string, error) {
	id := CompetenciaID(ano, mes)
	if _, err := ParseCompetencia(id); err != nil {
		return "", err
	}
	doc := arquivo{Servidores: make([]registro, len(servidores))}
	for i, s := range servidores {
		doc.Servidores[i] = fromServidor(s)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding payroll file (%s): %w", id, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating payroll folder (%s): %w", dir, err)
	}
	path := filepath.Join(dir, id+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("error writing payroll file (%s): %w", path, err)
	}
	return path, nil
}
