package exportacao

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"

	"exportador/internal/servidor"
)

// linhaBruta is a record in the open-data layout: the published snake_case
// names and unformatted values.
type linhaBruta struct {
	ID                  int64   `csv:"id"`
	CPF                 string  `csv:"cpf"`
	Matricula           string  `csv:"matricula"`
	Nome                string  `csv:"nome"`
	Vinculo             string  `csv:"vinculo"`
	Cargo               string  `csv:"cargo"`
	Funcao              string  `csv:"funcao"`
	Lotacao             string  `csv:"lotacao"`
	FormaContratacao    string  `csv:"forma_contratacao"`
	CargaHoraria        int     `csv:"carga_horaria_semanal"`
	DataAdmissao        string  `csv:"data_admissao"`
	DataExoneracao      string  `csv:"data_exoneracao"`
	ValorBruto          float64 `csv:"valor_bruto"`
	ProventosAdicionais float64 `csv:"proventos_adicionais"`
	Descontos           float64 `csv:"descontos"`
	ValorLiquido        float64 `csv:"valor_liquido"`
	CompetenciaMensal   string  `csv:"competencia_mensal"`
	MesReferencia       int     `csv:"mes_referencia"`
	AnoReferencia       int     `csv:"ano_referencia"`
}

func toLinhaBruta(s servidor.Servidor) linhaBruta {
	l := linhaBruta{
		ID:                  s.ID,
		CPF:                 s.CPF,
		Matricula:           s.Matricula.String(),
		Nome:                s.Nome,
		Vinculo:             s.Vinculo,
		Cargo:               s.Cargo,
		Lotacao:             s.Lotacao,
		FormaContratacao:    s.FormaContratacao,
		CargaHoraria:        s.CargaHoraria,
		DataAdmissao:        s.DataAdmissao,
		ValorBruto:          s.ValorBruto,
		ProventosAdicionais: s.ProventosAdicionais,
		Descontos:           s.Descontos,
		ValorLiquido:        s.ValorLiquido,
		CompetenciaMensal:   s.CompetenciaMensal,
		MesReferencia:       s.MesReferencia,
		AnoReferencia:       s.AnoReferencia,
	}
	if s.Funcao != nil {
		l.Funcao = *s.Funcao
	}
	if s.DataExoneracao != nil {
		l.DataExoneracao = *s.DataExoneracao
	}
	return l
}

// RawCSV dumps every attribute of the records, ignoring the schema, as a
// semicolon separated file with CRLF line endings.
func RawCSV(req Request) (Payload, error) {
	if req.Detail && len(req.Servidores) != 1 {
		return Payload{}, fmt.Errorf("%w: got %d", ErrDetailRecord, len(req.Servidores))
	}
	linhas := make([]linhaBruta, len(req.Servidores))
	for i, s := range req.Servidores {
		linhas[i] = toLinhaBruta(s)
	}
	b, err := MarshalCSV(&linhas)
	if err != nil {
		return Payload{}, err
	}
	return req.payload(FormatRaw, "text/csv; charset=utf-8", b), nil
}

// MarshalCSV encodes a pointer to a slice of csv-tagged structs using the
// open-data conventions: ';' separator and CRLF line endings.
func MarshalCSV(in interface{}) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	w.UseCRLF = true
	if err := gocsv.MarshalCSV(in, gocsv.NewSafeCSVWriter(w)); err != nil {
		return nil, fmt.Errorf("error marshalling csv: %w", err)
	}
	return buf.Bytes(), nil
}
