package exportacao

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"exportador/internal/servidor"
)

func openXLSX(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestXLSX_Bulk(t *testing.T) {
	p, err := XLSX(bulk())
	require.NoError(t, err)
	assert.Equal(t, "folha_pagamento_2024_01.xlsx", p.Filename)

	f := openXLSX(t, p.Content)
	assert.Equal(t, []string{"Folha de Pagamento"}, f.GetSheetList())
	rows, err := f.GetRows("Folha de Pagamento")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, servidor.BulkSchema().Labels(), rows[0])
	assert.Equal(t, "Ana Silva", rows[1][0])
	assert.Equal(t, `Diretor, Setor "A"`, rows[1][1])
	assert.Equal(t, "R$ 1.234,50", rows[2][5])
}

func TestXLSX_Detail(t *testing.T) {
	p, err := XLSX(detail())
	require.NoError(t, err)

	f := openXLSX(t, p.Content)
	rows, err := f.GetRows("Dados")
	require.NoError(t, err)
	require.Len(t, rows, 17)
	assert.Equal(t, []string{"Campo", "Valor"}, rows[0])
	assert.Equal(t, []string{"Nome", "Ana Silva"}, rows[1])
	assert.Equal(t, []string{"CPF", "12345678901"}, rows[2])
	assert.Equal(t, []string{"Competência", "Janeiro/2024"}, rows[16])
}

func TestXLSX_SemRegistros(t *testing.T) {
	req := bulk()
	req.Servidores = nil
	p, err := XLSX(req)
	require.NoError(t, err)
	rows, err := openXLSX(t, p.Content).GetRows("Folha de Pagamento")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
