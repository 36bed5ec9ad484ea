package exportacao

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTXT_Cenario(t *testing.T) {
	p, err := TXT(cenario())
	require.NoError(t, err)
	assert.Equal(t, "Nome: Ana Silva\nValor Bruto: R$ 3.500,00\nData Admissão: 10/01/2023", string(p.Content))
	assert.Equal(t, "Ana Silva_dados.txt", p.Filename)
}

func TestTXT_Bulk(t *testing.T) {
	p, err := TXT(bulk())
	require.NoError(t, err)
	blocos := strings.Split(string(p.Content), "\n\n")
	require.Len(t, blocos, 2)
	assert.True(t, strings.HasPrefix(blocos[0], "Nome: Ana Silva\n"))
	assert.True(t, strings.HasPrefix(blocos[1], "Nome: José <b>Conceição</b> & Filhos\n"))
	assert.Len(t, strings.Split(blocos[1], "\n"), 7)
	assert.True(t, strings.HasSuffix(blocos[1], "Valor Líquido: R$ 1.234,50"))
}

func TestTXT_SemRegistros(t *testing.T) {
	req := bulk()
	req.Servidores = nil
	p, err := TXT(req)
	require.NoError(t, err)
	assert.Empty(t, p.Content)
}
