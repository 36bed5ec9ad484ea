package main

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dadosjusbr/proto/coleta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/prototext"

	"exportador/internal/folha"
	"exportador/internal/servidor"
)

const entradaColeta = `
coleta {
  orgao: "trt13"
  mes: 3
  ano: 2024
}
folha {
  contra_cheque {
    nome: "MARIA DAS DORES"
    matricula: "0012"
    funcao: "Juíza"
    local_trabalho: "1ª Vara"
    remuneracoes {
      remuneracao { natureza: R tipo_receita: B item: "Subsídio" valor: 30000 }
      remuneracao { natureza: R tipo_receita: O item: "Auxílio-alimentação" valor: 1200.5 }
      remuneracao { natureza: D tipo_receita: O item: "Imposto de Renda" valor: 6000 }
    }
  }
  contra_cheque {
    nome: "JOÃO PEDRO"
    matricula: "0013"
    funcao: "Analista"
    local_trabalho: "Secretaria"
    remuneracoes {
      remuneracao { natureza: R tipo_receita: O item: "Remuneração do Cargo Efetivo" valor: 9000 }
    }
  }
}
`

func testConfig(t *testing.T) *config {
	t.Helper()
	return &config{
		DataFolder:   filepath.Join(t.TempDir(), "dados"),
		OutputFolder: filepath.Join(t.TempDir(), "saida"),
		Addr:         ":0",
	}
}

func run(t *testing.T, cfg *config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, cfg *config) {
	t.Helper()
	_, err := folha.WriteCompetencia(cfg.DataFolder, 2024, 2, []servidor.Servidor{
		{ID: 1, Nome: "Ana Silva", CPF: "12345678901", Cargo: "Analista", Vinculo: "Efetivo", ValorBruto: 3500, ValorLiquido: 3000, CompetenciaMensal: "Fevereiro/2024"},
		{ID: 2, Nome: "José Conceição", CPF: "98765432100", Cargo: "Professor", Vinculo: "Contratado", ValorBruto: 2000, ValorLiquido: 1800, CompetenciaMensal: "Fevereiro/2024"},
	})
	require.NoError(t, err)
	_, err = folha.WriteCompetencia(cfg.DataFolder, 2023, 12, nil)
	require.NoError(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATA_FOLDER", "/srv/folhas")
	t.Setenv("OUTPUT_FOLDER", "/tmp/saida")
	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/folhas", c.DataFolder)
	assert.Equal(t, "/tmp/saida", c.OutputFolder)
	assert.Equal(t, ":8080", c.Addr)
}

func TestEmpacotar(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.OutputFolder, 0o755))
	rc := new(coleta.ResultadoColeta)
	require.NoError(t, prototext.Unmarshal([]byte(entradaColeta), rc))

	pr, err := empacotar(cfg, rc)
	require.NoError(t, err)
	assert.Equal(t, int32(2), pr.GetRemuneracoes().GetNumBase())
	assert.Equal(t, int32(1), pr.GetRemuneracoes().GetNumOutras())
	assert.Equal(t, int32(1), pr.GetRemuneracoes().GetNumDescontos())
	assert.Equal(t, filepath.Join(cfg.OutputFolder, "remuneracoes-trt13-2024-3.zip"), pr.GetRemuneracoes().GetZipUrl())
	assert.FileExists(t, pr.GetRemuneracoes().GetZipUrl())

	servidores, err := folha.NewSource(cfg.DataFolder).Servidores(context.Background(), "folha_pagamento_2024_03")
	require.NoError(t, err)
	require.Len(t, servidores, 2)
	assert.Equal(t, "MARIA DAS DORES", servidores[0].Nome)
	assert.Equal(t, 25200.5, servidores[0].ValorLiquido)

	zr, err := zip.OpenReader(filepath.Join(cfg.OutputFolder, "folha_pagamento_2024_03.zip"))
	require.NoError(t, err)
	defer zr.Close()
	var nomes []string
	for _, f := range zr.File {
		nomes = append(nomes, f.Name)
	}
	assert.Contains(t, nomes, "folha_pagamento_2024_03.csv")
	assert.Contains(t, nomes, "folha_pagamento_2024_03.pdf")
}

func TestImportar_EntradaInvalida(t *testing.T) {
	var out bytes.Buffer
	err := importar(testConfig(t), strings.NewReader("isso não é prototext {"), &out)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestCompetenciasCmd(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)
	out, err := run(t, cfg, "competencias")
	require.NoError(t, err)
	assert.Contains(t, out, "Fevereiro/2024")
	assert.Contains(t, out, "folha_pagamento_2023_12")
	assert.Less(t, strings.Index(out, "Fevereiro/2024"), strings.Index(out, "Dezembro/2023"))
}

func TestExportarCmd(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	out, err := run(t, cfg, "exportar", "folha_pagamento_2024_02", "-f", "txt", "--vinculo", "Efetivo")
	require.NoError(t, err)
	path := filepath.Join(cfg.OutputFolder, "folha_pagamento_2024_02.txt")
	assert.Equal(t, path+"\n", out)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Ana Silva")
	assert.NotContains(t, string(b), "José Conceição")
}

func TestExportarCmd_Servidor(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	out, err := run(t, cfg, "exportar", "folha_pagamento_2024_02", "--id", "2", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputFolder, "José Conceição_dados.json")+"\n", out)

	_, err = run(t, cfg, "exportar", "folha_pagamento_2024_02", "--id", "99")
	assert.Error(t, err)
}

func TestExportarCmd_Pacote(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	out, err := run(t, cfg, "exportar", "folha_pagamento_2024_02", "--pacote")
	require.NoError(t, err)
	path := filepath.Join(cfg.OutputFolder, "folha_pagamento_2024_02.zip")
	assert.Equal(t, path+"\n", out)
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	assert.NotEmpty(t, zr.File)
}

func TestExportarCmd_Erros(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	_, err := run(t, cfg, "exportar", "folha_pagamento_2024_02", "-f", "rtf")
	assert.Error(t, err)

	_, err = run(t, cfg, "exportar", "folha_pagamento_2019_01")
	assert.ErrorIs(t, err, folha.ErrCompetenciaNotFound)
}

func TestExportarCmd_IDZero(t *testing.T) {
	cfg := testConfig(t)
	// Registros sem "id" no arquivo ficam com id 0.
	_, err := folha.WriteCompetencia(cfg.DataFolder, 2024, 4, []servidor.Servidor{
		{Nome: "Sem Identificador", Vinculo: "Efetivo"},
		{ID: 5, Nome: "Carla Dias", Vinculo: "Efetivo"},
	})
	require.NoError(t, err)

	out, err := run(t, cfg, "exportar", "folha_pagamento_2024_04", "--id", "0", "-f", "txt")
	require.NoError(t, err)
	path := filepath.Join(cfg.OutputFolder, "Sem Identificador_dados.txt")
	assert.Equal(t, path+"\n", out)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "Nome: Sem Identificador\n"))
}

func TestExportarCmd_IDComFiltro(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	_, err := run(t, cfg, "exportar", "folha_pagamento_2024_02", "--id", "1", "--nome", "ana")
	assert.ErrorIs(t, err, errFiltroComID)
	_, err = os.Stat(filepath.Join(cfg.OutputFolder, "Ana Silva_dados.csv"))
	assert.True(t, os.IsNotExist(err))
}
