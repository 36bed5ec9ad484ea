package servidor

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	data := []struct {
		desc string
		in   string
		out  string
	}{
		{"iso", "2024-03-15", "15/03/2024"},
		{"vazio", "", "-"},
		{"espacos", "   ", "-"},
		{"primeiro dia do ano", "2024-01-01", "01/01/2024"},
		{"timestamp", "2023-12-31T00:00:00", "31/12/2023"},
		{"formato desconhecido", "15/03/2024", "15/03/2024"},
	}
	for _, d := range data {
		t.Run(d.desc, func(t *testing.T) {
			assert.Equal(t, d.out, FormatDate(d.in))
		})
	}
}

func TestDateFormat_Nulo(t *testing.T) {
	var exoneracao *string
	assert.Equal(t, "-", DateFormat(nil))
	assert.Equal(t, "-", DateFormat(exoneracao))
	d := "2022-06-30"
	assert.Equal(t, "30/06/2022", DateFormat(&d))
	assert.Equal(t, "-", DateFormat(42))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", FormatCurrency(1234.5))
	assert.Equal(t, "R$ 3.500,00", FormatCurrency(3500))
	assert.Equal(t, "R$ 0,99", FormatCurrency(0.99))
	assert.Equal(t, "R$ 1.000.000,00", FormatCurrency(1e6))
	assert.Equal(t, "R$ 0,00", FormatCurrency(0))
	assert.Equal(t, "-R$ 10,25", FormatCurrency(-10.25))
	assert.Equal(t, "-", FormatCurrency(math.NaN()))
	assert.Equal(t, "-", FormatCurrency(math.Inf(1)))
}

func TestCurrencyFormat_TipoInesperado(t *testing.T) {
	assert.Equal(t, "R$ 12,00", CurrencyFormat(12))
	assert.Equal(t, "-", CurrencyFormat("doze"))
	assert.Equal(t, "-", CurrencyFormat(nil))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "40h", FormatHours(40))
	assert.Equal(t, "20h", HoursFormat(20))
	assert.Equal(t, "-", HoursFormat(nil))
}

func TestMaskCPF(t *testing.T) {
	assert.Equal(t, "***.***.***-01", MaskCPF("12345678901"))
	assert.Equal(t, "***.***.***-99", MaskCPF("000.000.000-99"))
	assert.Equal(t, "-", MaskCPF(""))
	assert.Equal(t, "-", MaskCPF("1"))
	assert.Equal(t, "-", MaskedCPFFormat(3.14))
}

func TestTextFormat(t *testing.T) {
	var funcao *string
	assert.Equal(t, "-", TextFormat(funcao))
	assert.Equal(t, "-", TextFormat(""))
	assert.Equal(t, "Analista", TextFormat("Analista"))
	assert.Equal(t, "123", TextFormat(Matricula("123")))
	assert.Equal(t, "7", TextFormat(7))
}

func TestMatricula_JSON(t *testing.T) {
	var s struct {
		A Matricula `json:"a"`
		B Matricula `json:"b"`
		C Matricula `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12345, "b": "00123", "c": null}`), &s))
	assert.Equal(t, Matricula("12345"), s.A)
	assert.Equal(t, Matricula("00123"), s.B)
	assert.Equal(t, Matricula(""), s.C)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 12345, "b": "00123", "c": ""}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &s))
}
