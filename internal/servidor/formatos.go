package servidor

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is rendered for absent values.
const Placeholder = "-"

var moeda = message.NewPrinter(language.BrazilianPortuguese)

// FormatDate converts a YYYY-MM-DD date into DD/MM/YYYY.
//
// The date is split as text, no time.Parse involved: parsing into a time.Time
// and printing it in another zone moves the day.
func FormatDate(data string) string {
	data = strings.TrimSpace(data)
	if data == "" {
		return Placeholder
	}
	partes := strings.Split(data, "-")
	if len(partes) != 3 {
		return data
	}
	ano, mes, dia := partes[0], partes[1], partes[2]
	// Alguns órgãos publicam o timestamp completo (2024-03-15T00:00:00).
	if i := strings.IndexAny(dia, "T "); i >= 0 {
		dia = dia[:i]
	}
	return fmt.Sprintf("%s/%s/%s", dia, mes, ano)
}

// FormatCurrency formats a value in Brazilian Reais, e.g. "R$ 1.234,50".
func FormatCurrency(valor float64) string {
	if math.IsNaN(valor) || math.IsInf(valor, 0) {
		return Placeholder
	}
	sinal := ""
	if valor < 0 {
		sinal = "-"
		valor = -valor
	}
	// Arredonda antes de formatar para evitar "-R$ 0,00".
	valor = math.Round(valor*100) / 100
	if valor == 0 {
		sinal = ""
	}
	return sinal + "R$ " + moeda.Sprintf("%.2f", valor)
}

// FormatHours renders the weekly workload, e.g. "40h".
func FormatHours(horas int) string {
	return fmt.Sprintf("%dh", horas)
}

// MaskCPF hides everything but the last two digits of a CPF: ***.***.***-01.
func MaskCPF(cpf string) string {
	var digitos []rune
	for _, r := range cpf {
		if unicode.IsDigit(r) {
			digitos = append(digitos, r)
		}
	}
	if len(digitos) < 2 {
		return Placeholder
	}
	return "***.***.***-" + string(digitos[len(digitos)-2:])
}

// Formatter turns a raw field value into its display string. Formatters must
// accept any value and fall back to Placeholder instead of failing.
type Formatter func(v interface{}) string

// DateFormat is the Formatter for YYYY-MM-DD strings, including nullable ones.
func DateFormat(v interface{}) string {
	s, ok := stringValue(v)
	if !ok {
		return Placeholder
	}
	return FormatDate(s)
}

// CurrencyFormat is the Formatter for monetary values.
func CurrencyFormat(v interface{}) string {
	f, ok := floatValue(v)
	if !ok {
		return Placeholder
	}
	return FormatCurrency(f)
}

// HoursFormat is the Formatter for the weekly workload.
func HoursFormat(v interface{}) string {
	f, ok := floatValue(v)
	if !ok {
		return Placeholder
	}
	if f == math.Trunc(f) {
		return FormatHours(int(f))
	}
	return fmt.Sprintf("%gh", f)
}

// MaskedCPFFormat is the Formatter used by on-screen schemas.
func MaskedCPFFormat(v interface{}) string {
	s, ok := stringValue(v)
	if !ok {
		return Placeholder
	}
	return MaskCPF(s)
}

// TextFormat is the default Formatter: nil and blank values become Placeholder.
func TextFormat(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return Placeholder
	case *string:
		if t == nil {
			return Placeholder
		}
		return TextFormat(*t)
	case string:
		if strings.TrimSpace(t) == "" {
			return Placeholder
		}
		return t
	case fmt.Stringer:
		return TextFormat(t.String())
	default:
		return fmt.Sprint(t)
	}
}

func stringValue(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case *string:
		if t == nil {
			return "", true
		}
		return *t, true
	case fmt.Stringer:
		return t.String(), true
	}
	return "", false
}

func floatValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case *float64:
		if t == nil {
			return 0, false
		}
		return *t, true
	}
	return 0, false
}
