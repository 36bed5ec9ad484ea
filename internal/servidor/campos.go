package servidor

import "fmt"

// Field describes one exported attribute: where its value comes from, the
// label shown to people and how the raw value is rendered.
type Field struct {
	Key    string
	Label  string
	Raw    func(Servidor) interface{}
	Format Formatter
}

// Value returns the display string of the field for s.
func (f Field) Value(s Servidor) string {
	var raw interface{}
	if f.Raw != nil {
		raw = f.Raw(s)
	}
	if f.Format == nil {
		return TextFormat(raw)
	}
	return f.Format(raw)
}

// Schema is an ordered list of fields. The order is the column order (or row
// order, for transposed layouts) of every export format.
type Schema []Field

// Labels returns the field labels in schema order.
func (sc Schema) Labels() []string {
	labels := make([]string, len(sc))
	for i, f := range sc {
		labels[i] = f.Label
	}
	return labels
}

// Values returns the formatted values of s in schema order.
func (sc Schema) Values(s Servidor) []string {
	values := make([]string, len(sc))
	for i, f := range sc {
		values[i] = f.Value(s)
	}
	return values
}

// Field returns the field with the given key.
func (sc Schema) Field(key string) (Field, bool) {
	for _, f := range sc {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Select builds a new schema with the given keys, in the order requested.
func (sc Schema) Select(keys ...string) (Schema, error) {
	out := make(Schema, 0, len(keys))
	for _, k := range keys {
		f, ok := sc.Field(k)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", k)
		}
		out = append(out, f)
	}
	return out, nil
}

// Fields of the detail view, in display order.
var campos = Schema{
	{Key: "nome", Label: "Nome", Raw: func(s Servidor) interface{} { return s.Nome }},
	{Key: "cpf", Label: "CPF", Raw: func(s Servidor) interface{} { return s.CPF }},
	{Key: "matricula", Label: "Matrícula", Raw: func(s Servidor) interface{} { return s.Matricula }},
	{Key: "cargo", Label: "Cargo", Raw: func(s Servidor) interface{} { return s.Cargo }},
	{Key: "funcao", Label: "Função", Raw: func(s Servidor) interface{} { return s.Funcao }},
	{Key: "vinculo", Label: "Vínculo", Raw: func(s Servidor) interface{} { return s.Vinculo }},
	{Key: "lotacao", Label: "Lotação", Raw: func(s Servidor) interface{} { return s.Lotacao }},
	{Key: "formaContratacao", Label: "Forma de Contratação", Raw: func(s Servidor) interface{} { return s.FormaContratacao }},
	{Key: "cargaHoraria", Label: "Carga Horária Semanal", Raw: func(s Servidor) interface{} { return s.CargaHoraria }, Format: HoursFormat},
	{Key: "dataAdmissao", Label: "Data de Admissão", Raw: func(s Servidor) interface{} { return s.DataAdmissao }, Format: DateFormat},
	{Key: "dataExoneracao", Label: "Data de Exoneração", Raw: func(s Servidor) interface{} { return s.DataExoneracao }, Format: DateFormat},
	{Key: "valorBruto", Label: "Valor Bruto", Raw: func(s Servidor) interface{} { return s.ValorBruto }, Format: CurrencyFormat},
	{Key: "proventosAdicionais", Label: "Proventos Adicionais", Raw: func(s Servidor) interface{} { return s.ProventosAdicionais }, Format: CurrencyFormat},
	{Key: "descontos", Label: "Descontos", Raw: func(s Servidor) interface{} { return s.Descontos }, Format: CurrencyFormat},
	{Key: "valorLiquido", Label: "Valor Líquido", Raw: func(s Servidor) interface{} { return s.ValorLiquido }, Format: CurrencyFormat},
	{Key: "competenciaMensal", Label: "Competência", Raw: func(s Servidor) interface{} { return s.CompetenciaMensal }},
}

// DetailSchema lists every field of a record, used by single-record exports.
func DetailSchema() Schema {
	return append(Schema(nil), campos...)
}

// BulkSchema lists the columns of the payroll table, used by bulk exports.
func BulkSchema() Schema {
	sc, _ := DetailSchema().Select("nome", "cargo", "vinculo", "competenciaMensal", "cargaHoraria", "valorBruto", "valorLiquido")
	// A tabela usa um rótulo mais curto para a carga horária.
	sc[4].Label = "Carga Horária"
	return sc
}

// ScreenSchema is the detail schema for on-screen display: the CPF is masked.
func ScreenSchema() Schema {
	sc := DetailSchema()
	for i := range sc {
		if sc[i].Key == "cpf" {
			sc[i].Format = MaskedCPFFormat
		}
	}
	return sc
}
