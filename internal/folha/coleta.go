package folha

import (
	"fmt"
	"math"
	"strings"

	"github.com/dadosjusbr/proto/coleta"
	"golang.org/x/exp/slices"

	"exportador/internal/servidor"
)

// Esses são os diferentes nomes que os órgãos dão para a remuneração base
// (ignorando acentos e caixa).
var categoriasBase = []string{"subsidio", "cargo efetivo", "remuneracao basica", "remuneracao do cargo efetivo"}

// Remuneracao is one paycheck item of a crawl, already categorized.
type Remuneracao struct {
	Ano                      int32   `csv:"ano"`
	Mes                      int32   `csv:"mes"`
	Orgao                    string  `csv:"orgao"`
	Nome                     string  `csv:"nome"`
	Matricula                string  `csv:"matricula"`
	Cargo                    string  `csv:"cargo"`
	Lotacao                  string  `csv:"lotacao"`
	DetalhamentoContracheque string  `csv:"detalhamento_contracheque"`
	CategoriaContracheque    string  `csv:"categoria_contracheque"`
	Valor                    float64 `csv:"valor"`
}

// Categoria counts the paycheck items of each category.
type Categoria struct {
	Base      int32
	Outras    int32
	Descontos int32
}

// Importacao is the result of converting a crawl into payroll records.
type Importacao struct {
	Ano          int
	Mes          int
	Orgao        string
	Servidores   []servidor.Servidor
	Remuneracoes []Remuneracao
	Categorias   Categoria
}

// FromColeta converts a dadosjusbr crawl result into payroll records, one per
// paycheck. Base items add up to the gross pay, other earnings to the
// additional earnings and discounts to the deductions.
func FromColeta(rc *coleta.ResultadoColeta) (Importacao, error) {
	c := rc.GetColeta()
	if c == nil {
		return Importacao{}, fmt.Errorf("crawling result without coleta metadata")
	}
	imp := Importacao{
		Ano:   int(c.GetAno()),
		Mes:   int(c.GetMes()),
		Orgao: c.GetOrgao(),
	}
	if _, err := ParseCompetencia(CompetenciaID(imp.Ano, imp.Mes)); err != nil {
		return Importacao{}, err
	}
	competencia := fmt.Sprintf("%s/%d", meses[imp.Mes-1], imp.Ano)

	for i, cc := range rc.GetFolha().GetContraCheque() {
		s := servidor.Servidor{
			ID:                int64(i + 1),
			Matricula:         servidor.Matricula(cc.GetMatricula()),
			Nome:              cc.GetNome(),
			Cargo:             cc.GetFuncao(),
			Lotacao:           cc.GetLocalTrabalho(),
			Vinculo:           vinculo(cc.GetTipo().String()),
			CompetenciaMensal: competencia,
			MesReferencia:     imp.Mes,
			AnoReferencia:     imp.Ano,
		}
		for _, r := range cc.GetRemuneracoes().GetRemuneracao() {
			valor := float64(r.GetValor())
			// Erroneamente, nem todos os descontos estão vindo com valor negativo.
			if r.GetNatureza() == coleta.Remuneracao_D && valor > 0 {
				valor *= -1
			}
			var categoria string
			switch {
			case r.GetNatureza() == coleta.Remuneracao_D:
				categoria = "descontos"
				imp.Categorias.Descontos++
				s.Descontos += math.Abs(valor)
			case r.GetTipoReceita() == coleta.Remuneracao_B || slices.Contains(categoriasBase, servidor.Normalize(r.GetItem())):
				categoria = "base"
				imp.Categorias.Base++
				s.ValorBruto += valor
			default:
				categoria = "outras"
				imp.Categorias.Outras++
				s.ProventosAdicionais += valor
			}
			imp.Remuneracoes = append(imp.Remuneracoes, Remuneracao{
				Ano:                      c.GetAno(),
				Mes:                      c.GetMes(),
				Orgao:                    imp.Orgao,
				Nome:                     cc.GetNome(),
				Matricula:                cc.GetMatricula(),
				Cargo:                    cc.GetFuncao(),
				Lotacao:                  cc.GetLocalTrabalho(),
				DetalhamentoContracheque: strings.TrimSpace(r.GetItem()),
				CategoriaContracheque:    categoria,
				Valor:                    valor,
			})
		}
		s.ValorLiquido = round(s.ValorBruto + s.ProventosAdicionais - s.Descontos)
		s.ValorBruto = round(s.ValorBruto)
		s.ProventosAdicionais = round(s.ProventosAdicionais)
		s.Descontos = round(s.Descontos)
		imp.Servidores = append(imp.Servidores, s)
	}
	return imp, nil
}

// vinculo turns the proto enum name (e.g. MEMBRO) into a display label.
func vinculo(tipo string) string {
	if tipo == "" {
		return ""
	}
	tipo = strings.ToLower(strings.ReplaceAll(tipo, "_", " "))
	return strings.ToUpper(tipo[:1]) + tipo[1:]
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
