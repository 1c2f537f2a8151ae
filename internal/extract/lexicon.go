package extract

// Extraction categories.
const (
	CategoryInsalubridade  = "insalubridade"
	CategoryPericulosidade = "periculosidade"
	CategoryAcidente       = "acidente"
)

// Lexicons are lowercase fragments matched as plain substrings, with no
// stemming and no word-boundary enforcement. The imprecision (e.g. "cat"
// also hits "categoria") is an accepted trade-off of the local fallback
// and is kept for behavioral parity with the LLM-backed endpoint wrapper.
var lexicons = map[string][]string{
	CategoryInsalubridade: {
		"insalubridade",
		"insalubre",
		"nr-15",
		"nr 15",
		"limite de tolerância",
		"adicional de insalubridade",
		"ruído",
		"calor excessivo",
		"agente químico",
		"agentes químicos",
		"agente biológico",
		"agentes biológicos",
		"poeira",
		"vibração",
		"radiação",
		"grau máximo",
		"grau médio",
		"grau mínimo",
	},
	CategoryPericulosidade: {
		"periculosidade",
		"periculoso",
		"nr-16",
		"nr 16",
		"inflamável",
		"inflamáveis",
		"explosivo",
		"explosivos",
		"eletricidade",
		"energia elétrica",
		"combustível",
		"combustíveis",
		"adicional de periculosidade",
		"área de risco",
		"segurança patrimonial",
	},
	CategoryAcidente: {
		"acidente de trabalho",
		"acidente do trabalho",
		"cat",
		"nexo causal",
		"nexo técnico",
		"incapacidade",
		"lesão",
		"sequela",
		"afastamento",
		"auxílio-doença",
		"auxílio acidente",
		"estabilidade acidentária",
		"doença ocupacional",
	},
}

// Keywords returns the lexicon for a category, nil when unknown.
func Keywords(category string) []string {
	return lexicons[category]
}
