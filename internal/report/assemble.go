package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pericialab/backend/internal/models"
)

// Report type tags. All 21 sections are produced regardless of type;
// the tag only orders the analysis blocks of section 15, downstream
// exporters decide how to typeset them.
const (
	TypeInsalubridade  = "insalubridade"
	TypePericulosidade = "periculosidade"
	TypeCompleto       = "completo"
)

// NotInformed is the fallback body for sections whose source fields are
// absent. A field whose stored value already equals this sentinel is
// treated as empty, so feeding assembler output back in never doubles it.
const NotInformed = "Não informado"

const defaultEPIIntro = "Conforme o disposto nos artigos 166 e 167 da CLT e na NR-06, " +
	"foram apresentados os seguintes equipamentos de proteção individual:"

var sectionTitles = [21]string{
	"IDENTIFICAÇÕES",
	"DADOS DO RECLAMANTE",
	"DADOS DA RECLAMADA",
	"OBJETIVO",
	"DADOS DA PETIÇÃO INICIAL",
	"DADOS DA CONTESTAÇÃO",
	"DILIGÊNCIAS",
	"PARTICIPANTES",
	"METODOLOGIA",
	"DOCUMENTOS APRESENTADOS",
	"CARACTERÍSTICAS DO LOCAL DE TRABALHO",
	"DESCRIÇÃO DAS ATIVIDADES",
	"EQUIPAMENTOS DE PROTEÇÃO INDIVIDUAL (EPI)",
	"EQUIPAMENTOS DE PROTEÇÃO COLETIVA (EPC)",
	"ANÁLISE DOS AGENTES DE RISCO",
	"RESULTADOS DA AVALIAÇÃO DE INSALUBRIDADE",
	"CONCEITO DE PERICULOSIDADE",
	"DEFINIÇÃO DE MATERIAIS INFLAMÁVEIS",
	"RESULTADOS DA AVALIAÇÃO DE PERICULOSIDADE",
	"QUESITOS",
	"CONCLUSÃO",
}

// Assemble turns one process record plus its questionnaire and risk-agent
// rows into the full plain-text report. It is deterministic for a fixed
// generatedAt and cannot fail: every field access is defensive, absent
// data renders as the NotInformed sentinel so section numbering stays
// stable for downstream exporters.
func Assemble(p models.Process, questionnaires []models.QuestionnaireEntry, agents []models.RiskAgent, reportType string, generatedAt time.Time) string {
	bodies := [21]string{
		identificationSection(p),
		claimantSection(p),
		defendantSection(p),
		textSection(p.Objective),
		textSection(p.InitialPetition),
		textSection(p.Defense),
		diligenceSection(p),
		attendeeSection(p.Attendees),
		textSection(p.Methodology),
		documentSection(p.DocItems),
		textSection(p.Workplace),
		textSection(p.Activities),
		epiSection(p),
		epcSection(p),
		riskSection(p, agents, reportType),
		textSection(p.InsalubrityResult),
		textSection(p.PericulosityConcept),
		textSection(p.FlammableDefinition),
		textSection(p.PericulosityResult),
		questionnaireSection(questionnaires),
		textSection(p.Conclusion),
	}

	var b strings.Builder
	for i, body := range bodies {
		fmt.Fprintf(&b, "%d. %s\n%s\n\n", i+1, sectionTitles[i], body)
	}
	fmt.Fprintf(&b, "Laudo gerado em %s", generatedAt.Format("02/01/2006"))
	return b.String()
}

// informed reports whether a value carries real content: non-empty after
// trimming and not the NotInformed sentinel (with or without a trailing
// period) that a previous assembly run may have written back.
func informed(v string) bool {
	t := strings.TrimSpace(v)
	if t == "" {
		return false
	}
	t = strings.TrimSuffix(strings.ToLower(t), ".")
	return t != strings.ToLower(NotInformed)
}

func textSection(v string) string {
	if !informed(v) {
		return NotInformed
	}
	return strings.TrimSpace(v)
}

// orEmpty drops sentinel values so they never leak into composed lines.
func orEmpty(v string) string {
	if !informed(v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// joinSegments flattens key/value pairs into a single line, skipping
// uninformed values: "Função: X | Período: Y".
func joinSegments(pairs ...[2]string) string {
	var parts []string
	for _, kv := range pairs {
		if v := orEmpty(kv[1]); v != "" {
			parts = append(parts, kv[0]+": "+v)
		}
	}
	return strings.Join(parts, " | ")
}

func identificationSection(p models.Process) string {
	var lines []string
	if v := orEmpty(p.ProcessNumber); v != "" {
		lines = append(lines, "Processo: "+v)
	}
	if v := orEmpty(p.ClaimantName); v != "" {
		lines = append(lines, "Reclamante: "+v)
	}
	if v := orEmpty(p.DefendantName); v != "" {
		lines = append(lines, "Reclamada: "+v)
	}
	if v := orEmpty(p.Court); v != "" {
		lines = append(lines, "Vara: "+v)
	}
	if len(lines) == 0 {
		return NotInformed
	}
	return strings.Join(lines, "\n")
}

func claimantSection(p models.Process) string {
	var lines []string
	if v := orEmpty(p.ClaimantName); v != "" {
		lines = append(lines, "Nome: "+v)
	}
	for i, pos := range p.Positions {
		seg := joinSegments(
			[2]string{"Função", pos.Title},
			[2]string{"Período", pos.Period},
			[2]string{"Obs", pos.Notes},
		)
		if seg == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, seg))
	}
	if len(lines) == 0 {
		return NotInformed
	}
	return strings.Join(lines, "\n")
}

func defendantSection(p models.Process) string {
	var lines []string
	if v := orEmpty(p.DefendantName); v != "" {
		lines = append(lines, "Nome: "+v)
	}
	if len(lines) == 0 {
		return NotInformed
	}
	return strings.Join(lines, "\n")
}

// diligenceSection renders the diligence rows, falling back to the flat
// inspection fields on the process when no rows exist.
func diligenceSection(p models.Process) string {
	if len(p.Diligences) > 0 {
		var lines []string
		for i, d := range p.Diligences {
			seg := joinSegments(
				[2]string{"Data", d.Date},
				[2]string{"Endereço", d.Address},
				[2]string{"Cidade", d.City},
				[2]string{"Horário", d.Time},
				[2]string{"Descrição", d.Description},
			)
			if seg == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, seg))
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}

	var lines []string
	if v := orEmpty(p.InspectionDate); v != "" {
		lines = append(lines, "Data da diligência: "+v)
	}
	if v := orEmpty(p.InspectionAddress); v != "" {
		lines = append(lines, "Endereço: "+v)
	}
	if v := orEmpty(p.InspectionTime); v != "" {
		lines = append(lines, "Horário: "+v)
	}
	if len(lines) == 0 {
		return NotInformed
	}
	return strings.Join(lines, "\n")
}

func attendeeSection(attendees []models.Attendee) string {
	var lines []string
	for i, a := range attendees {
		seg := joinSegments(
			[2]string{"Nome", a.Name},
			[2]string{"Função", a.Role},
			[2]string{"Empresa", a.Company},
			[2]string{"Obs", a.Notes},
		)
		if seg == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, seg))
	}
	if len(lines) == 0 {
		return NotInformed
	}
	return strings.Join(lines, "\n")
}

func documentSection(items []models.DocumentItem) string {
	var lines []string
	for i, d := range items {
		name := orEmpty(d.Name)
		if name == "" {
			continue
		}
		status := "Não apresentado"
		if d.Presented {
			status = "Apresentado"
		}
		line := fmt.Sprintf("%d. %s - %s", i+1, name, status)
		if v := orEmpty(d.Notes); v != "" {
			line += " | Obs: " + v
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return NotInformed
	}
	return strings.Join(lines, "\n")
}

// epiSection lists every EPI item prefixed by its index, with the CA
// code in parentheses and the protection description appended. The
// introductory sentence references the applicable CLT articles unless
// the process carries a custom intro.
func epiSection(p models.Process) string {
	if len(p.EPIItems) == 0 {
		return NotInformed
	}
	intro := defaultEPIIntro
	if v := orEmpty(p.EPIIntro); v != "" {
		intro = v
	}
	lines := []string{intro}
	for i, item := range p.EPIItems {
		line := fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(item.Equipment))
		if v := orEmpty(item.CACode); v != "" {
			line += " (CA " + v + ")"
		}
		if v := orEmpty(item.Protection); v != "" {
			line += " - " + v
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// epcSection parses bullet lines following the literal marker
// "EPCs selecionados:" out of both free-text fields and deduplicates
// them into a numbered list. Without the marker it falls back to
// whichever raw field is informed.
func epcSection(p models.Process) string {
	items := parseEPCBullets(p.EPCSelection)
	items = append(items, parseEPCBullets(p.EPCNotes)...)

	if len(items) > 0 {
		seen := map[string]struct{}{}
		var lines []string
		for _, item := range items {
			key := strings.ToLower(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			lines = append(lines, fmt.Sprintf("%d. %s", len(lines)+1, item))
		}
		return strings.Join(lines, "\n")
	}

	if v := orEmpty(p.EPCSelection); v != "" {
		return v
	}
	if v := orEmpty(p.EPCNotes); v != "" {
		return v
	}
	return NotInformed
}

const epcMarker = "EPCs selecionados:"

func parseEPCBullets(text string) []string {
	var out []string
	inBlock := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if strings.EqualFold(line, epcMarker) {
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			out = append(out, strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "-"):
			out = append(out, strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "• "):
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "• ")))
		case line == "":
			// blank lines inside the block are tolerated
		default:
			inBlock = false
		}
	}
	var filtered []string
	for _, item := range out {
		if item != "" {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// riskSection combines the analysis narratives with the structured
// risk-agent rows. The report type only orders the two narratives.
func riskSection(p models.Process, agents []models.RiskAgent, reportType string) string {
	var blocks []string

	insalubrity := orEmpty(p.InsalubrityAnalysis)
	periculosity := orEmpty(p.PericulosityAnalysis)
	if reportType == TypePericulosidade {
		if periculosity != "" {
			blocks = append(blocks, periculosity)
		}
		if insalubrity != "" {
			blocks = append(blocks, insalubrity)
		}
	} else {
		if insalubrity != "" {
			blocks = append(blocks, insalubrity)
		}
		if periculosity != "" {
			blocks = append(blocks, periculosity)
		}
	}

	var lines []string
	for i, a := range agents {
		seg := joinSegments(
			[2]string{"Agente", a.AgentType},
			[2]string{"Descrição", a.Description},
			[2]string{"Medição", joinMeasure(a.MeasuredValue, a.MeasuredUnit)},
			[2]string{"Limite", joinMeasure(a.ToleranceLimit, a.ToleranceUnit)},
			[2]string{"Risco", a.RiskLevel},
			[2]string{"Obs", a.Notes},
		)
		if seg == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, seg))
	}
	if len(lines) > 0 {
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if len(blocks) == 0 {
		return NotInformed
	}
	return strings.Join(blocks, "\n")
}

func joinMeasure(value, unit string) string {
	v := orEmpty(value)
	if v == "" {
		return ""
	}
	if u := orEmpty(unit); u != "" {
		return v + " " + u
	}
	return v
}

var partyOrder = []struct {
	tag   string
	title string
}{
	{models.PartyClaimant, "Quesitos do Reclamante"},
	{models.PartyDefendant, "Quesitos da Reclamada"},
	{models.PartyJudge, "Quesitos do Juízo"},
}

// questionnaireSection groups entries by party in the fixed order
// claimant, defendant, judge, numbering each question with its answer
// inline.
func questionnaireSection(entries []models.QuestionnaireEntry) string {
	var lines []string
	for _, party := range partyOrder {
		var block []string
		for _, e := range entries {
			if e.Party != party.tag {
				continue
			}
			q := orEmpty(e.Question)
			if q == "" {
				continue
			}
			answer := orEmpty(e.Answer)
			if answer == "" {
				answer = NotInformed
			}
			block = append(block, fmt.Sprintf("%d. %s Resposta: %s", e.Number, q, answer))
		}
		if len(block) == 0 {
			continue
		}
		lines = append(lines, party.title+":")
		lines = append(lines, block...)
	}
	if len(lines) == 0 {
		return NotInformed
	}
	return strings.Join(lines, "\n")
}
