package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pericialab/backend/internal/models"
)

var testDate = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func TestAssembleAllSectionsInOrder(t *testing.T) {
	p := models.Process{ProcessNumber: "0001234-56.2024.5.02.0011", ClaimantName: "João", DefendantName: "Empresa X"}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	last := -1
	for i, title := range sectionTitles {
		header := fmt.Sprintf("%d. %s\n", i+1, title)
		idx := strings.Index(out, header)
		if idx < 0 {
			t.Fatalf("missing section header %q", header)
		}
		if idx <= last {
			t.Fatalf("section %d out of order", i+1)
		}
		last = idx
	}
	if !strings.HasSuffix(out, "Laudo gerado em 15/03/2026") {
		t.Fatalf("missing generation trailer, got tail %q", out[len(out)-40:])
	}
}

func TestAssembleEmptyOptionalSections(t *testing.T) {
	p := models.Process{ProcessNumber: "123", ClaimantName: "A", DefendantName: "B"}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	for _, n := range []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21} {
		want := fmt.Sprintf("%d. %s\n%s\n\n", n, sectionTitles[n-1], NotInformed)
		if !strings.Contains(out, want) {
			t.Fatalf("section %d should render %q", n, NotInformed)
		}
	}
}

func TestAssembleSentinelIdempotent(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		Objective:   "Não informado.",
		Methodology: "não informado",
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	if strings.Contains(out, "Não informado.") {
		t.Fatalf("sentinel with trailing period leaked through")
	}
	if !strings.Contains(out, "4. OBJETIVO\nNão informado\n\n") {
		t.Fatalf("objective should normalize back to the bare sentinel")
	}
}

func TestAssembleDeterministic(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		Objective: "Apurar insalubridade",
	}
	a := Assemble(p, nil, nil, TypeCompleto, testDate)
	b := Assemble(p, nil, nil, TypeCompleto, testDate)
	if a != b {
		t.Fatalf("same inputs produced different reports")
	}
}

func TestClaimantPositions(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "João da Silva", DefendantName: "B",
		Positions: []models.Position{
			{Title: "Operador", Period: "01/01/2020 a 01/01/2022"},
			{Title: "Supervisor", Period: "02/01/2022 a 30/06/2023", Notes: "turno noturno"},
		},
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	if !strings.Contains(out, "Nome: João da Silva") {
		t.Fatalf("claimant name missing")
	}
	if !strings.Contains(out, "1. Função: Operador | Período: 01/01/2020 a 01/01/2022") {
		t.Fatalf("first position line wrong:\n%s", out)
	}
	if !strings.Contains(out, "2. Função: Supervisor | Período: 02/01/2022 a 30/06/2023 | Obs: turno noturno") {
		t.Fatalf("second position line wrong")
	}
}

func TestEPISection(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		EPIItems: []models.EPIItem{
			{Equipment: "Luva de raspa", CACode: "1234", Protection: "Proteção das mãos"},
			{Equipment: "Protetor auricular"},
		},
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	if !strings.Contains(out, "artigos 166 e 167 da CLT") {
		t.Fatalf("default EPI intro missing")
	}
	if !strings.Contains(out, "1. Luva de raspa (CA 1234) - Proteção das mãos") {
		t.Fatalf("EPI line with CA code wrong")
	}
	if !strings.Contains(out, "2. Protetor auricular\n") {
		t.Fatalf("EPI line without CA code wrong")
	}
}

func TestEPISectionCustomIntro(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		EPIIntro: "Foram entregues os seguintes EPIs:",
		EPIItems: []models.EPIItem{{Equipment: "Capacete"}},
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)
	if !strings.Contains(out, "Foram entregues os seguintes EPIs:\n1. Capacete") {
		t.Fatalf("custom intro not used")
	}
}

func TestEPCBulletsDeduplicated(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		EPCSelection: "EPCs selecionados:\n- Exaustor\n- Ventilador",
		EPCNotes:     "Observações gerais.\nEPCs selecionados:\n- ventilador\n• Guarda-corpo",
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	if !strings.Contains(out, "1. Exaustor\n2. Ventilador\n3. Guarda-corpo") {
		t.Fatalf("EPC list wrong:\n%s", out)
	}
	if strings.Count(out, "entilador") != 1 {
		t.Fatalf("duplicate EPC not collapsed")
	}
}

func TestEPCFallbackWithoutMarker(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		EPCNotes: "Sistema de exaustão instalado em 2021.",
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)
	if !strings.Contains(out, "EQUIPAMENTOS DE PROTEÇÃO COLETIVA (EPC)\nSistema de exaustão instalado em 2021.") {
		t.Fatalf("raw EPC text fallback missing")
	}
}

func TestDiligenceFallbackToFlatFields(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		InspectionDate:    "10/02/2026",
		InspectionAddress: "Rua das Flores, 100",
		InspectionTime:    "14:00",
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	if !strings.Contains(out, "Data da diligência: 10/02/2026\nEndereço: Rua das Flores, 100\nHorário: 14:00") {
		t.Fatalf("flat inspection fallback wrong:\n%s", out)
	}
}

func TestDiligenceRowsPreferred(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		InspectionDate: "10/02/2026",
		Diligences: []models.Diligence{
			{Date: "11/02/2026", Address: "Av. Central, 5", City: "Campinas"},
		},
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	if !strings.Contains(out, "1. Data: 11/02/2026 | Endereço: Av. Central, 5 | Cidade: Campinas") {
		t.Fatalf("diligence row line wrong")
	}
	if strings.Contains(out, "Data da diligência:") {
		t.Fatalf("flat fallback should not render when rows exist")
	}
}

func TestQuestionnaireGrouping(t *testing.T) {
	entries := []models.QuestionnaireEntry{
		{Party: models.PartyJudge, Number: 1, Question: "Houve exposição?", Answer: "Sim."},
		{Party: models.PartyClaimant, Number: 1, Question: "Qual a função exercida?", Answer: "Operador."},
		{Party: models.PartyDefendant, Number: 1, Question: "Foram fornecidos EPIs?"},
	}
	p := models.Process{ProcessNumber: "123", ClaimantName: "A", DefendantName: "B"}
	out := Assemble(p, entries, nil, TypeCompleto, testDate)

	ci := strings.Index(out, "Quesitos do Reclamante:")
	di := strings.Index(out, "Quesitos da Reclamada:")
	ji := strings.Index(out, "Quesitos do Juízo:")
	if ci < 0 || di < 0 || ji < 0 {
		t.Fatalf("missing party headers")
	}
	if !(ci < di && di < ji) {
		t.Fatalf("party blocks out of order: %d %d %d", ci, di, ji)
	}
	if !strings.Contains(out, "1. Qual a função exercida? Resposta: Operador.") {
		t.Fatalf("answered question line wrong")
	}
	if !strings.Contains(out, "1. Foram fornecidos EPIs? Resposta: Não informado") {
		t.Fatalf("unanswered question should show the sentinel")
	}
}

func TestRiskSectionOrderByType(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		InsalubrityAnalysis:  "Análise de ruído acima do limite.",
		PericulosityAnalysis: "Análise de inflamáveis no setor.",
	}
	out := Assemble(p, nil, nil, TypePericulosidade, testDate)

	pi := strings.Index(out, "Análise de inflamáveis")
	ii := strings.Index(out, "Análise de ruído")
	if pi < 0 || ii < 0 || pi > ii {
		t.Fatalf("periculosity analysis should come first for that report type")
	}
}

func TestRiskAgentRows(t *testing.T) {
	agents := []models.RiskAgent{
		{AgentType: "Ruído", MeasuredValue: "92", MeasuredUnit: "dB(A)", ToleranceLimit: "85", ToleranceUnit: "dB(A)", RiskLevel: "Alto"},
	}
	p := models.Process{ProcessNumber: "123", ClaimantName: "A", DefendantName: "B"}
	out := Assemble(p, nil, agents, TypeCompleto, testDate)

	if !strings.Contains(out, "1. Agente: Ruído | Medição: 92 dB(A) | Limite: 85 dB(A) | Risco: Alto") {
		t.Fatalf("risk agent line wrong:\n%s", out)
	}
}

func TestDocumentItems(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		DocItems: []models.DocumentItem{
			{Name: "PPRA", Presented: true},
			{Name: "PCMSO", Presented: false, Notes: "solicitado em audiência"},
		},
	}
	out := Assemble(p, nil, nil, TypeCompleto, testDate)

	if !strings.Contains(out, "1. PPRA - Apresentado") {
		t.Fatalf("presented document line wrong")
	}
	if !strings.Contains(out, "2. PCMSO - Não apresentado | Obs: solicitado em audiência") {
		t.Fatalf("missing document line wrong")
	}
}
