package report

import (
	"testing"
	"time"

	"github.com/pericialab/backend/internal/models"
)

func TestDeriveInsalubrityGrade(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Caracterizada insalubridade em grau máximo.", "máximo"},
		{"Insalubridade em GRAU MÉDIO conforme anexo 1.", "médio"},
		{"grau mínimo", "mínimo"},
		{"Não foi caracterizada insalubridade.", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := DeriveInsalubrityGrade(c.text); got != c.want {
			t.Fatalf("DeriveInsalubrityGrade(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestDerivePericulosityIdentified(t *testing.T) {
	if !DerivePericulosityIdentified("Constatada a periculosidade no setor de abastecimento.") {
		t.Fatalf("expected periculosity identified")
	}
	if !DerivePericulosityIdentified("Foi CONSTATADO contato com inflamáveis.") {
		t.Fatalf("expected identified regardless of case and inflection")
	}
	if DerivePericulosityIdentified("Não há elementos que indiquem risco.") {
		t.Fatalf("expected not identified")
	}
}

func TestExtractConclusion(t *testing.T) {
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		Conclusion: "Caracterizada insalubridade em grau médio.",
	}
	full := Assemble(p, nil, nil, TypeCompleto, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	got := ExtractConclusion(full)
	if got != "Caracterizada insalubridade em grau médio." {
		t.Fatalf("ExtractConclusion = %q", got)
	}
}

func TestExtractConclusionKeepsInternalBlankLines(t *testing.T) {
	conclusion := "Caracterizada insalubridade em grau médio.\n\nNão foi constatada periculosidade."
	p := models.Process{
		ProcessNumber: "123", ClaimantName: "A", DefendantName: "B",
		Conclusion: conclusion,
	}
	full := Assemble(p, nil, nil, TypeCompleto, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	if got := ExtractConclusion(full); got != conclusion {
		t.Fatalf("ExtractConclusion = %q, want the full two-paragraph body", got)
	}
}

func TestExtractConclusionMissingMarker(t *testing.T) {
	if got := ExtractConclusion("texto sem seções"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
