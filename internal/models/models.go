package models

import "time"

// Process is the central record: one labor-court case under expertise.
// A process always carries a non-empty process number, claimant and
// defendant; everything else is optional and renders as "Não informado"
// in the assembled report when absent.
type Process struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	ProcessNumber string    `json:"process_number"`
	ClaimantName  string    `json:"claimant_name"`
	DefendantName string    `json:"defendant_name"`
	Court         string    `json:"court,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Narrative fields, all optional free text.
	Objective            string `json:"objective,omitempty"`
	Methodology          string `json:"methodology,omitempty"`
	InitialPetition      string `json:"initial_petition,omitempty"`
	Defense              string `json:"defense,omitempty"`
	Activities           string `json:"activities,omitempty"`
	Workplace            string `json:"workplace,omitempty"`
	InsalubrityAnalysis  string `json:"insalubrity_analysis,omitempty"`
	InsalubrityResult    string `json:"insalubrity_result,omitempty"`
	PericulosityAnalysis string `json:"periculosity_analysis,omitempty"`
	PericulosityResult   string `json:"periculosity_result,omitempty"`
	PericulosityConcept  string `json:"periculosity_concept,omitempty"`
	FlammableDefinition  string `json:"flammable_definition,omitempty"`
	Conclusion           string `json:"conclusion,omitempty"`

	// Flat inspection fields, used by section 7 when no diligence rows exist.
	InspectionDate    string `json:"inspection_date,omitempty"`
	InspectionAddress string `json:"inspection_address,omitempty"`
	InspectionTime    string `json:"inspection_time,omitempty"`

	// Free-text EPC fields; section 14 parses "EPCs selecionados:" bullets
	// out of both and deduplicates.
	EPCSelection string `json:"epc_selection,omitempty"`
	EPCNotes     string `json:"epc_notes,omitempty"`

	// Overrides the fixed introductory sentence of section 13 when set.
	EPIIntro string `json:"epi_intro,omitempty"`

	Positions  []Position     `json:"positions,omitempty"`
	Diligences []Diligence    `json:"diligences,omitempty"`
	Attendees  []Attendee     `json:"attendees,omitempty"`
	DocItems   []DocumentItem `json:"doc_items,omitempty"`
	EPIItems   []EPIItem      `json:"epi_items,omitempty"`

	ReportConfig ReportConfig `json:"report_config"`
}

// Position is one job held by the claimant.
type Position struct {
	Title  string `json:"title"`
	Period string `json:"period,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Diligence is one site visit.
type Diligence struct {
	Date        string `json:"date,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`
}

type Attendee struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// DocumentItem is a document listed as presented during the expertise,
// not an uploaded file (see Document for those).
type DocumentItem struct {
	Name      string `json:"name"`
	Presented bool   `json:"presented"`
	Notes     string `json:"notes,omitempty"`
}

// EPIItem is one piece of individual protective equipment, with its
// government approval code (CA).
type EPIItem struct {
	Equipment  string `json:"equipment"`
	Protection string `json:"protection,omitempty"`
	CACode     string `json:"ca_code,omitempty"`
}

// AnnexExposure is one row of the per-annex exposure tables: NR-15 has
// 14 insalubrity annexes, NR-16 has 4 periculosity annexes.
type AnnexExposure struct {
	Annex    string `json:"annex"`
	Agent    string `json:"agent"`
	Exposed  bool   `json:"exposed"`
	Comments string `json:"comments,omitempty"`
}

// ReportConfig groups layout settings for exported reports.
type ReportConfig struct {
	HeaderText          string          `json:"header_text,omitempty"`
	FooterText          string          `json:"footer_text,omitempty"`
	SignatureName       string          `json:"signature_name,omitempty"`
	SignatureTitle      string          `json:"signature_title,omitempty"`
	SignatureImagePath  string          `json:"signature_image_path,omitempty"`
	CourtOptions        []string        `json:"court_options,omitempty"`
	TemplateSnippets    []string        `json:"template_snippets,omitempty"`
	InsalubrityAnnexes  []AnnexExposure `json:"insalubrity_annexes,omitempty"`
	PericulosityAnnexes []AnnexExposure `json:"periculosity_annexes,omitempty"`
}

// Questionnaire party tags, in the order section 20 groups them.
const (
	PartyClaimant  = "claimant"
	PartyDefendant = "defendant"
	PartyJudge     = "judge"
)

type QuestionnaireEntry struct {
	ID        string `json:"id"`
	ProcessID string `json:"process_id"`
	Party     string `json:"party"`
	Number    int    `json:"number"`
	Question  string `json:"question"`
	Answer    string `json:"answer,omitempty"`
}

type RiskAgent struct {
	ID             string `json:"id"`
	ProcessID      string `json:"process_id"`
	AgentType      string `json:"agent_type"`
	Description    string `json:"description,omitempty"`
	MeasuredValue  string `json:"measured_value,omitempty"`
	MeasuredUnit   string `json:"measured_unit,omitempty"`
	ToleranceLimit string `json:"tolerance_limit,omitempty"`
	ToleranceUnit  string `json:"tolerance_unit,omitempty"`
	RiskLevel      string `json:"risk_level,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Report is an append-only snapshot of one generation run.
type Report struct {
	ID                     string    `json:"id"`
	ProcessID              string    `json:"process_id"`
	ReportType             string    `json:"report_type"`
	FullText               string    `json:"full_text"`
	Conclusion             string    `json:"conclusion,omitempty"`
	InsalubrityGrade       string    `json:"insalubrity_grade,omitempty"`
	PericulosityIdentified bool      `json:"periculosity_identified"`
	Source                 string    `json:"source"` // "remote" or "local"
	CreatedAt              time.Time `json:"created_at"`
}

// Document is an uploaded file row; the object itself lives in the
// bucket under <owner_id>/<process_id>/<name>.
type Document struct {
	ID          string    `json:"id"`
	ProcessID   string    `json:"process_id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	StoragePath string    `json:"storage_path"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ProcessAccess grants a linked user (keyed by CPF) access to a process.
type ProcessAccess struct {
	ID        string    `json:"id"`
	ProcessID string    `json:"process_id"`
	CPF       string    `json:"cpf"`
	GrantedAt time.Time `json:"granted_at"`
}

type LinkedUser struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	CPF    string `json:"cpf"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ScheduleEmailReceipt records one reminder email sent for a diligence.
type ScheduleEmailReceipt struct {
	ID        string    `json:"id"`
	ProcessID string    `json:"process_id"`
	Recipient string    `json:"recipient"`
	SentAt    time.Time `json:"sent_at"`
}
