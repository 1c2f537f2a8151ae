package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pericialab/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const processColumns = `id, owner_id, process_number, claimant_name, defendant_name, court,
	objective, methodology, initial_petition, defense, activities, workplace,
	insalubrity_analysis, insalubrity_result, periculosity_analysis, periculosity_result,
	periculosity_concept, flammable_definition, conclusion,
	inspection_date, inspection_address, inspection_time,
	epc_selection, epc_notes, epi_intro,
	positions, diligences, attendees, doc_items, epi_items, report_config,
	created_at, updated_at`

// accessFilter scopes a query to processes the user owns or was granted
// access to through a linked-user relation keyed on CPF.
const accessFilter = `(p.owner_id = $1 OR EXISTS (
	SELECT 1 FROM process_access pa
	JOIN linked_users lu ON lu.cpf = pa.cpf
	WHERE pa.process_id = p.id AND lu.user_id = $1))`

func (s *Store) CreateProcess(ctx context.Context, p models.Process) error {
	positions, _ := json.Marshal(p.Positions)
	diligences, _ := json.Marshal(p.Diligences)
	attendees, _ := json.Marshal(p.Attendees)
	docItems, _ := json.Marshal(p.DocItems)
	epiItems, _ := json.Marshal(p.EPIItems)
	reportConfig, _ := json.Marshal(p.ReportConfig)

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO processes (`+processColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,
			$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33)
	`,
		p.ID, p.OwnerID, p.ProcessNumber, p.ClaimantName, p.DefendantName, p.Court,
		p.Objective, p.Methodology, p.InitialPetition, p.Defense, p.Activities, p.Workplace,
		p.InsalubrityAnalysis, p.InsalubrityResult, p.PericulosityAnalysis, p.PericulosityResult,
		p.PericulosityConcept, p.FlammableDefinition, p.Conclusion,
		p.InspectionDate, p.InspectionAddress, p.InspectionTime,
		p.EPCSelection, p.EPCNotes, p.EPIIntro,
		positions, diligences, attendees, docItems, epiItems, reportConfig,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetProcess loads one process the user may see; pgx.ErrNoRows covers
// both "missing" and "not accessible".
func (s *Store) GetProcess(ctx context.Context, userID, processID string) (models.Process, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+qualify(processColumns, "p")+`
		FROM processes p
		WHERE p.id = $2 AND `+accessFilter,
		userID, processID)
	return scanProcess(row)
}

func (s *Store) UpdateProcess(ctx context.Context, userID string, p models.Process) error {
	positions, _ := json.Marshal(p.Positions)
	diligences, _ := json.Marshal(p.Diligences)
	attendees, _ := json.Marshal(p.Attendees)
	docItems, _ := json.Marshal(p.DocItems)
	epiItems, _ := json.Marshal(p.EPIItems)
	reportConfig, _ := json.Marshal(p.ReportConfig)

	tag, err := s.Pool.Exec(ctx, `
		UPDATE processes p SET
			process_number = $3, claimant_name = $4, defendant_name = $5, court = $6,
			objective = $7, methodology = $8, initial_petition = $9, defense = $10,
			activities = $11, workplace = $12,
			insalubrity_analysis = $13, insalubrity_result = $14,
			periculosity_analysis = $15, periculosity_result = $16,
			periculosity_concept = $17, flammable_definition = $18, conclusion = $19,
			inspection_date = $20, inspection_address = $21, inspection_time = $22,
			epc_selection = $23, epc_notes = $24, epi_intro = $25,
			positions = $26, diligences = $27, attendees = $28,
			doc_items = $29, epi_items = $30, report_config = $31,
			updated_at = NOW()
		WHERE p.id = $2 AND `+accessFilter,
		userID, p.ID,
		p.ProcessNumber, p.ClaimantName, p.DefendantName, p.Court,
		p.Objective, p.Methodology, p.InitialPetition, p.Defense, p.Activities, p.Workplace,
		p.InsalubrityAnalysis, p.InsalubrityResult, p.PericulosityAnalysis, p.PericulosityResult,
		p.PericulosityConcept, p.FlammableDefinition, p.Conclusion,
		p.InspectionDate, p.InspectionAddress, p.InspectionTime,
		p.EPCSelection, p.EPCNotes, p.EPIIntro,
		positions, diligences, attendees, docItems, epiItems, reportConfig,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) ListProcesses(ctx context.Context, userID, q string, limit, offset int) ([]models.Process, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + qualify(processColumns, "p") + ` FROM processes p WHERE ` + accessFilter
	args := []any{userID}
	if q != "" {
		args = append(args, "%"+q+"%")
		query += fmt.Sprintf(` AND (p.process_number ILIKE $%d OR p.claimant_name ILIKE $%d OR p.defendant_name ILIKE $%d)`,
			len(args), len(args), len(args))
	}
	query += fmt.Sprintf(" ORDER BY p.updated_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProcess(row rowScanner) (models.Process, error) {
	var (
		p            models.Process
		positions    []byte
		diligences   []byte
		attendees    []byte
		docItems     []byte
		epiItems     []byte
		reportConfig []byte
		createdAt    time.Time
		updatedAt    time.Time
	)
	if err := row.Scan(
		&p.ID, &p.OwnerID, &p.ProcessNumber, &p.ClaimantName, &p.DefendantName, &p.Court,
		&p.Objective, &p.Methodology, &p.InitialPetition, &p.Defense, &p.Activities, &p.Workplace,
		&p.InsalubrityAnalysis, &p.InsalubrityResult, &p.PericulosityAnalysis, &p.PericulosityResult,
		&p.PericulosityConcept, &p.FlammableDefinition, &p.Conclusion,
		&p.InspectionDate, &p.InspectionAddress, &p.InspectionTime,
		&p.EPCSelection, &p.EPCNotes, &p.EPIIntro,
		&positions, &diligences, &attendees, &docItems, &epiItems, &reportConfig,
		&createdAt, &updatedAt,
	); err != nil {
		return models.Process{}, err
	}
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt

	// Legacy rows may hold malformed blobs; a process must still load.
	_ = json.Unmarshal(positions, &p.Positions)
	_ = json.Unmarshal(diligences, &p.Diligences)
	_ = json.Unmarshal(attendees, &p.Attendees)
	_ = json.Unmarshal(docItems, &p.DocItems)
	_ = json.Unmarshal(epiItems, &p.EPIItems)
	_ = json.Unmarshal(reportConfig, &p.ReportConfig)
	return p, nil
}

// qualify prefixes every column in a comma-separated list with a table
// alias so the shared column list works in joined queries.
func qualify(columns, alias string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}
