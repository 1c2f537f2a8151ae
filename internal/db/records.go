package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pericialab/backend/internal/models"
)

func (s *Store) InsertDocument(ctx context.Context, d models.Document) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO documents (id, process_id, owner_id, name, storage_path, content_type, size_bytes, uploaded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, d.ID, d.ProcessID, d.OwnerID, d.Name, d.StoragePath, d.ContentType, d.SizeBytes, d.UploadedAt)
	return err
}

func (s *Store) ListDocuments(ctx context.Context, processID string) ([]models.Document, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, process_id, owner_id, name, storage_path, content_type, size_bytes, uploaded_at
		FROM documents WHERE process_id = $1 ORDER BY uploaded_at DESC
	`, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.ProcessID, &d.OwnerID, &d.Name, &d.StoragePath, &d.ContentType, &d.SizeBytes, &d.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDocument(ctx context.Context, documentID string) (models.Document, error) {
	var d models.Document
	err := s.Pool.QueryRow(ctx, `
		SELECT id, process_id, owner_id, name, storage_path, content_type, size_bytes, uploaded_at
		FROM documents WHERE id = $1
	`, documentID).Scan(&d.ID, &d.ProcessID, &d.OwnerID, &d.Name, &d.StoragePath, &d.ContentType, &d.SizeBytes, &d.UploadedAt)
	return d, err
}

func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	return err
}

func (s *Store) InsertReport(ctx context.Context, r models.Report) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO reports (id, process_id, report_type, full_text, conclusion, insalubrity_grade, periculosity_identified, source, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, r.ID, r.ProcessID, r.ReportType, r.FullText, r.Conclusion, r.InsalubrityGrade, r.PericulosityIdentified, r.Source, r.CreatedAt)
	return err
}

func (s *Store) ListReports(ctx context.Context, processID string) ([]models.Report, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, process_id, report_type, full_text, conclusion, insalubrity_grade, periculosity_identified, source, created_at
		FROM reports WHERE process_id = $1 ORDER BY created_at DESC
	`, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.ProcessID, &r.ReportType, &r.FullText, &r.Conclusion, &r.InsalubrityGrade, &r.PericulosityIdentified, &r.Source, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpsertQuestionnaireEntry(ctx context.Context, e models.QuestionnaireEntry) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO questionnaires (id, process_id, party, number, question, answer)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (process_id, party, number) DO UPDATE SET
			question = EXCLUDED.question,
			answer = EXCLUDED.answer
	`, e.ID, e.ProcessID, e.Party, e.Number, e.Question, e.Answer)
	return err
}

// ReplaceQuestionnaire swaps the full questionnaire of a process in one
// transaction, so a partial save can never leave a mixed old/new form.
func (s *Store) ReplaceQuestionnaire(ctx context.Context, processID string, entries []models.QuestionnaireEntry) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM questionnaires WHERE process_id = $1`, processID); err != nil {
			return err
		}
		for _, e := range entries {
			if _, err := tx.Exec(ctx, `
				INSERT INTO questionnaires (id, process_id, party, number, question, answer)
				VALUES ($1,$2,$3,$4,$5,$6)
			`, e.ID, processID, e.Party, e.Number, e.Question, e.Answer); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListQuestionnaire returns entries grouped by party in the fixed order
// claimant, defendant, judge, then by question number, matching the
// order section 20 of the report consumes them in.
func (s *Store) ListQuestionnaire(ctx context.Context, processID string) ([]models.QuestionnaireEntry, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, process_id, party, number, question, answer
		FROM questionnaires WHERE process_id = $1
		ORDER BY CASE party
			WHEN 'claimant' THEN 0
			WHEN 'defendant' THEN 1
			WHEN 'judge' THEN 2
			ELSE 3 END, number ASC
	`, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.QuestionnaireEntry
	for rows.Next() {
		var e models.QuestionnaireEntry
		if err := rows.Scan(&e.ID, &e.ProcessID, &e.Party, &e.Number, &e.Question, &e.Answer); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) InsertRiskAgent(ctx context.Context, a models.RiskAgent) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO risk_agents (id, process_id, agent_type, description, measured_value, measured_unit, tolerance_limit, tolerance_unit, risk_level, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, a.ID, a.ProcessID, a.AgentType, a.Description, a.MeasuredValue, a.MeasuredUnit, a.ToleranceLimit, a.ToleranceUnit, a.RiskLevel, a.Notes)
	return err
}

func (s *Store) ListRiskAgents(ctx context.Context, processID string) ([]models.RiskAgent, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, process_id, agent_type, description, measured_value, measured_unit, tolerance_limit, tolerance_unit, risk_level, notes
		FROM risk_agents WHERE process_id = $1 ORDER BY agent_type ASC, id ASC
	`, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RiskAgent
	for rows.Next() {
		var a models.RiskAgent
		if err := rows.Scan(&a.ID, &a.ProcessID, &a.AgentType, &a.Description, &a.MeasuredValue, &a.MeasuredUnit, &a.ToleranceLimit, &a.ToleranceUnit, &a.RiskLevel, &a.Notes); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) DeleteRiskAgent(ctx context.Context, agentID string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM risk_agents WHERE id = $1`, agentID)
	return err
}

func (s *Store) GrantAccess(ctx context.Context, a models.ProcessAccess) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO process_access (id, process_id, cpf, granted_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (process_id, cpf) DO NOTHING
	`, a.ID, a.ProcessID, a.CPF, a.GrantedAt)
	return err
}

func (s *Store) RevokeAccess(ctx context.Context, processID, cpf string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM process_access WHERE process_id = $1 AND cpf = $2`, processID, cpf)
	return err
}

func (s *Store) ListAccess(ctx context.Context, processID string) ([]models.ProcessAccess, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, process_id, cpf, granted_at FROM process_access WHERE process_id = $1 ORDER BY granted_at ASC
	`, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProcessAccess
	for rows.Next() {
		var a models.ProcessAccess
		if err := rows.Scan(&a.ID, &a.ProcessID, &a.CPF, &a.GrantedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) InsertNotification(ctx context.Context, n models.Notification) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, body, read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, n.ID, n.UserID, n.Title, n.Body, n.Read, n.CreatedAt)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	query := `SELECT id, user_id, title, body, read, created_at FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := s.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, notificationID, userID)
	return err
}

func (s *Store) InsertScheduleEmailReceipt(ctx context.Context, r models.ScheduleEmailReceipt) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO schedule_email_receipts (id, process_id, recipient, sent_at)
		VALUES ($1,$2,$3,$4)
	`, r.ID, r.ProcessID, r.Recipient, r.SentAt)
	return err
}
