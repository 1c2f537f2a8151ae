package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pericialab/backend/internal/fn"
	"github.com/pericialab/backend/internal/models"
)

// Data is the slice of the store the generator needs.
type Data interface {
	GetProcess(ctx context.Context, userID, processID string) (models.Process, error)
	ListQuestionnaire(ctx context.Context, processID string) ([]models.QuestionnaireEntry, error)
	ListRiskAgents(ctx context.Context, processID string) ([]models.RiskAgent, error)
	InsertReport(ctx context.Context, r models.Report) error
}

// Generator produces and persists report snapshots. The serverless
// generate-report function is preferred when configured; any remote
// failure falls back to the local assembler, because a missed legal
// deadline costs more than a partially empty report.
type Generator struct {
	Data      Data
	Functions *fn.Client
	Logger    zerolog.Logger
}

// Generate assembles the report for one process and appends it to the
// report history. Only the inability to load the process record itself
// propagates as an error.
func (g *Generator) Generate(ctx context.Context, userID, processID, reportType string) (models.Report, error) {
	p, err := g.Data.GetProcess(ctx, userID, processID)
	if err != nil {
		return models.Report{}, err
	}

	rep := models.Report{
		ID:         uuid.NewString(),
		ProcessID:  p.ID,
		ReportType: reportType,
		CreatedAt:  time.Now().UTC(),
	}

	if g.Functions.Configured() {
		remote, err := g.Functions.GenerateReport(ctx, processID, reportType)
		if err == nil && remote.FullText != "" {
			rep.FullText = remote.FullText
			rep.Conclusion = remote.Conclusion
			rep.InsalubrityGrade = remote.InsalubrityGrade
			rep.PericulosityIdentified = remote.PericulosityIdentified
			rep.Source = "remote"
		} else if err != nil && !errors.Is(err, fn.ErrNotConfigured) {
			g.Logger.Warn().Err(err).Str("process_id", processID).Msg("remote report generation failed, using local assembler")
		}
	}

	if rep.Source == "" {
		questionnaires, err := g.Data.ListQuestionnaire(ctx, processID)
		if err != nil {
			g.Logger.Warn().Err(err).Str("process_id", processID).Msg("questionnaire load failed, assembling without it")
		}
		agents, err := g.Data.ListRiskAgents(ctx, processID)
		if err != nil {
			g.Logger.Warn().Err(err).Str("process_id", processID).Msg("risk agent load failed, assembling without them")
		}

		rep.FullText = Assemble(p, questionnaires, agents, reportType, rep.CreatedAt)
		rep.Conclusion = ExtractConclusion(rep.FullText)
		rep.InsalubrityGrade = DeriveInsalubrityGrade(p.InsalubrityResult)
		rep.PericulosityIdentified = DerivePericulosityIdentified(p.PericulosityResult)
		rep.Source = "local"
	}

	if err := g.Data.InsertReport(ctx, rep); err != nil {
		return models.Report{}, err
	}
	return rep, nil
}
