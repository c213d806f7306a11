// internal/services/usage.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tahcohcat/annunciator/internal/database"
	"github.com/tahcohcat/annunciator/internal/models"
)

type UsageService struct {
	db *database.DB
}

func NewUsageService(db *database.DB) *UsageService {
	return &UsageService{db: db}
}

// StartRun records the beginning of a batch
func (s *UsageService) StartRun(inputPath, provider string) (*models.Run, error) {
	run := &models.Run{
		InputPath: inputPath,
		Provider:  provider,
		StartedAt: time.Now(),
	}

	query := `
		INSERT INTO runs (input_path, provider, started_at)
		VALUES (:input_path, :provider, :started_at)
	`

	result, err := s.db.NamedExec(query, run)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get run ID: %w", err)
	}

	run.ID = int(id)
	return run, nil
}

// FinishRun stores the final counters of a batch
func (s *UsageService) FinishRun(runID, processed, completed, characters int) error {
	query := `
		UPDATE runs
		SET finished_at = ?, processed = ?, completed = ?, characters = ?
		WHERE id = ?
	`
	_, err := s.db.Exec(query, time.Now(), processed, completed, characters, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", runID, err)
	}
	return nil
}

// RecordSynthesis stores one produced file
func (s *UsageService) RecordSynthesis(ctx context.Context, synthesis models.Synthesis) error {
	if synthesis.CreatedAt.IsZero() {
		synthesis.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO syntheses (run_id, name, path, voice, engine, language, output_format, characters, prepended, created_at)
		VALUES (:run_id, :name, :path, :voice, :engine, :language, :output_format, :characters, :prepended, :created_at)
	`
	if _, err := s.db.NamedExecContext(ctx, query, synthesis); err != nil {
		return fmt.Errorf("failed to record synthesis of %q: %w", synthesis.Name, err)
	}
	return nil
}

// GetRun retrieves a run by its ID
func (s *UsageService) GetRun(runID int) (*models.Run, error) {
	var run models.Run
	query := `SELECT id, input_path, provider, started_at, finished_at, processed, completed, characters
			  FROM runs WHERE id = ?`

	err := s.db.Get(&run, query, runID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &run, nil
}

// ListSyntheses returns the files produced by a run in creation order
func (s *UsageService) ListSyntheses(runID int) ([]models.Synthesis, error) {
	var out []models.Synthesis
	query := `SELECT id, run_id, name, path, voice, engine, language, output_format, characters, prepended, created_at
			  FROM syntheses WHERE run_id = ? ORDER BY id`

	if err := s.db.Select(&out, query, runID); err != nil {
		return nil, fmt.Errorf("failed to list syntheses: %w", err)
	}
	return out, nil
}

// Totals aggregates every run in the ledger
func (s *UsageService) Totals() (*models.UsageTotals, error) {
	var totals models.UsageTotals
	query := `
		SELECT
			(SELECT COUNT(*) FROM runs) AS runs,
			(SELECT COUNT(*) FROM syntheses) AS files,
			(SELECT COALESCE(SUM(characters), 0) FROM syntheses) AS characters
	`
	if err := s.db.Get(&totals, query); err != nil {
		return nil, fmt.Errorf("failed to get usage totals: %w", err)
	}
	return &totals, nil
}

// RunRecorder stamps every recorded synthesis with a fixed run ID
type RunRecorder struct {
	usage *UsageService
	runID int
}

func (s *UsageService) ForRun(runID int) *RunRecorder {
	return &RunRecorder{usage: s, runID: runID}
}

func (r *RunRecorder) RecordSynthesis(ctx context.Context, synthesis models.Synthesis) error {
	synthesis.RunID = r.runID
	return r.usage.RecordSynthesis(ctx, synthesis)
}
