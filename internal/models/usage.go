package models

import (
	"time"
)

// Run is one invocation of the batch converter
type Run struct {
	ID         int        `json:"id" db:"id"`
	InputPath  string     `json:"input_path" db:"input_path"`
	Provider   string     `json:"provider" db:"provider"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at" db:"finished_at"`
	Processed  int        `json:"processed" db:"processed"`
	Completed  int        `json:"completed" db:"completed"`
	Characters int        `json:"characters" db:"characters"` // approximate, raw sentence length
}

// Synthesis is one audio file produced during a run
type Synthesis struct {
	ID           int       `json:"id" db:"id"`
	RunID        int       `json:"run_id" db:"run_id"`
	Name         string    `json:"name" db:"name"`
	Path         string    `json:"path" db:"path"`
	Voice        string    `json:"voice" db:"voice"`
	Engine       string    `json:"engine" db:"engine"`
	Language     string    `json:"language" db:"language"`
	OutputFormat string    `json:"output_format" db:"output_format"`
	Characters   int       `json:"characters" db:"characters"`
	Prepended    bool      `json:"prepended" db:"prepended"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UsageTotals aggregates the whole ledger
type UsageTotals struct {
	Runs       int `json:"runs" db:"runs"`
	Files      int `json:"files" db:"files"`
	Characters int `json:"characters" db:"characters"`
}
