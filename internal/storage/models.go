package storage

import (
	"time"

	"github.com/google/uuid"
)

// RunKind names the command that produced a run.
type RunKind string

const (
	RunKindProcess   RunKind = "process"
	RunKindExamples  RunKind = "examples"
	RunKindExercises RunKind = "exercises"
)

// RunStatus represents the lifecycle of a run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one command execution recorded in the ledger.
type Run struct {
	ID              uuid.UUID
	Kind            RunKind
	Source          string
	Status          RunStatus
	StartedAt       time.Time
	FinishedAt      *time.Time
	OutputPath      string
	VisionCalls     int
	GenerativeCalls int
	Pages           int
	Error           string
}

// StoredQuestion is an extracted question awaiting review.
type StoredQuestion struct {
	ID           uuid.UUID
	RunID        uuid.UUID
	Source       string
	Number       string
	PageNumber   int
	Chapter      string
	QuestionType string
	QuestionText string
	Answer       string
	Status       string
	Payload      string // full record as JSON
	CreatedAt    time.Time
}
