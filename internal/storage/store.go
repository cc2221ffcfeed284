// Package storage keeps a SQLite ledger of runs and the questions they
// extracted.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/spherical/textbook-extractor/internal/domain"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("record not found")

// Fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	kind             TEXT NOT NULL,
	source           TEXT NOT NULL,
	status           TEXT NOT NULL,
	started_at       TEXT NOT NULL,
	finished_at      TEXT,
	output_path      TEXT NOT NULL DEFAULT '',
	vision_calls     INTEGER NOT NULL DEFAULT 0,
	generative_calls INTEGER NOT NULL DEFAULT 0,
	pages            INTEGER NOT NULL DEFAULT 0,
	error            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS questions (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	source        TEXT NOT NULL,
	number        TEXT NOT NULL,
	page_number   INTEGER NOT NULL,
	chapter       TEXT NOT NULL,
	question_type TEXT NOT NULL,
	question_text TEXT NOT NULL,
	answer        TEXT NOT NULL,
	status        TEXT NOT NULL,
	payload       TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_questions_run ON questions(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Store is the SQLite run ledger.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, domain.IOError("open database", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, domain.IOError("apply schema", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun records a new running run and returns it.
func (s *Store) StartRun(ctx context.Context, kind RunKind, source string) (*Run, error) {
	run := &Run{
		ID:        uuid.New(),
		Kind:      kind,
		Source:    source,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO runs (id, kind, source, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID.String(), string(run.Kind), run.Source, string(run.Status), run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, domain.IOError("insert run", err)
	}
	return run, nil
}

// FinishRun stores the final state of run. A nil runErr marks it completed.
func (s *Store) FinishRun(ctx context.Context, run *Run, runErr error) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = RunStatusCompleted
	if runErr != nil {
		run.Status = RunStatusFailed
		run.Error = runErr.Error()
	}

	query := `
		UPDATE runs
		SET status = ?, finished_at = ?, output_path = ?, vision_calls = ?,
		    generative_calls = ?, pages = ?, error = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		string(run.Status), now.Format(timeLayout), run.OutputPath, run.VisionCalls,
		run.GenerativeCalls, run.Pages, run.Error, run.ID.String(),
	)
	if err != nil {
		return domain.IOError("update run", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, kind, source, status, started_at, finished_at, output_path,
		       vision_calls, generative_calls, pages, error
		FROM runs WHERE id = ?
	`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, kind, source, status, started_at, finished_at, output_path,
		       vision_calls, generative_calls, pages, error
		FROM runs ORDER BY started_at DESC LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, domain.IOError("list runs", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run              Run
		id, kind, status string
		startedAt        string
		finishedAt       sql.NullString
	)
	err := row.Scan(&id, &kind, &run.Source, &status, &startedAt, &finishedAt, &run.OutputPath,
		&run.VisionCalls, &run.GenerativeCalls, &run.Pages, &run.Error)
	if err != nil {
		return nil, err
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, domain.ParseError("run id", err)
	}
	run.Kind = RunKind(kind)
	run.Status = RunStatus(status)
	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, domain.ParseError("run started_at", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return nil, domain.ParseError("run finished_at", err)
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

// SaveQuestions stores records under runID in one transaction. Each record
// keeps its full JSON form next to the indexed columns.
func SaveQuestions[Q domain.Question](ctx context.Context, s *Store, runID uuid.UUID, records []Q) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.IOError("begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (id, run_id, source, number, page_number, chapter, question_type,
		                       question_text, answer, status, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return domain.IOError("prepare insert", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeLayout)
	for _, q := range records {
		payload, err := json.Marshal(q)
		if err != nil {
			return domain.ConversionError("encode question", err)
		}
		base := q.Base()
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(), runID.String(), string(base.Source), q.Number(), base.PageNumber,
			base.Chapter, q.TypeLabel(), q.Text(), base.Answer, string(base.Status), string(payload), now,
		)
		if err != nil {
			return domain.IOError(fmt.Sprintf("insert question %s", q.Number()), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.IOError("commit questions", err)
	}
	return nil
}

// QuestionsByRun returns the questions stored for runID in insertion order.
func (s *Store) QuestionsByRun(ctx context.Context, runID uuid.UUID) ([]*StoredQuestion, error) {
	query := `
		SELECT id, run_id, source, number, page_number, chapter, question_type,
		       question_text, answer, status, payload, created_at
		FROM questions WHERE run_id = ? ORDER BY rowid
	`
	rows, err := s.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, domain.IOError("list questions", err)
	}
	defer rows.Close()

	var out []*StoredQuestion
	for rows.Next() {
		var (
			q                  StoredQuestion
			id, run, createdAt string
		)
		if err := rows.Scan(&id, &run, &q.Source, &q.Number, &q.PageNumber, &q.Chapter, &q.QuestionType,
			&q.QuestionText, &q.Answer, &q.Status, &q.Payload, &createdAt); err != nil {
			return nil, err
		}
		if q.ID, err = uuid.Parse(id); err != nil {
			return nil, domain.ParseError("question id", err)
		}
		if q.RunID, err = uuid.Parse(run); err != nil {
			return nil, domain.ParseError("question run id", err)
		}
		if q.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, domain.ParseError("question created_at", err)
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}
