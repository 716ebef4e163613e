package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Draft is one ledger row for a generated post awaiting review.
type Draft struct {
	ID         string
	RunID      int64
	Character  string
	PostType   string
	Location   string
	Encryption string
	Content    string
	Approved   bool
	CreatedAt  *string
}

// Run holds metadata about one batch generation run.
type Run struct {
	ID             int64
	Scene          string
	StartedAt      *string
	PostsGenerated int
	PostsFailed    int
}

// Stats contains aggregate ledger statistics.
type Stats struct {
	Runs           int
	TotalDrafts    int
	ApprovedDrafts int
	PendingDrafts  int
	Characters     int
}

// InsertRun records the start of a batch run and returns its ID.
func (s *Store) InsertRun(scene string) (int64, error) {
	result, err := s.conn.Exec("INSERT INTO runs (scene) VALUES (?)", scene)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun updates a run's generated/failed counts.
func (s *Store) FinishRun(runID int64, generated, failed int) error {
	_, err := s.conn.Exec(
		"UPDATE runs SET posts_generated = ?, posts_failed = ? WHERE id = ?",
		generated, failed, runID,
	)
	return err
}

// InsertDraft records one generated post and returns its draft ID.
func (s *Store) InsertDraft(runID int64, character, postType, location, encryption, content string) (string, error) {
	id := uuid.NewString()
	_, err := s.conn.Exec(
		`INSERT INTO drafts (id, run_id, character, post_type, location, encryption, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, runID, character, postType, location, encryption, content,
	)
	if err != nil {
		return "", fmt.Errorf("inserting draft: %w", err)
	}
	return id, nil
}

// GetDrafts returns drafts ordered by creation time, optionally only
// those still pending review.
func (s *Store) GetDrafts(pendingOnly bool) ([]Draft, error) {
	query := `SELECT id, run_id, character, post_type, location, encryption, content, approved, created_at
		FROM drafts`
	if pendingOnly {
		query += " WHERE approved = 0"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrafts(rows)
}

// GetDraft returns a single draft by ID, or nil if not found.
func (s *Store) GetDraft(id string) (*Draft, error) {
	rows, err := s.conn.Query(
		`SELECT id, run_id, character, post_type, location, encryption, content, approved, created_at
		FROM drafts WHERE id = ?`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drafts, err := scanDrafts(rows)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, nil
	}
	return &drafts[0], nil
}

// ApproveDraft marks a draft as approved.
func (s *Store) ApproveDraft(id string) error {
	result, err := s.conn.Exec("UPDATE drafts SET approved = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("draft %s not found", id)
	}
	return nil
}

// GetStats returns aggregate ledger statistics.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM runs", &stats.Runs},
		{"SELECT COUNT(*) FROM drafts", &stats.TotalDrafts},
		{"SELECT COUNT(*) FROM drafts WHERE approved = 1", &stats.ApprovedDrafts},
		{"SELECT COUNT(*) FROM drafts WHERE approved = 0", &stats.PendingDrafts},
		{"SELECT COUNT(DISTINCT character) FROM drafts", &stats.Characters},
	}
	for _, q := range queries {
		if err := s.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("gathering stats: %w", err)
		}
	}
	return stats, nil
}

func scanDrafts(rows *sql.Rows) ([]Draft, error) {
	var drafts []Draft
	for rows.Next() {
		var d Draft
		var approved int
		if err := rows.Scan(&d.ID, &d.RunID, &d.Character, &d.PostType, &d.Location,
			&d.Encryption, &d.Content, &approved, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Approved = approved != 0
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}
