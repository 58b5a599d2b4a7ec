// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists finished briefs and per-user conversation
// history. Implements: prd008-persistence (R1-R4);
//
//	docs/ARCHITECTURE § Persistence.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/brief-engine/pkg/types"
)

const (
	dbFile            = "briefs.db"
	defaultMaxHistory = 10
)

// Store manages the brief archive SQLite database.
type Store struct {
	db         *sql.DB
	maxHistory int
}

// NewStore opens or creates the database at dataDir/briefs.db, creating
// the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}

	s := &Store{db: db, maxHistory: maxHistory}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS briefs (
			request_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			depth TEXT NOT NULL,
			confidence REAL,
			source_count INTEGER,
			brief_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_briefs_user_id ON briefs(user_id)`,
		`CREATE TABLE IF NOT EXISTS conversation_history (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			query TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user_id ON conversation_history(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveBrief archives a finished brief for a user. The full brief is
// stored as JSON alongside queryable columns.
func (s *Store) SaveBrief(userID string, brief *types.FinalBrief) error {
	data, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("marshaling brief: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO briefs
			(request_id, user_id, topic, depth, confidence, source_count, brief_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		brief.RequestID, userID, brief.Topic, string(brief.ResearchDepth),
		brief.ConfidenceScore, brief.SourceCount, string(data),
		brief.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting brief: %w", err)
	}
	return nil
}

// BriefByRequestID returns the archived brief for a request ID.
func (s *Store) BriefByRequestID(requestID string) (*types.FinalBrief, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT brief_json FROM briefs WHERE request_id = ?`, requestID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("brief %s not found", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying brief: %w", err)
	}

	var brief types.FinalBrief
	if err := json.Unmarshal([]byte(data), &brief); err != nil {
		return nil, fmt.Errorf("unmarshaling brief: %w", err)
	}
	return &brief, nil
}

// BriefRecord is one row of the user's brief archive listing.
type BriefRecord struct {
	RequestID   string
	Topic       string
	Depth       string
	Confidence  float64
	SourceCount int
	CreatedAt   time.Time
}

// UserBriefs lists a user's archived briefs, newest first.
func (s *Store) UserBriefs(userID string, limit int) ([]BriefRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT request_id, topic, depth, confidence, source_count, created_at
		FROM briefs WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying briefs: %w", err)
	}
	defer rows.Close()

	var records []BriefRecord
	for rows.Next() {
		var r BriefRecord
		var created string
		if err := rows.Scan(&r.RequestID, &r.Topic, &r.Depth, &r.Confidence, &r.SourceCount, &created); err != nil {
			return nil, fmt.Errorf("scanning brief row: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveExchange records one query/response pair in the user's history.
func (s *Store) SaveExchange(userID, query, response string) error {
	_, err := s.db.Exec(
		`INSERT INTO conversation_history (user_id, query, response, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, query, response, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting exchange: %w", err)
	}
	return nil
}

// History returns the user's most recent exchanges in chronological
// order, capped at limit (or the store default when limit is zero).
func (s *Store) History(userID string, limit int) ([]types.ConversationTurn, error) {
	if limit <= 0 {
		limit = s.maxHistory
	}

	rows, err := s.db.Query(
		`SELECT query, response FROM (
			SELECT rowid, query, response FROM conversation_history
			WHERE user_id = ? ORDER BY rowid DESC LIMIT ?
		) ORDER BY rowid ASC`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var turns []types.ConversationTurn
	for rows.Next() {
		var t types.ConversationTurn
		if err := rows.Scan(&t.Query, &t.Response); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Analytics summarizes the archive contents.
type Analytics struct {
	BriefCount    int
	UserCount     int
	ExchangeCount int
	AvgConfidence float64
}

// Stats computes archive-wide analytics.
func (s *Store) Stats() (Analytics, error) {
	var a Analytics

	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT user_id), COALESCE(AVG(confidence), 0) FROM briefs`,
	).Scan(&a.BriefCount, &a.UserCount, &a.AvgConfidence)
	if err != nil {
		return Analytics{}, fmt.Errorf("querying brief stats: %w", err)
	}

	err = s.db.QueryRow(`SELECT COUNT(*) FROM conversation_history`).Scan(&a.ExchangeCount)
	if err != nil {
		return Analytics{}, fmt.Errorf("querying history stats: %w", err)
	}

	return a, nil
}
