package snapshot

import (
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// SQLiteStore is the durable snapshot store. Every error is logged and
// swallowed: the resume feature is best-effort and must never block the
// wizard.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(applicationID string, stepID int) (json.RawMessage, bool) {
	var snap []byte
	err := s.db.QueryRow(
		"SELECT snapshot FROM step_snapshots WHERE application_id = ? AND step_id = ?",
		applicationID, stepID,
	).Scan(&snap)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("applicationId", applicationID).Int("stepId", stepID).Msg("Failed to read step snapshot")
		return nil, false
	}
	return snap, true
}

func (s *SQLiteStore) Set(applicationID string, stepID int, snap json.RawMessage) {
	_, err := s.db.Exec(
		`INSERT INTO step_snapshots (application_id, step_id, snapshot, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(application_id, step_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		applicationID, stepID, []byte(snap), time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("applicationId", applicationID).Int("stepId", stepID).Msg("Failed to write step snapshot")
	}
}

func (s *SQLiteStore) GetAll(applicationID string) map[int]json.RawMessage {
	out := make(map[int]json.RawMessage)
	rows, err := s.db.Query(
		"SELECT step_id, snapshot FROM step_snapshots WHERE application_id = ?",
		applicationID,
	)
	if err != nil {
		log.Warn().Err(err).Str("applicationId", applicationID).Msg("Failed to list step snapshots")
		return out
	}
	defer rows.Close()

	for rows.Next() {
		var stepID int
		var snap []byte
		if err := rows.Scan(&stepID, &snap); err != nil {
			log.Warn().Err(err).Msg("Failed to scan step snapshot row")
			continue
		}
		out[stepID] = snap
	}
	if err := rows.Err(); err != nil {
		log.Warn().Err(err).Msg("Failed iterating step snapshot rows")
	}
	return out
}

func (s *SQLiteStore) SavePosition(applicationID string, step int) {
	_, err := s.db.Exec(
		`INSERT INTO step_positions (application_id, current_step, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(application_id) DO UPDATE SET current_step = excluded.current_step, updated_at = excluded.updated_at`,
		applicationID, step, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("applicationId", applicationID).Msg("Failed to save step position")
	}
}

func (s *SQLiteStore) LoadPosition(applicationID string) (int, bool) {
	var step int
	err := s.db.QueryRow(
		"SELECT current_step FROM step_positions WHERE application_id = ?",
		applicationID,
	).Scan(&step)
	if err == sql.ErrNoRows {
		return 0, false
	}
	if err != nil {
		log.Warn().Err(err).Str("applicationId", applicationID).Msg("Failed to load step position")
		return 0, false
	}
	return step, true
}
