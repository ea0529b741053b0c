package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var errCharacterEncode = errors.New("failed to encode character state")

// SaveCharacter stores state as the single character document.
func (s *Store) SaveCharacter(ctx context.Context, state any) error {
	body, err := json.Marshal(state)
	if err != nil {
		return errors.Join(err, errCharacterEncode)
	}

	const query = `
		INSERT INTO character_state (id, state_json, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET state_json = excluded.state_json, updated_at = excluded.updated_at`

	if _, errExec := s.db.ExecContext(ctx, query, string(body)); errExec != nil {
		return errors.Join(errExec, ErrQuery)
	}

	return nil
}

// LoadCharacter decodes the character document into state. found is false
// when nothing was saved yet.
func (s *Store) LoadCharacter(ctx context.Context, state any) (bool, error) {
	var body string

	if err := s.db.QueryRowContext(ctx, "SELECT state_json FROM character_state WHERE id = 1").Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, errors.Join(err, ErrQuery)
	}

	if err := json.Unmarshal([]byte(body), state); err != nil {
		return false, errors.Join(err, errCharacterEncode)
	}

	return true, nil
}
