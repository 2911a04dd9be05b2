package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/brandscope/internal/types"
)

// SaveResponse stores one backend response for a session.
func (db *DB) SaveResponse(ctx context.Context, sessionID string, res types.BackendResult) error {
	var citationsJSON []byte
	var err error
	if len(res.Citations) > 0 {
		citationsJSON, err = json.Marshal(res.Citations)
		if err != nil {
			return fmt.Errorf("failed to marshal citations: %w", err)
		}
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO backend_responses
		   (id, session_id, prompt_index, backend_name, prompt_text, response_text,
		    citations, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), sessionID, res.PromptIndex, res.BackendName, res.Prompt,
		res.Response, citationsJSON, res.Success, nullIfEmpty(res.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}
	return nil
}

// SessionResponses retrieves every backend response for a session in
// prompt order.
func (db *DB) SessionResponses(ctx context.Context, sessionID string) ([]types.BackendResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT prompt_index, backend_name, prompt_text, response_text, citations,
		        success, error_message
		 FROM backend_responses WHERE session_id = $1
		 ORDER BY prompt_index, backend_name`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	defer rows.Close()

	var results []types.BackendResult
	for rows.Next() {
		var res types.BackendResult
		var citationsJSON []byte
		var errorMessage *string
		if err := rows.Scan(&res.PromptIndex, &res.BackendName, &res.Prompt,
			&res.Response, &citationsJSON, &res.Success, &errorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		if len(citationsJSON) > 0 {
			_ = json.Unmarshal(citationsJSON, &res.Citations)
		}
		if errorMessage != nil {
			res.Error = *errorMessage
		}
		results = append(results, res)
	}
	return results, nil
}

// SessionPrompts recovers the distinct prompts of a session in prompt
// order, for re-analysis.
func (db *DB) SessionPrompts(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT prompt_index, prompt_text
		 FROM backend_responses WHERE session_id = $1
		 ORDER BY prompt_index`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get session prompts: %w", err)
	}
	defer rows.Close()

	var prompts []string
	for rows.Next() {
		var index int
		var prompt string
		if err := rows.Scan(&index, &prompt); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	return prompts, nil
}

// SessionBackends recovers the distinct backend names a session ran
// against.
func (db *DB) SessionBackends(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT backend_name FROM backend_responses
		 WHERE session_id = $1 ORDER BY backend_name`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get session backends: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan backend name: %w", err)
		}
		names = append(names, name)
	}
	return names, nil
}
