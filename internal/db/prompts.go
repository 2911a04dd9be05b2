package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SavePrompts upserts the prompt list for a (brand, product) pair.
// Last write wins: a later save fully replaces the earlier list.
func (db *DB) SavePrompts(ctx context.Context, brandName, productName string, prompts []string) error {
	promptsJSON, err := json.Marshal(prompts)
	if err != nil {
		return fmt.Errorf("failed to marshal prompts: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO saved_prompts (brand_name, product_name, prompts, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (brand_name, product_name)
		 DO UPDATE SET prompts = $3, updated_at = NOW()`,
		brandName, productName, promptsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save prompts: %w", err)
	}
	return nil
}

// SavedPrompts retrieves the stored prompt list for a (brand, product)
// pair, or nil when none has been saved.
func (db *DB) SavedPrompts(ctx context.Context, brandName, productName string) ([]string, error) {
	var promptsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT prompts FROM saved_prompts
		 WHERE brand_name = $1 AND product_name = $2`,
		brandName, productName,
	).Scan(&promptsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get saved prompts: %w", err)
	}

	var prompts []string
	if err := json.Unmarshal(promptsJSON, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse saved prompts: %w", err)
	}
	return prompts, nil
}
