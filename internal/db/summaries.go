package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/brandscope/internal/types"
)

// SaveSummary upserts a session's aggregated summary.
func (db *DB) SaveSummary(ctx context.Context, sessionID string, summary types.Summary) error {
	distJSON, err := json.Marshal(summary.ScoreDistribution)
	if err != nil {
		return fmt.Errorf("failed to marshal score distribution: %w", err)
	}
	posDistJSON, err := json.Marshal(summary.PositionDistribution)
	if err != nil {
		return fmt.Errorf("failed to marshal position distribution: %w", err)
	}
	topJSON, err := json.Marshal(summary.TopPrompts)
	if err != nil {
		return fmt.Errorf("failed to marshal top prompts: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO session_summaries
		   (session_id, total_prompts, total_mentions, mention_rate, avg_position,
		    avg_total_score, score_distribution, position_distribution, top_prompts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (session_id) DO UPDATE SET
		   total_prompts = $2, total_mentions = $3, mention_rate = $4, avg_position = $5,
		   avg_total_score = $6, score_distribution = $7, position_distribution = $8,
		   top_prompts = $9`,
		sessionID, summary.TotalPrompts, summary.TotalMentions, summary.MentionRate,
		summary.AvgPosition, summary.AvgTotalScore, distJSON, posDistJSON, topJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

// SessionSummary retrieves a session's summary, or nil when none exists.
func (db *DB) SessionSummary(ctx context.Context, sessionID string) (*types.Summary, error) {
	var summary types.Summary
	var distJSON, posDistJSON, topJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT total_prompts, total_mentions, mention_rate, avg_position,
		        avg_total_score, score_distribution, position_distribution, top_prompts
		 FROM session_summaries WHERE session_id = $1`,
		sessionID,
	).Scan(&summary.TotalPrompts, &summary.TotalMentions, &summary.MentionRate,
		&summary.AvgPosition, &summary.AvgTotalScore, &distJSON, &posDistJSON, &topJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	if len(distJSON) > 0 {
		_ = json.Unmarshal(distJSON, &summary.ScoreDistribution)
	}
	if len(posDistJSON) > 0 {
		_ = json.Unmarshal(posDistJSON, &summary.PositionDistribution)
	}
	if len(topJSON) > 0 {
		_ = json.Unmarshal(topJSON, &summary.TopPrompts)
	}
	return &summary, nil
}
