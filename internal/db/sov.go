package db

import (
	"context"
	"fmt"

	"github.com/jonathan/brandscope/internal/types"
)

// SaveShareOfVoice replaces a session's share-of-voice ranking.
func (db *DB) SaveShareOfVoice(ctx context.Context, sessionID string, entities []types.RankedEntity) error {
	if _, err := db.pool.Exec(ctx,
		`DELETE FROM share_of_voice WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to clear share of voice: %w", err)
	}
	for _, e := range entities {
		if _, err := db.pool.Exec(ctx,
			`INSERT INTO share_of_voice
			   (session_id, entity_name, normalized_visibility, share_percentage,
			    average_positioning, weighted_score, total_mentions, total_prompts,
			    mention_rate, rank)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			sessionID, e.EntityName, e.NormalizedVisibility, e.SharePercentage,
			e.AveragePositioning, e.WeightedScore, e.TotalMentions, e.TotalPrompts,
			e.MentionRate, e.Rank,
		); err != nil {
			return fmt.Errorf("failed to save share of voice row: %w", err)
		}
	}
	return nil
}

// SessionShareOfVoice retrieves a session's ranking in rank order.
func (db *DB) SessionShareOfVoice(ctx context.Context, sessionID string) ([]types.RankedEntity, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT entity_name, normalized_visibility, share_percentage, average_positioning,
		        weighted_score, total_mentions, total_prompts, mention_rate, rank
		 FROM share_of_voice WHERE session_id = $1 ORDER BY rank`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get share of voice: %w", err)
	}
	defer rows.Close()

	var entities []types.RankedEntity
	for rows.Next() {
		var e types.RankedEntity
		if err := rows.Scan(&e.EntityName, &e.NormalizedVisibility, &e.SharePercentage,
			&e.AveragePositioning, &e.WeightedScore, &e.TotalMentions, &e.TotalPrompts,
			&e.MentionRate, &e.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan share of voice row: %w", err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}
