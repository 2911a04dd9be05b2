package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/brandscope/internal/types"
)

// SaveScoreRecord stores one entity score record for a session.
func (db *DB) SaveScoreRecord(ctx context.Context, sessionID string, rec types.ScoreRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO score_records
		   (id, session_id, prompt_index, backend_name, entity_name,
		    mention_score, position_score, richness_score, keyword_score, total_score,
		    normalized_visibility, average_positioning, weighted_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		uuid.New(), sessionID, rec.PromptIndex, rec.BackendName, rec.EntityName,
		rec.Scores.MentionScore, rec.Scores.PositionScore, rec.Scores.RichnessScore,
		rec.Scores.KeywordScore, rec.Scores.TotalScore, rec.Scores.NormalizedVisibility,
		rec.Scores.AveragePositioning, rec.Scores.WeightedScore,
	)
	if err != nil {
		return fmt.Errorf("failed to save score record: %w", err)
	}
	return nil
}

// SessionScores retrieves an entity's score records for a session.
func (db *DB) SessionScores(ctx context.Context, sessionID, entityName string) ([]types.ScoreRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT prompt_index, backend_name, entity_name,
		        mention_score, position_score, richness_score, keyword_score, total_score,
		        normalized_visibility, average_positioning, weighted_score
		 FROM score_records WHERE session_id = $1 AND entity_name = $2
		 ORDER BY prompt_index, backend_name`,
		sessionID, entityName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get score records: %w", err)
	}
	defer rows.Close()

	var records []types.ScoreRecord
	for rows.Next() {
		var rec types.ScoreRecord
		if err := rows.Scan(&rec.PromptIndex, &rec.BackendName, &rec.EntityName,
			&rec.Scores.MentionScore, &rec.Scores.PositionScore, &rec.Scores.RichnessScore,
			&rec.Scores.KeywordScore, &rec.Scores.TotalScore, &rec.Scores.NormalizedVisibility,
			&rec.Scores.AveragePositioning, &rec.Scores.WeightedScore); err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
