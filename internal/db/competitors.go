package db

import (
	"context"
	"fmt"

	"github.com/jonathan/brandscope/internal/types"
)

// SaveCompetitors replaces a session's competitor list.
func (db *DB) SaveCompetitors(ctx context.Context, sessionID string, competitors []string) error {
	if _, err := db.pool.Exec(ctx,
		`DELETE FROM competitors WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to clear competitors: %w", err)
	}
	for i, name := range competitors {
		if _, err := db.pool.Exec(ctx,
			`INSERT INTO competitors (session_id, competitor_name, rank) VALUES ($1, $2, $3)`,
			sessionID, name, i+1,
		); err != nil {
			return fmt.Errorf("failed to save competitor: %w", err)
		}
	}
	return nil
}

// SessionCompetitors retrieves a session's competitors in rank order.
func (db *DB) SessionCompetitors(ctx context.Context, sessionID string) ([]types.Competitor, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT competitor_name, rank FROM competitors
		 WHERE session_id = $1 ORDER BY rank`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get competitors: %w", err)
	}
	defer rows.Close()

	var competitors []types.Competitor
	for rows.Next() {
		var c types.Competitor
		if err := rows.Scan(&c.Name, &c.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		competitors = append(competitors, c)
	}
	return competitors, nil
}

// CompetitorsForBrand collects distinct competitor names across a
// brand's past sessions in rank order, up to limit. Used as the
// re-analysis fallback when fresh research yields nothing.
func (db *DB) CompetitorsForBrand(ctx context.Context, brandName string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT c.competitor_name, MIN(c.rank) AS best_rank
		 FROM competitors c
		 JOIN analysis_sessions s ON c.session_id = s.session_id
		 WHERE s.brand_name = $1
		 GROUP BY c.competitor_name
		 ORDER BY best_rank
		 LIMIT $2`,
		brandName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get competitors for brand: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		var rank int
		if err := rows.Scan(&name, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		names = append(names, name)
	}
	return names, nil
}
