package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/brandscope/internal/types"
)

// CreateSession inserts a new analysis session row.
func (db *DB) CreateSession(ctx context.Context, s *types.Session) error {
	var researchJSON, keywordsJSON []byte
	var err error
	if s.Research != nil {
		researchJSON, err = json.Marshal(s.Research)
		if err != nil {
			return fmt.Errorf("failed to marshal research: %w", err)
		}
	}
	if len(s.Keywords) > 0 {
		keywordsJSON, err = json.Marshal(s.Keywords)
		if err != nil {
			return fmt.Errorf("failed to marshal keywords: %w", err)
		}
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analysis_sessions
		   (session_id, brand_name, product_name, website_url, research, keywords,
		    status, progress, current_step, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.SessionID, s.BrandName, nullIfEmpty(s.ProductName), nullIfEmpty(s.WebsiteURL),
		researchJSON, keywordsJSON, s.Status, s.Progress, nullIfEmpty(s.CurrentStep),
		nullIfEmpty(s.ErrorMessage), s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// UpdateSessionStatus updates a session's status, progress, step, and
// error message.
func (db *DB) UpdateSessionStatus(ctx context.Context, sessionID, status string, progress int, currentStep, errorMessage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE analysis_sessions
		 SET status = $1, progress = $2, current_step = $3, error_message = $4
		 WHERE session_id = $5`,
		status, progress, nullIfEmpty(currentStep), nullIfEmpty(errorMessage), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	return nil
}

// UpdateSessionResearch stores the research and keywords gathered during
// a run.
func (db *DB) UpdateSessionResearch(ctx context.Context, sessionID string, research *types.Research, keywords []string) error {
	researchJSON, err := json.Marshal(research)
	if err != nil {
		return fmt.Errorf("failed to marshal research: %w", err)
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE analysis_sessions SET research = $1, keywords = $2 WHERE session_id = $3`,
		researchJSON, keywordsJSON, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session research: %w", err)
	}
	return nil
}

// SessionByID retrieves one session, or nil when no row exists.
func (db *DB) SessionByID(ctx context.Context, sessionID string) (*types.Session, error) {
	var s types.Session
	var productName, websiteURL, currentStep, errorMessage *string
	var researchJSON, keywordsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT session_id, brand_name, product_name, website_url, research, keywords,
		        status, progress, current_step, error_message, created_at
		 FROM analysis_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&s.SessionID, &s.BrandName, &productName, &websiteURL, &researchJSON,
		&keywordsJSON, &s.Status, &s.Progress, &currentStep, &errorMessage, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if productName != nil {
		s.ProductName = *productName
	}
	if websiteURL != nil {
		s.WebsiteURL = *websiteURL
	}
	if currentStep != nil {
		s.CurrentStep = *currentStep
	}
	if errorMessage != nil {
		s.ErrorMessage = *errorMessage
	}
	if len(researchJSON) > 0 {
		_ = json.Unmarshal(researchJSON, &s.Research)
	}
	if len(keywordsJSON) > 0 {
		_ = json.Unmarshal(keywordsJSON, &s.Keywords)
	}
	return &s, nil
}

// ListSessions retrieves recent sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, limit int) ([]types.Session, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.pool.Query(ctx,
		`SELECT session_id, brand_name, product_name, website_url, status, progress,
		        current_step, error_message, created_at
		 FROM analysis_sessions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// SessionsForBrand retrieves a brand's sessions, newest first.
func (db *DB) SessionsForBrand(ctx context.Context, brandName string, limit int) ([]types.Session, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.pool.Query(ctx,
		`SELECT session_id, brand_name, product_name, website_url, status, progress,
		        current_step, error_message, created_at
		 FROM analysis_sessions WHERE brand_name = $1
		 ORDER BY created_at DESC LIMIT $2`,
		brandName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for brand: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ListBrands retrieves the distinct brand names that have sessions.
func (db *DB) ListBrands(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT brand_name FROM analysis_sessions ORDER BY brand_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, name)
	}
	return brands, nil
}

func scanSessions(rows pgx.Rows) ([]types.Session, error) {
	var sessions []types.Session
	for rows.Next() {
		var s types.Session
		var productName, websiteURL, currentStep, errorMessage *string
		if err := rows.Scan(&s.SessionID, &s.BrandName, &productName, &websiteURL,
			&s.Status, &s.Progress, &currentStep, &errorMessage, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if productName != nil {
			s.ProductName = *productName
		}
		if websiteURL != nil {
			s.WebsiteURL = *websiteURL
		}
		if currentStep != nil {
			s.CurrentStep = *currentStep
		}
		if errorMessage != nil {
			s.ErrorMessage = *errorMessage
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// nullIfEmpty converts empty strings to NULL for optional columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
