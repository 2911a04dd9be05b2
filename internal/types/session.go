// Package types provides type definitions for structured data used throughout the brandscope system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// Session status values. A session is terminal once it reaches
// StatusCompleted or StatusError.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Session is one end-to-end visibility analysis run for a brand.
type Session struct {
	SessionID    string    `json:"session_id"`
	BrandName    string    `json:"brand_name"`
	ProductName  string    `json:"product_name,omitempty"`
	WebsiteURL   string    `json:"website_url,omitempty"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	CurrentStep  string    `json:"current_step,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Research     *Research `json:"research,omitempty"`
	Keywords     []string  `json:"keywords,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Research holds the market research gathered for a brand before scoring.
type Research struct {
	BrandCategory    string   `json:"brand_category,omitempty"`
	MarketReputation string   `json:"market_reputation,omitempty"`
	ProductInsights  string   `json:"product_insights,omitempty"`
	PricingStructure string   `json:"pricing_structure,omitempty"`
	Trends           string   `json:"trends,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	Competitors      []string `json:"competitors,omitempty"`
}

// NewSessionID derives the session key from the brand, optional product,
// and creation time. The key is opaque to callers but stable in format so
// related sessions sort chronologically.
func NewSessionID(brandName, productName string, t time.Time) string {
	stamp := t.Format("20060102_150405")
	brand := strings.ReplaceAll(brandName, " ", "_")
	if productName != "" {
		product := strings.ReplaceAll(productName, " ", "_")
		return brand + "_" + product + "_" + stamp
	}
	return brand + "_" + stamp
}
