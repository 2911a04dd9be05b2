package types

// BackendResult is the raw outcome of running one prompt against one
// backend. One instance exists per attempted (prompt, backend) pair and
// is immutable once produced. PromptIndex is the stable join key back to
// the originating prompt; it must survive every later stage unchanged.
type BackendResult struct {
	PromptIndex int      `json:"prompt_index"`
	BackendName string   `json:"backend_name"`
	Prompt      string   `json:"prompt"`
	Response    string   `json:"response"`
	Citations   []string `json:"citations,omitempty"`
	Success     bool     `json:"success"`
	Error       string   `json:"error,omitempty"`
}

// Scores holds the four sub-scores and the metrics derived from them for
// one (response, entity) pair.
type Scores struct {
	MentionScore         float64 `json:"mention_score"`
	PositionScore        float64 `json:"position_score"`
	RichnessScore        float64 `json:"richness_score"`
	KeywordScore         float64 `json:"keyword_score"`
	TotalScore           float64 `json:"total_score"`
	NormalizedVisibility float64 `json:"normalized_visibility"`
	AveragePositioning   float64 `json:"average_positioning"`
	WeightedScore        float64 `json:"weighted_score"`
}

// ContextAnalysis describes how an entity is presented within a response.
type ContextAnalysis struct {
	IsMentioned   bool     `json:"is_mentioned"`
	MentionCount  int      `json:"mention_count"`
	Contexts      []string `json:"contexts,omitempty"`
	Position      int      `json:"position"`
	TotalItems    int      `json:"total_items_in_list"`
	InList        bool     `json:"is_in_list"`
	Sentiment     string   `json:"sentiment"`
	KeyAttributes []string `json:"key_attributes,omitempty"`
}

// ScoreRecord joins one BackendResult with the scores computed for a
// single entity (the brand or a competitor) against its response text.
type ScoreRecord struct {
	PromptIndex int             `json:"prompt_index"`
	BackendName string          `json:"backend_name"`
	EntityName  string          `json:"entity_name"`
	Prompt      string          `json:"prompt,omitempty"`
	Response    string          `json:"response,omitempty"`
	Scores      Scores          `json:"scores"`
	Analysis    ContextAnalysis `json:"analysis"`
}

// RankedEntity is one row of the share-of-voice ranking.
//
// NormalizedVisibility starts as the arithmetic mean of the entity's
// per-record visibility and is overwritten with SharePercentage during
// renormalization; both fields are kept so the overwrite stays explicit.
type RankedEntity struct {
	EntityName           string  `json:"entity_name"`
	NormalizedVisibility float64 `json:"normalized_visibility"`
	SharePercentage      float64 `json:"share_percentage"`
	AveragePositioning   float64 `json:"average_positioning"`
	WeightedScore        float64 `json:"weighted_score"`
	TotalMentions        int     `json:"total_mentions"`
	TotalPrompts         int     `json:"total_prompts"`
	MentionRate          float64 `json:"mention_rate"`
	Rank                 int     `json:"rank"`
}

// Competitor is a competitor name with its discovery rank within a session.
type Competitor struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// PromptScore pairs a prompt with its total score for summary reporting.
type PromptScore struct {
	PromptIndex int     `json:"prompt_index"`
	Prompt      string  `json:"prompt"`
	Score       float64 `json:"score"`
}

// Summary aggregates a session's brand score records into headline metrics.
type Summary struct {
	TotalPrompts         int            `json:"total_prompts"`
	TotalMentions        int            `json:"total_mentions"`
	MentionRate          float64        `json:"mention_rate"`
	AvgPosition          float64        `json:"avg_position"`
	AvgTotalScore        float64        `json:"avg_total_score"`
	ScoreDistribution    map[string]int `json:"score_distribution"`
	PositionDistribution map[int]int    `json:"position_distribution"`
	TopPrompts           []PromptScore  `json:"top_prompts"`
}
