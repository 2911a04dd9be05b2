package types

import (
	"github.com/go-playground/validator/v10"
)

// AnalysisRequest is the request body for starting a new analysis session.
type AnalysisRequest struct {
	BrandName         string   `json:"brand_name" validate:"required"`
	ProductName       string   `json:"product_name,omitempty"`
	WebsiteURL        string   `json:"website_url,omitempty" validate:"omitempty,url"`
	NumPrompts        int      `json:"num_prompts,omitempty" validate:"omitempty,min=1,max=50"`
	Backends          []string `json:"backends" validate:"required,min=1,dive,required"`
	RegeneratePrompts bool     `json:"regenerate_prompts,omitempty"`
}

// Validate validates the AnalysisRequest using the validator.
func (r *AnalysisRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
