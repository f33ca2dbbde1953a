package dto

import "encoding/json"

// --- Policy Management ---

type PolicyFormField struct {
	Key      string `json:"key" validate:"required"`
	Label    string `json:"label" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=text select number"`
	Required bool   `json:"required"`
}

type UpsertPolicyRequest struct {
	WindowDays       int               `json:"window_days" validate:"required,min=1,max=365"`
	MinValue         float64           `json:"min_value" validate:"min=0"`
	AutoApprove      bool              `json:"auto_approve"`
	AutoApproveLimit *float64          `json:"auto_approve_limit"`
	RequirePhotos    bool              `json:"require_photos"`
	FormFields       []PolicyFormField `json:"form_fields" validate:"dive"`
	Theming          json.RawMessage   `json:"theming"`
}

type PolicyResponse struct {
	LinkType         string            `json:"link_type"`
	WindowDays       int               `json:"window_days"`
	MinValue         float64           `json:"min_value"`
	AutoApprove      bool              `json:"auto_approve"`
	AutoApproveLimit *float64          `json:"auto_approve_limit,omitempty"`
	RequirePhotos    bool              `json:"require_photos"`
	FormFields       []PolicyFormField `json:"form_fields,omitempty"`
	Theming          json.RawMessage   `json:"theming,omitempty"`
}
