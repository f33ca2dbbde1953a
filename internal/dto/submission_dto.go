package dto

import "time"

// --- Public Portal Submission ---

type SubmissionItem struct {
	Name     string  `json:"name" validate:"required"`
	Sku      string  `json:"sku"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"required,min=0"`
}

type SubmissionRequest struct {
	Type          string            `json:"type" validate:"required,oneof=exchange return refund"`
	CustomerName  string            `json:"customer_name" validate:"required"`
	CustomerEmail string            `json:"customer_email" validate:"required,email"`
	OrderCode     string            `json:"order_code" validate:"required"`
	OrderDate     string            `json:"order_date" validate:"required"` // 2006-01-02
	Reason        string            `json:"reason" validate:"required"`
	Method        string            `json:"method"` // refunds only
	Amount        float64           `json:"amount" validate:"min=0"`
	Notes         string            `json:"notes"`
	Items         []SubmissionItem  `json:"items"`
	Attachments   []string          `json:"attachments"` // uploaded file refs
	FormValues    map[string]string `json:"form_values"` // store's custom fields
}

type SubmissionResponse struct {
	Protocol    string   `json:"protocol"`
	Status      string   `json:"status"`
	StatusLabel string   `json:"status_label"`
	Message     string   `json:"message"`
	Warnings    []string `json:"warnings,omitempty"`
}

// TrackingResponse is the public, unauthenticated view of a request. It
// deliberately omits amounts and customer data.
type TrackingResponse struct {
	Protocol    string                  `json:"protocol"`
	Type        string                  `json:"type"`
	Status      string                  `json:"status"`
	StatusLabel string                  `json:"status_label"`
	CreatedAt   time.Time               `json:"created_at"`
	Timeline    []TimelineEventResponse `json:"timeline"`
}

// EligibilityRejection is the structured "valid verdict" body returned
// when the request is ineligible; not an error in the system sense.
type EligibilityRejection struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
}
