package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Operator-Side Request Management ---

type RequestListResponse struct {
	Id            uuid.UUID  `json:"id"`
	Protocol      string     `json:"protocol"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	StatusLabel   string     `json:"status_label"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	OrderCode     string     `json:"order_code"`
	Amount        float64    `json:"amount"`
	ApprovedAmount *float64  `json:"approved_amount,omitempty"`
	Method        string     `json:"method,omitempty"`
	RiskScore     int        `json:"risk_score"`
	Origin        string     `json:"origin"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type RequestDetailResponse struct {
	RequestListResponse
	Reason   string                  `json:"reason"`
	Notes    string                  `json:"notes"`
	Items    []RequestItemResponse   `json:"items"`
	Timeline []TimelineEventResponse `json:"timeline"`
}

type RequestItemResponse struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Sku      string    `json:"sku"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
}

type TimelineEventResponse struct {
	Id         uuid.UUID `json:"id"`
	FromStatus *string   `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason,omitempty"`
	ActorId    *string   `json:"actor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// --- Operator Actions ---

type AdvanceRequest struct {
	ToStatus string `json:"to_status" validate:"required"`
	Reason   string `json:"reason"`
}

type ApproveRequest struct {
	ApprovedAmount *float64 `json:"approved_amount"`
	Method         string   `json:"method"` // refunds only
	Notes          string   `json:"notes"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

type RevertRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

type TransitionResponse struct {
	Id          uuid.UUID `json:"id"`
	Protocol    string    `json:"protocol"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	StatusLabel string    `json:"status_label"`
}
