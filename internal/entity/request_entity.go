package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reversa-be/pkg/lifecycle"
)

// RequestOrigin distinguishes operator-created records from anonymous
// public-portal submissions.
type RequestOrigin string

const (
	OriginInternal RequestOrigin = "internal"
	OriginPublic   RequestOrigin = "public"
)

// Request is a customer-initiated exchange, return or refund case.
// Status mutations must always go through the request service so the
// timeline event and the status column move together; writing Status
// directly is an invariant violation.
type Request struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Protocol       string           `gorm:"type:varchar(20);not null;index:idx_requests_store_protocol,unique,composite:store_id"`
	Type           lifecycle.Type   `gorm:"type:varchar(20);not null"`
	Status         lifecycle.Status `gorm:"type:varchar(30);not null;default:'new'"`
	CustomerName   string           `gorm:"type:varchar(255);not null"`
	CustomerEmail  string           `gorm:"type:varchar(255);not null"`
	OrderCode      string           `gorm:"type:varchar(100);not null"`
	Reason         string           `gorm:"type:varchar(100)"`
	Notes          string           `gorm:"type:text"`
	Amount         float64          `gorm:"type:decimal(12,2);not null"`
	ApprovedAmount *float64         `gorm:"type:decimal(12,2)"`
	Currency       string           `gorm:"type:varchar(3);default:'BRL'"`
	Method         lifecycle.RefundMethod `gorm:"type:varchar(20)"` // refunds only
	RiskScore      int              `gorm:"not null;default:0"`
	Origin         RequestOrigin    `gorm:"type:varchar(20);not null;default:'internal'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`

	Store Store         `gorm:"foreignKey:StoreID"`
	Items []RequestItem `gorm:"foreignKey:RequestID"`
}

func (Request) TableName() string {
	return "requests"
}

// RequestItem is an immutable line item of a request, created atomically
// with its parent and never updated after receipt confirmation.
type RequestItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	SKU       string    `gorm:"type:varchar(100)"`
	Quantity  int       `gorm:"not null;default:1"`
	Price     float64   `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

func (RequestItem) TableName() string {
	return "request_items"
}
