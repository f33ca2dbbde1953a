package entity

import (
	"time"

	"github.com/google/uuid"
)

// SummaryRow is one computed revenue KPI row for a store and period,
// written by the external sync pipeline and read by the dashboard.
type SummaryRow struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`
	Metric      string    `gorm:"type:varchar(100);not null"` // revenue, orders, ad_spend, roas
	Value       float64   `gorm:"type:decimal(14,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SummaryRow) TableName() string {
	return "summary_rows"
}

// ChannelRevenue is aggregated attribution revenue per marketing channel
// for a store and period.
type ChannelRevenue struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`
	Channel     string    `gorm:"type:varchar(100);not null"` // google, meta, organic, ...
	Revenue     float64   `gorm:"type:decimal(14,2);not null"`
	Orders      int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ChannelRevenue) TableName() string {
	return "channel_revenue"
}

// IntegrationCredential stores the OAuth material connecting a store to
// the external commerce/marketing platform the sync pipeline pulls from.
type IntegrationCredential struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Provider     string    `gorm:"type:varchar(50);not null"`
	AccessToken  string    `gorm:"type:text;not null"`
	RefreshToken string    `gorm:"type:text"`
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (IntegrationCredential) TableName() string {
	return "integration_credentials"
}
