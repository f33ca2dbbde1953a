package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LinkType selects which public flow a policy governs.
type LinkType string

const (
	LinkReturns LinkType = "returns" // exchanges + returns
	LinkRefunds LinkType = "refunds"
)

// PolicyConfig is the per-store, per-link-type rule set read by the
// eligibility validator and the risk engine. Mutated only through the
// policy endpoints; the public flow sees it read-only (and cached).
type PolicyConfig struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID          uuid.UUID `gorm:"type:uuid;not null;index:idx_policies_store_link,unique,composite:link_type"`
	LinkType         LinkType  `gorm:"type:varchar(20);not null;index:idx_policies_store_link,unique,composite:store_id"`
	WindowDays       int       `gorm:"not null;default:7"`
	MinValue         float64   `gorm:"type:decimal(12,2);default:0"`
	AutoApprove      bool      `gorm:"not null;default:false"`
	AutoApproveLimit *float64  `gorm:"type:decimal(12,2)"`
	RequirePhotos    bool      `gorm:"not null;default:false"`
	FormFields       datatypes.JSON `gorm:"type:jsonb"` // []FormField
	Theming          datatypes.JSON `gorm:"type:jsonb"` // opaque to the core
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (PolicyConfig) TableName() string {
	return "policy_configs"
}

// FormField is one entry of the store's custom submission form schema.
// The blob is parsed at the boundary rather than trusted as an open map.
type FormField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Kind     string `json:"kind"` // text, select, number
	Required bool   `json:"required"`
}

// ParseFormFields validates the stored schema blob into typed fields.
func (p *PolicyConfig) ParseFormFields() ([]FormField, error) {
	if len(p.FormFields) == 0 {
		return nil, nil
	}
	var fields []FormField
	if err := json.Unmarshal(p.FormFields, &fields); err != nil {
		return nil, fmt.Errorf("malformed form field schema: %w", err)
	}
	for i, f := range fields {
		if f.Key == "" {
			return nil, fmt.Errorf("form field %d has no key", i)
		}
	}
	return fields, nil
}
