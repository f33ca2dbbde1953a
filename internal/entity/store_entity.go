package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is a merchant tenant. Every domain row is scoped to exactly one
// store; there is no cross-store sharing.
type Store struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Store) TableName() string {
	return "stores"
}
