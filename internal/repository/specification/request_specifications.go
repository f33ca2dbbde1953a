package specification

import (
	"gorm.io/gorm"

	"reversa-be/pkg/lifecycle"
)

// ByStatus filters requests by status code.
type ByStatus struct {
	Status lifecycle.Status
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByType filters requests by classification.
type ByType struct {
	Type lifecycle.Type
}

func (s ByType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

// ByProtocol filters by the human-shareable code.
type ByProtocol struct {
	Protocol string
}

func (s ByProtocol) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("protocol = ?", s.Protocol)
}
