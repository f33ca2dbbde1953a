package specification

import (
	"time"

	"gorm.io/gorm"
)

// NonTerminal keeps sync jobs still in flight (QUEUED or PROCESSING).
type NonTerminal struct{}

func (s NonTerminal) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", []string{"QUEUED", "PROCESSING"})
}

// StartedBefore keeps jobs whose started_at is older than the cutoff.
type StartedBefore struct {
	Cutoff time.Time
}

func (s StartedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("started_at < ?", s.Cutoff)
}

// ByPeriod matches the exact scope-key period (date granularity).
type ByPeriod struct {
	Start time.Time
	End   time.Time
}

func (s ByPeriod) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("period_start = ? AND period_end = ?",
		s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
}
