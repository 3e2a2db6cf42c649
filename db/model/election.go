package model

import (
	"time"

	"gorm.io/gorm"
)

type Election struct {
	Id          int64   `gorm:"NOT NULL"`
	LedgerId    *uint64 `gorm:"uniqueIndex:idx_ledger_id"` // nil until mirrored from the ledger
	Title       string  `gorm:"NOT NULL"`
	Description string  `gorm:"NOT NULL"`
	StartTime   int64   `gorm:"NOT NULL"`
	EndTime     int64   `gorm:"NOT NULL"`
	IsActive    bool    `gorm:"NOT NULL"`
	TxHash      string
	CreatedBy   string `gorm:"NOT NULL"`
	CreatedTime int64  `gorm:"NOT NULL"`
}

func (*Election) TableName() string {
	return "elections"
}

func InitElectionTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&Election{}) {
		err := db.Migrator().CreateTable(&Election{})
		if err != nil {
			panic(err)
		}
	}
}

type ElectionStatus string

const (
	StatusUpcoming ElectionStatus = "upcoming"
	StatusActive   ElectionStatus = "active"
	StatusEnded    ElectionStatus = "ended"
	StatusInactive ElectionStatus = "inactive"
)

// StatusAt computes the derived status. Time boundaries are checked before the
// isActive flag, so an election past its end time is Ended even if the flag is
// still set.
func (e *Election) StatusAt(now time.Time) ElectionStatus {
	return DeriveStatus(e.StartTime, e.EndTime, e.IsActive, now)
}

func DeriveStatus(startTime, endTime int64, isActive bool, now time.Time) ElectionStatus {
	ts := now.Unix()
	if ts < startTime {
		return StatusUpcoming
	}
	if ts > endTime {
		return StatusEnded
	}
	if isActive {
		return StatusActive
	}
	return StatusInactive
}
