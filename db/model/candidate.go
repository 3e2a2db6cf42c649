package model

import "gorm.io/gorm"

const (
	DefaultParty    = "Independent"
	DefaultImageUrl = "https://randomuser.me/api/portraits/lego/1.jpg"
)

type Candidate struct {
	Id          int64   `gorm:"NOT NULL"`
	ElectionId  int64   `gorm:"NOT NULL;index:idx_candidate_election_id"`
	LedgerId    *uint64 `gorm:"index:idx_candidate_ledger_id"`
	Name        string  `gorm:"NOT NULL"`
	Description string  `gorm:"NOT NULL"`
	Party       string  `gorm:"NOT NULL"`
	ImageUrl    string  `gorm:"NOT NULL"`
	VoteCount   uint64  `gorm:"NOT NULL"` // monotonic, never decremented
	CreatedTime int64   `gorm:"NOT NULL"`
}

func (*Candidate) TableName() string {
	return "candidates"
}

func InitCandidateTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&Candidate{}) {
		err := db.Migrator().CreateTable(&Candidate{})
		if err != nil {
			panic(err)
		}
	}
}
