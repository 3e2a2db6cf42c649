package model

import "gorm.io/gorm"

// RosterEntry allow-lists a voter for one election. An entry must exist before
// a store-backed vote is legal for that voter.
type RosterEntry struct {
	Id          int64  `gorm:"NOT NULL"`
	ElectionId  int64  `gorm:"NOT NULL;uniqueIndex:idx_roster_election_voter"`
	VoterId     string `gorm:"NOT NULL;uniqueIndex:idx_roster_election_voter"`
	HasVoted    bool   `gorm:"NOT NULL"`
	VoteTx      string
	CreatedTime int64 `gorm:"NOT NULL"`
}

func (*RosterEntry) TableName() string {
	return "roster_entries"
}

func InitRosterTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&RosterEntry{}) {
		err := db.Migrator().CreateTable(&RosterEntry{})
		if err != nil {
			panic(err)
		}
	}
}
