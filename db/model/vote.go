package model

import "gorm.io/gorm"

// Vote rows are append-only. The compound unique index on (voter, election) is
// the atomic race-resolution point for duplicate casts.
type Vote struct {
	Id          int64  `gorm:"NOT NULL"`
	VoterId     string `gorm:"NOT NULL;uniqueIndex:idx_voter_election"`
	ElectionId  int64  `gorm:"NOT NULL;uniqueIndex:idx_voter_election"`
	CandidateId int64  `gorm:"NOT NULL"`
	TxHash      string `gorm:"index:idx_vote_tx_hash"`
	BlockNumber uint64
	CreatedTime int64 `gorm:"NOT NULL"`
}

func (*Vote) TableName() string {
	return "votes"
}

func InitVoteTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&Vote{}) {
		err := db.Migrator().CreateTable(&Vote{})
		if err != nil {
			panic(err)
		}
	}
}
