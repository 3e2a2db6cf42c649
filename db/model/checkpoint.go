package model

import "gorm.io/gorm"

// Checkpoint records the last ledger block the event monitor has scanned.
type Checkpoint struct {
	Id          int64  `gorm:"NOT NULL"`
	ChainId     int64  `gorm:"NOT NULL;index:idx_checkpoint_chain_id"`
	Height      uint64 `gorm:"NOT NULL"`
	CreatedTime int64  `gorm:"NOT NULL"`
}

func (*Checkpoint) TableName() string {
	return "checkpoints"
}

func InitCheckpointTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&Checkpoint{}) {
		err := db.Migrator().CreateTable(&Checkpoint{})
		if err != nil {
			panic(err)
		}
	}
}
