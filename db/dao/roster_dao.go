package dao

import (
	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"gorm.io/gorm"
)

type RosterDao struct {
	DB *gorm.DB
}

func NewRosterDao(db *gorm.DB) *RosterDao {
	return &RosterDao{
		DB: db,
	}
}

func (d *RosterDao) AddEntry(entry *model.RosterEntry) error {
	return d.DB.Create(entry).Error
}

func (d *RosterDao) GetEntry(electionId int64, voterId string) (*model.RosterEntry, error) {
	var entry model.RosterEntry
	err := d.DB.Where("election_id = ?", electionId).
		Where("voter_id = ?", voterId).
		Take(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (d *RosterDao) CountVoted(electionId int64) (int64, error) {
	var count int64
	err := d.DB.Model(&model.RosterEntry{}).
		Where("election_id = ?", electionId).
		Where("has_voted = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (d *RosterDao) CountEntries(electionId int64) (int64, error) {
	var count int64
	err := d.DB.Model(&model.RosterEntry{}).
		Where("election_id = ?", electionId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
