package dao

import (
	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"gorm.io/gorm"
)

type ElectionDao struct {
	DB *gorm.DB
}

func NewElectionDao(db *gorm.DB) *ElectionDao {
	return &ElectionDao{
		DB: db,
	}
}

func (d *ElectionDao) SaveElectionAndCandidates(e *model.Election, candidates []*model.Candidate) error {
	return d.DB.Transaction(func(dbTx *gorm.DB) error {
		err := dbTx.Create(e).Error
		if err != nil {
			return err
		}

		for _, c := range candidates {
			c.ElectionId = e.Id
		}
		if len(candidates) != 0 {
			err := dbTx.Create(candidates).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *ElectionDao) GetElections() ([]*model.Election, error) {
	elections := []*model.Election{}
	err := d.DB.Order("created_time desc").Find(&elections).Error
	if err != nil {
		return nil, err
	}
	return elections, nil
}

func (d *ElectionDao) GetElectionById(id int64) (*model.Election, error) {
	var e model.Election
	err := d.DB.Where("id = ?", id).Take(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (d *ElectionDao) GetElectionByLedgerId(ledgerId uint64) (*model.Election, error) {
	var e model.Election
	err := d.DB.Where("ledger_id = ?", ledgerId).Take(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (d *ElectionDao) UpdateElectionStatusById(id int64, isActive bool) error {
	return d.DB.Model(&model.Election{}).
		Where("id = ?", id).
		Update("is_active", isActive).
		Error
}

func (d *ElectionDao) UpdateElectionDetailsById(id int64, title, description string, startTime, endTime int64) error {
	return d.DB.Model(&model.Election{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":       title,
			"description": description,
			"start_time":  startTime,
			"end_time":    endTime,
		}).
		Error
}

func (d *ElectionDao) DeleteElectionById(id int64) error {
	return d.DB.Transaction(func(dbTx *gorm.DB) error {
		if err := dbTx.Where("election_id = ?", id).Delete(&model.Candidate{}).Error; err != nil {
			return err
		}
		if err := dbTx.Where("election_id = ?", id).Delete(&model.RosterEntry{}).Error; err != nil {
			return err
		}
		return dbTx.Where("id = ?", id).Delete(&model.Election{}).Error
	})
}

func (d *ElectionDao) IsLedgerIdMirrored(ledgerId uint64) (bool, error) {
	var count int64
	err := d.DB.Model(&model.Election{}).
		Where("ledger_id = ?", ledgerId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
