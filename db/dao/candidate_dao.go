package dao

import (
	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"gorm.io/gorm"
)

type CandidateDao struct {
	DB *gorm.DB
}

func NewCandidateDao(db *gorm.DB) *CandidateDao {
	return &CandidateDao{
		DB: db,
	}
}

func (d *CandidateDao) SaveCandidate(c *model.Candidate) error {
	return d.DB.Create(c).Error
}

func (d *CandidateDao) GetCandidatesByElectionId(electionId int64) ([]*model.Candidate, error) {
	candidates := []*model.Candidate{}
	err := d.DB.Where("election_id = ?", electionId).
		Order("id asc").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (d *CandidateDao) GetCandidateById(id int64) (*model.Candidate, error) {
	var c model.Candidate
	err := d.DB.Where("id = ?", id).Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *CandidateDao) GetCandidateByLedgerId(electionId int64, ledgerId uint64) (*model.Candidate, error) {
	var c model.Candidate
	err := d.DB.Where("election_id = ?", electionId).
		Where("ledger_id = ?", ledgerId).
		Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
