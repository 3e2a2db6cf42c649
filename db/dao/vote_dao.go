package dao

import (
	"time"

	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"gorm.io/gorm"
)

type VoteDao struct {
	DB *gorm.DB
}

func NewVoteDao(db *gorm.DB) *VoteDao {
	return &VoteDao{
		DB: db,
	}
}

func (d *VoteDao) SaveVote(vote *model.Vote) error {
	return d.DB.Create(vote).Error
}

// SaveVoteAndMarkRoster commits the vote row, the roster hasVoted flag and the
// candidate tally in one transaction. The unique (voter, election) index makes
// the insert the atomic boundary: a duplicate cast surfaces as
// gorm.ErrDuplicatedKey and nothing else in the transaction is applied.
func (d *VoteDao) SaveVoteAndMarkRoster(vote *model.Vote) error {
	return d.DB.Transaction(func(dbTx *gorm.DB) error {
		if err := dbTx.Create(vote).Error; err != nil {
			return err
		}

		err := dbTx.Model(&model.RosterEntry{}).
			Where("election_id = ?", vote.ElectionId).
			Where("voter_id = ?", vote.VoterId).
			Updates(map[string]interface{}{"has_voted": true, "vote_tx": vote.TxHash}).
			Error
		if err != nil {
			return err
		}

		return dbTx.Model(&model.Candidate{}).
			Where("id = ?", vote.CandidateId).
			Update("vote_count", gorm.Expr("vote_count + 1")).
			Error
	})
}

func (d *VoteDao) GetVoteByTxHash(txHash string) (*model.Vote, error) {
	var vote model.Vote
	err := d.DB.Where("tx_hash = ?", txHash).Take(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (d *VoteDao) GetVotesByElectionId(electionId int64) ([]*model.Vote, error) {
	votes := make([]*model.Vote, 0)
	err := d.DB.Where("election_id = ?", electionId).
		Order("created_time desc").
		Find(&votes).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return votes, nil
}

func (d *VoteDao) IsVoteExists(electionId int64, voterId string) (bool, error) {
	var count int64
	err := d.DB.Model(&model.Vote{}).
		Where("election_id = ?", electionId).
		Where("voter_id = ?", voterId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *VoteDao) IsTxHashMirrored(txHash string) (bool, error) {
	var count int64
	err := d.DB.Model(&model.Vote{}).
		Where("tx_hash = ?", txHash).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func NewVoteRecord(voterId string, electionId, candidateId int64, txHash string, blockNumber uint64) *model.Vote {
	return &model.Vote{
		VoterId:     voterId,
		ElectionId:  electionId,
		CandidateId: candidateId,
		TxHash:      txHash,
		BlockNumber: blockNumber,
		CreatedTime: time.Now().Unix(),
	}
}
