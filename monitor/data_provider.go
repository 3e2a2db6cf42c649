package monitor

import (
	"github.com/yashgajera132/blockchain-voting-system/db/dao"
	"github.com/yashgajera132/blockchain-voting-system/db/model"
)

type DataProvider interface {
	GetLatestCheckpoint(chainId int64) (*model.Checkpoint, error)
	SaveCheckpoint(chainId int64, height uint64) error
	IsLedgerIdMirrored(ledgerId uint64) (bool, error)
	SaveElectionAndCandidates(e *model.Election, candidates []*model.Candidate) error
	GetElectionByLedgerId(ledgerId uint64) (*model.Election, error)
	GetCandidateByLedgerId(electionId int64, ledgerId uint64) (*model.Candidate, error)
	SaveCandidate(c *model.Candidate) error
	IsTxHashMirrored(txHash string) (bool, error)
	SaveVoteAndMarkRoster(vote *model.Vote) error
}

type DataHandler struct {
	daoManager *dao.DaoManager
}

func NewDataHandler(daoManager *dao.DaoManager) *DataHandler {
	return &DataHandler{
		daoManager: daoManager,
	}
}

func (h *DataHandler) GetLatestCheckpoint(chainId int64) (*model.Checkpoint, error) {
	return h.daoManager.CheckpointDao.GetLatestCheckpoint(chainId)
}

func (h *DataHandler) SaveCheckpoint(chainId int64, height uint64) error {
	return h.daoManager.CheckpointDao.SaveCheckpoint(chainId, height)
}

func (h *DataHandler) IsLedgerIdMirrored(ledgerId uint64) (bool, error) {
	return h.daoManager.ElectionDao.IsLedgerIdMirrored(ledgerId)
}

func (h *DataHandler) SaveElectionAndCandidates(e *model.Election, candidates []*model.Candidate) error {
	return h.daoManager.ElectionDao.SaveElectionAndCandidates(e, candidates)
}

func (h *DataHandler) GetElectionByLedgerId(ledgerId uint64) (*model.Election, error) {
	return h.daoManager.ElectionDao.GetElectionByLedgerId(ledgerId)
}

func (h *DataHandler) GetCandidateByLedgerId(electionId int64, ledgerId uint64) (*model.Candidate, error) {
	return h.daoManager.CandidateDao.GetCandidateByLedgerId(electionId, ledgerId)
}

func (h *DataHandler) SaveCandidate(c *model.Candidate) error {
	return h.daoManager.CandidateDao.SaveCandidate(c)
}

func (h *DataHandler) IsTxHashMirrored(txHash string) (bool, error) {
	return h.daoManager.VoteDao.IsTxHashMirrored(txHash)
}

func (h *DataHandler) SaveVoteAndMarkRoster(vote *model.Vote) error {
	return h.daoManager.VoteDao.SaveVoteAndMarkRoster(vote)
}
