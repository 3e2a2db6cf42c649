package reconcile

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yashgajera132/blockchain-voting-system/common"
	"github.com/yashgajera132/blockchain-voting-system/db/dao"
	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"github.com/yashgajera132/blockchain-voting-system/ledger"
)

// StoreProvider is the persistence surface the reconciliation service needs.
// Missing rows come back as common.ErrNotFound, duplicate inserts as
// gorm.ErrDuplicatedKey.
type StoreProvider interface {
	SaveElectionAndCandidates(e *model.Election, candidates []*model.Candidate) error
	GetElections() ([]*model.Election, error)
	GetElectionById(id int64) (*model.Election, error)
	GetElectionByLedgerId(ledgerId uint64) (*model.Election, error)
	UpdateElectionStatusById(id int64, isActive bool) error
	UpdateElectionDetailsById(id int64, title, description string, startTime, endTime int64) error
	DeleteElectionById(id int64) error
	GetCandidatesByElectionId(electionId int64) ([]*model.Candidate, error)
	SaveVoteAndMarkRoster(vote *model.Vote) error
	GetVoteByTxHash(txHash string) (*model.Vote, error)
	GetVotesByElectionId(electionId int64) ([]*model.Vote, error)
	AddRosterEntry(entry *model.RosterEntry) error
	CountVoted(electionId int64) (int64, error)
	CountEntries(electionId int64) (int64, error)
}

// Ledger is the contract surface the reconciliation service needs; the fakes
// in tests implement the same interface.
type Ledger interface {
	CreateElection(ctx context.Context, title, description string, start, end time.Time) (uint64, string, error)
	AddCandidate(ctx context.Context, electionId uint64, name, description, imageUrl string) (uint64, string, error)
	VerifyVoter(ctx context.Context, voter string) (string, error)
	GetElection(ctx context.Context, ledgerId uint64) (*ledger.ElectionView, error)
	ListElections(ctx context.Context) ([]*ledger.ElectionView, error)
	ListCandidates(ctx context.Context, electionId uint64) ([]*ledger.CandidateView, error)
	HasVoted(ctx context.Context, electionId uint64, voter string) (bool, error)
}

type DataHandler struct {
	daoManager *dao.DaoManager
}

func NewDataHandler(daoManager *dao.DaoManager) *DataHandler {
	return &DataHandler{
		daoManager: daoManager,
	}
}

func notFoundTranslated(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	return err
}

func (h *DataHandler) SaveElectionAndCandidates(e *model.Election, candidates []*model.Candidate) error {
	return h.daoManager.ElectionDao.SaveElectionAndCandidates(e, candidates)
}

func (h *DataHandler) GetElections() ([]*model.Election, error) {
	return h.daoManager.ElectionDao.GetElections()
}

func (h *DataHandler) GetElectionById(id int64) (*model.Election, error) {
	e, err := h.daoManager.ElectionDao.GetElectionById(id)
	return e, notFoundTranslated(err)
}

func (h *DataHandler) GetElectionByLedgerId(ledgerId uint64) (*model.Election, error) {
	e, err := h.daoManager.ElectionDao.GetElectionByLedgerId(ledgerId)
	return e, notFoundTranslated(err)
}

func (h *DataHandler) UpdateElectionStatusById(id int64, isActive bool) error {
	return h.daoManager.ElectionDao.UpdateElectionStatusById(id, isActive)
}

func (h *DataHandler) UpdateElectionDetailsById(id int64, title, description string, startTime, endTime int64) error {
	return h.daoManager.ElectionDao.UpdateElectionDetailsById(id, title, description, startTime, endTime)
}

func (h *DataHandler) DeleteElectionById(id int64) error {
	return h.daoManager.ElectionDao.DeleteElectionById(id)
}

func (h *DataHandler) GetCandidatesByElectionId(electionId int64) ([]*model.Candidate, error) {
	return h.daoManager.CandidateDao.GetCandidatesByElectionId(electionId)
}

func (h *DataHandler) SaveVoteAndMarkRoster(vote *model.Vote) error {
	return h.daoManager.VoteDao.SaveVoteAndMarkRoster(vote)
}

func (h *DataHandler) GetVotesByElectionId(electionId int64) ([]*model.Vote, error) {
	return h.daoManager.VoteDao.GetVotesByElectionId(electionId)
}

func (h *DataHandler) GetVoteByTxHash(txHash string) (*model.Vote, error) {
	vote, err := h.daoManager.VoteDao.GetVoteByTxHash(txHash)
	return vote, notFoundTranslated(err)
}

func (h *DataHandler) AddRosterEntry(entry *model.RosterEntry) error {
	return h.daoManager.RosterDao.AddEntry(entry)
}

func (h *DataHandler) CountVoted(electionId int64) (int64, error) {
	return h.daoManager.RosterDao.CountVoted(electionId)
}

func (h *DataHandler) CountEntries(electionId int64) (int64, error) {
	return h.daoManager.RosterDao.CountEntries(electionId)
}
