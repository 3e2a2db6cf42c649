package guard

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yashgajera132/blockchain-voting-system/db/dao"
	"github.com/yashgajera132/blockchain-voting-system/db/model"
)

type DataProvider interface {
	GetRosterEntry(electionId int64, voterId string) (*model.RosterEntry, error)
	HasVoteRecord(electionId int64, voterId string) (bool, error)
}

type DataHandler struct {
	daoManager *dao.DaoManager
}

func NewDataHandler(daoManager *dao.DaoManager) *DataHandler {
	return &DataHandler{
		daoManager: daoManager,
	}
}

func (h *DataHandler) GetRosterEntry(electionId int64, voterId string) (*model.RosterEntry, error) {
	entry, err := h.daoManager.RosterDao.GetEntry(electionId, voterId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return entry, err
}

func (h *DataHandler) HasVoteRecord(electionId int64, voterId string) (bool, error) {
	return h.daoManager.VoteDao.IsVoteExists(electionId, voterId)
}
