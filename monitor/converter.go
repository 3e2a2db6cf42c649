package monitor

import (
	"time"

	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"github.com/yashgajera132/blockchain-voting-system/ledger"
)

// CreatedByBackfill marks rows whose creator is unknown because the store
// mirror was recovered from contract events.
const CreatedByBackfill = "ledger-backfill"

func ElectionViewToEntity(view *ledger.ElectionView, txHash string) *model.Election {
	ledgerId := view.LedgerId
	return &model.Election{
		LedgerId:    &ledgerId,
		Title:       view.Title,
		Description: view.Description,
		StartTime:   view.StartTime.Unix(),
		EndTime:     view.EndTime.Unix(),
		IsActive:    view.IsActive,
		TxHash:      txHash,
		CreatedBy:   CreatedByBackfill,
		CreatedTime: time.Now().Unix(),
	}
}

func CandidateViewToEntity(view *ledger.CandidateView, electionId int64) *model.Candidate {
	ledgerId := view.LedgerId
	return &model.Candidate{
		ElectionId:  electionId,
		LedgerId:    &ledgerId,
		Name:        view.Name,
		Description: view.Description,
		Party:       model.DefaultParty,
		ImageUrl:    view.ImageUrl,
		VoteCount:   view.VoteCount,
		CreatedTime: time.Now().Unix(),
	}
}

func CandidateViewsToEntities(views []*ledger.CandidateView) []*model.Candidate {
	candidates := make([]*model.Candidate, 0, len(views))
	for _, view := range views {
		candidates = append(candidates, CandidateViewToEntity(view, 0))
	}
	return candidates
}
