package reconcile

import (
	"time"

	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"github.com/yashgajera132/blockchain-voting-system/ledger"
)

func ElectionEntityToDto(e *model.Election, now time.Time) *ElectionDto {
	return &ElectionDto{
		Id:          e.Id,
		LedgerId:    e.LedgerId,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		IsActive:    e.IsActive,
		Status:      string(e.StatusAt(now)),
		TxHash:      e.TxHash,
		CreatedBy:   e.CreatedBy,
		Source:      SourceStore,
		Candidates:  []*CandidateDto{},
	}
}

func ElectionViewToDto(view *ledger.ElectionView, now time.Time) *ElectionDto {
	ledgerId := view.LedgerId
	return &ElectionDto{
		LedgerId:    &ledgerId,
		Title:       view.Title,
		Description: view.Description,
		StartTime:   view.StartTime.Unix(),
		EndTime:     view.EndTime.Unix(),
		IsActive:    view.IsActive,
		Status:      string(model.DeriveStatus(view.StartTime.Unix(), view.EndTime.Unix(), view.IsActive, now)),
		Source:      SourceLedger,
		Candidates:  []*CandidateDto{},
	}
}

func CandidateEntityToDto(c *model.Candidate) *CandidateDto {
	return &CandidateDto{
		Id:          c.Id,
		LedgerId:    c.LedgerId,
		Name:        c.Name,
		Description: c.Description,
		Party:       c.Party,
		ImageUrl:    c.ImageUrl,
		VoteCount:   c.VoteCount,
		Source:      SourceStore,
	}
}

func CandidateViewToDto(view *ledger.CandidateView) *CandidateDto {
	ledgerId := view.LedgerId
	return &CandidateDto{
		LedgerId:    &ledgerId,
		Name:        view.Name,
		Description: view.Description,
		Party:       model.DefaultParty,
		ImageUrl:    view.ImageUrl,
		VoteCount:   view.VoteCount,
		Source:      SourceLedger,
	}
}
