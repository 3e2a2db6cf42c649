package reconcile

import (
	"sort"
	"time"

	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"github.com/yashgajera132/blockchain-voting-system/ledger"
)

// StoreElection is one election as the persistence store sees it.
type StoreElection struct {
	Election   *model.Election
	Candidates []*model.Candidate
}

// LedgerElection is one election as the contract reports it.
type LedgerElection struct {
	Election   *ledger.ElectionView
	Candidates []*ledger.CandidateView
}

// MergeElections unions both sources keyed by ledger id. Store fields win for
// display; isActive takes the more restrictive value of the two. Records seen
// on only one side are kept and tagged with that source. The result is
// deterministic regardless of input order, and merging is idempotent.
func MergeElections(storeList []*StoreElection, ledgerList []*LedgerElection, now time.Time) []*ElectionDto {
	byLedgerId := make(map[uint64]*LedgerElection, len(ledgerList))
	for _, le := range ledgerList {
		byLedgerId[le.Election.LedgerId] = le
	}

	merged := make([]*ElectionDto, 0, len(storeList)+len(ledgerList))
	for _, se := range storeList {
		if se.Election.LedgerId != nil {
			if le, ok := byLedgerId[*se.Election.LedgerId]; ok {
				merged = append(merged, mergeOne(se, le, now))
				delete(byLedgerId, *se.Election.LedgerId)
				continue
			}
		}
		merged = append(merged, storeOnlyDto(se, now))
	}
	for _, le := range byLedgerId {
		merged = append(merged, ledgerOnlyDto(le, now))
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].StartTime != merged[j].StartTime {
			return merged[i].StartTime < merged[j].StartTime
		}
		if merged[i].Title != merged[j].Title {
			return merged[i].Title < merged[j].Title
		}
		return ledgerIdOf(merged[i]) < ledgerIdOf(merged[j])
	})
	return merged
}

func ledgerIdOf(dto *ElectionDto) uint64 {
	if dto.LedgerId == nil {
		return 0
	}
	return *dto.LedgerId
}

func mergeOne(se *StoreElection, le *LedgerElection, now time.Time) *ElectionDto {
	dto := storeOnlyDto(se, now)
	dto.Source = SourceBoth
	dto.IsActive = se.Election.IsActive && le.Election.IsActive
	dto.Status = string(model.DeriveStatus(dto.StartTime, dto.EndTime, dto.IsActive, now))
	dto.Candidates = mergeCandidates(se.Candidates, le.Candidates)
	return dto
}

// mergeCandidates unions candidates keyed by ledger id. The ledger tally is
// authoritative for vote counts when present.
func mergeCandidates(storeList []*model.Candidate, ledgerList []*ledger.CandidateView) []*CandidateDto {
	byLedgerId := make(map[uint64]*ledger.CandidateView, len(ledgerList))
	for _, cv := range ledgerList {
		byLedgerId[cv.LedgerId] = cv
	}

	merged := make([]*CandidateDto, 0, len(storeList)+len(ledgerList))
	for _, c := range storeList {
		dto := CandidateEntityToDto(c)
		if c.LedgerId != nil {
			if cv, ok := byLedgerId[*c.LedgerId]; ok {
				dto.Source = SourceBoth
				dto.VoteCount = cv.VoteCount
				delete(byLedgerId, *c.LedgerId)
			}
		}
		merged = append(merged, dto)
	}
	for _, cv := range byLedgerId {
		merged = append(merged, CandidateViewToDto(cv))
	}

	sort.Slice(merged, func(i, j int) bool {
		li, lj := uint64(0), uint64(0)
		if merged[i].LedgerId != nil {
			li = *merged[i].LedgerId
		}
		if merged[j].LedgerId != nil {
			lj = *merged[j].LedgerId
		}
		if li != lj {
			return li < lj
		}
		return merged[i].Id < merged[j].Id
	})
	return merged
}

func storeOnlyDto(se *StoreElection, now time.Time) *ElectionDto {
	dto := ElectionEntityToDto(se.Election, now)
	dto.Candidates = make([]*CandidateDto, 0, len(se.Candidates))
	for _, c := range se.Candidates {
		dto.Candidates = append(dto.Candidates, CandidateEntityToDto(c))
	}
	return dto
}

func ledgerOnlyDto(le *LedgerElection, now time.Time) *ElectionDto {
	dto := ElectionViewToDto(le.Election, now)
	dto.Candidates = make([]*CandidateDto, 0, len(le.Candidates))
	for _, cv := range le.Candidates {
		dto.Candidates = append(dto.Candidates, CandidateViewToDto(cv))
	}
	return dto
}
