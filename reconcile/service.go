package reconcile

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"gorm.io/gorm"

	"github.com/yashgajera132/blockchain-voting-system/auth"
	"github.com/yashgajera132/blockchain-voting-system/common"
	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/db/dao"
	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"github.com/yashgajera132/blockchain-voting-system/guard"
	"github.com/yashgajera132/blockchain-voting-system/logging"
	"github.com/yashgajera132/blockchain-voting-system/metrics"
)

// Service is the reconciliation layer between the ledger and the store. All
// writes go ledger-first; the store mirror is best-effort and repaired by the
// monitor. All reads merge both sources.
type Service struct {
	config         *config.Config
	store          StoreProvider
	ledgerClient   Ledger
	voteGuard      *guard.VoteGuard
	metricsService *metrics.MetricService
}

func NewService(cfg *config.Config, store StoreProvider, ledgerClient Ledger,
	voteGuard *guard.VoteGuard, metricsService *metrics.MetricService) *Service {
	return &Service{
		config:         cfg,
		store:          store,
		ledgerClient:   ledgerClient,
		voteGuard:      voteGuard,
		metricsService: metricsService,
	}
}

// CreateElection validates, writes to the ledger, waits for confirmation and
// then mirrors into the store. A store failure after ledger confirmation
// degrades the outcome instead of failing it: the ledger record is durable
// and the monitor backfills the mirror.
func (s *Service) CreateElection(ctx context.Context, req *CreateElectionRequest, creator *auth.User) (*CreateResult, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	start := time.Unix(req.StartTime, 0)
	end := time.Unix(req.EndTime, 0)
	ledgerId, txHash, err := s.ledgerClient.CreateElection(ctx, req.Title, req.Description, start, end)
	if err != nil {
		logging.Logger.Errorf("ledger election creation failed, err=%s", err.Error())
		return nil, err
	}

	candidates := make([]*model.Candidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		candidateLedgerId, _, err := s.ledgerClient.AddCandidate(ctx, ledgerId, c.Name, c.Description, imageUrlOrDefault(c.ImageUrl))
		if err != nil {
			logging.Logger.Errorf("ledger candidate creation failed for election %d, err=%s", ledgerId, err.Error())
			return nil, err
		}
		clid := candidateLedgerId
		candidates = append(candidates, &model.Candidate{
			LedgerId:    &clid,
			Name:        c.Name,
			Description: c.Description,
			Party:       partyOrDefault(c.Party),
			ImageUrl:    imageUrlOrDefault(c.ImageUrl),
			CreatedTime: time.Now().Unix(),
		})
	}

	entity := &model.Election{
		LedgerId:    &ledgerId,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsActive:    true,
		TxHash:      txHash,
		CreatedBy:   creator.Id,
		CreatedTime: time.Now().Unix(),
	}

	result := &CreateResult{}
	mirrorErr := retry.Do(func() error {
		return s.store.SaveElectionAndCandidates(entity, candidates)
	}, common.RetryAttempts, common.RetryDelay, common.RetryErr, retry.RetryIf(func(err error) bool {
		return !errors.Is(err, gorm.ErrDuplicatedKey)
	}))
	if mirrorErr != nil && !errors.Is(mirrorErr, gorm.ErrDuplicatedKey) {
		logging.Logger.Errorf("store mirror failed for ledger election %d, err=%s", ledgerId, mirrorErr.Error())
		s.metricsService.IncMirrorFailed()
		result.SyncDegraded = true
	}

	now := time.Now()
	dto := ElectionEntityToDto(entity, now)
	dto.Source = SourceBoth
	for _, c := range candidates {
		cdto := CandidateEntityToDto(c)
		cdto.Source = SourceBoth
		dto.Candidates = append(dto.Candidates, cdto)
	}
	result.Election = dto
	s.metricsService.IncElectionsCreated()
	return result, nil
}

// ListElections queries store and ledger in parallel and merges the results.
// If one source is down the other's view is served alone, flagged in the
// result so callers can tell a degraded merge from an empty one.
func (s *Service) ListElections(ctx context.Context) (*ElectionList, error) {
	var (
		wg         sync.WaitGroup
		storeList  []*StoreElection
		ledgerList []*LedgerElection
		storeErr   error
		ledgerErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		storeList, storeErr = s.fetchStoreElections()
	}()
	go func() {
		defer wg.Done()
		ledgerList, ledgerErr = s.fetchLedgerElections(ctx)
	}()
	wg.Wait()

	if storeErr != nil && ledgerErr != nil {
		logging.Logger.Errorf("both sources failed, storeErr=%s, ledgerErr=%s", storeErr.Error(), ledgerErr.Error())
		return nil, storeErr
	}
	result := &ElectionList{}
	if storeErr != nil {
		logging.Logger.Errorf("store unavailable, serving ledger view only, err=%s", storeErr.Error())
		result.StoreUnavailable = true
	}
	if ledgerErr != nil {
		logging.Logger.Errorf("ledger unavailable, serving store view only, err=%s", ledgerErr.Error())
		result.LedgerUnavailable = true
	}

	startedAt := time.Now()
	result.Elections = MergeElections(storeList, ledgerList, time.Now())
	s.metricsService.SetMergeDuration(time.Since(startedAt))
	return result, nil
}

func (s *Service) fetchStoreElections() ([]*StoreElection, error) {
	elections, err := s.store.GetElections()
	if err != nil {
		return nil, err
	}
	list := make([]*StoreElection, 0, len(elections))
	for _, e := range elections {
		candidates, err := s.store.GetCandidatesByElectionId(e.Id)
		if err != nil {
			return nil, err
		}
		list = append(list, &StoreElection{Election: e, Candidates: candidates})
	}
	return list, nil
}

func (s *Service) fetchLedgerElections(ctx context.Context) ([]*LedgerElection, error) {
	views, err := s.ledgerClient.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]*LedgerElection, 0, len(views))
	for _, view := range views {
		candidates, err := s.ledgerClient.ListCandidates(ctx, view.LedgerId)
		if err != nil {
			return nil, err
		}
		list = append(list, &LedgerElection{Election: view, Candidates: candidates})
	}
	return list, nil
}

// GetElection resolves ref as a store id first, then as a ledger id, and
// returns the merged view of whatever was found.
func (s *Service) GetElection(ctx context.Context, ref string) (*ElectionDto, error) {
	now := time.Now()
	entity, err := s.resolveElection(ctx, ref)
	if err != nil {
		return nil, err
	}

	var se *StoreElection
	if entity.Id != 0 {
		candidates, err := s.store.GetCandidatesByElectionId(entity.Id)
		if err != nil {
			return nil, err
		}
		se = &StoreElection{Election: entity, Candidates: candidates}
	}

	var le *LedgerElection
	if entity.LedgerId != nil {
		view, err := s.ledgerClient.GetElection(ctx, *entity.LedgerId)
		if err != nil {
			logging.Logger.Errorf("ledger read failed for election %d, serving store view, err=%s",
				*entity.LedgerId, err.Error())
		} else {
			candidates, err := s.ledgerClient.ListCandidates(ctx, *entity.LedgerId)
			if err != nil {
				return nil, err
			}
			le = &LedgerElection{Election: view, Candidates: candidates}
		}
	}

	switch {
	case se != nil && le != nil:
		return mergeOne(se, le, now), nil
	case se != nil:
		return storeOnlyDto(se, now), nil
	case le != nil:
		return ledgerOnlyDto(le, now), nil
	default:
		return nil, common.ErrNotFound
	}
}

// SetStatus flips the store-side isActive flag. The contract has no status
// setter, so the merged view may stay restricted by the ledger flag.
func (s *Service) SetStatus(ctx context.Context, ref string, isActive bool) (*ElectionDto, error) {
	entity, err := s.resolveElection(ctx, ref)
	if err != nil {
		return nil, err
	}
	if entity.Id == 0 {
		return nil, common.NewValidationError("Election has no store record")
	}
	if err := s.store.UpdateElectionStatusById(entity.Id, isActive); err != nil {
		logging.Logger.Errorf("failed to update status for election %d, err=%s", entity.Id, err.Error())
		return nil, err
	}
	entity.IsActive = isActive
	return ElectionEntityToDto(entity, time.Now()), nil
}

// UpdateElection edits the store-side display fields. Zero-valued request
// fields keep the stored value; the ledger record is immutable, so the merge
// serves the edited fields from the store side.
func (s *Service) UpdateElection(ctx context.Context, ref string, req *UpdateElectionRequest) (*ElectionDto, error) {
	entity, err := s.resolveElection(ctx, ref)
	if err != nil {
		return nil, err
	}
	if entity.Id == 0 {
		return nil, common.NewValidationError("Election has no store record")
	}

	if req.Title != "" {
		entity.Title = req.Title
	}
	if req.Description != "" {
		entity.Description = req.Description
	}
	if req.StartTime != 0 {
		entity.StartTime = req.StartTime
	}
	if req.EndTime != 0 {
		entity.EndTime = req.EndTime
	}
	if entity.EndTime <= entity.StartTime {
		return nil, common.NewValidationError("End time must be after start time")
	}

	err = s.store.UpdateElectionDetailsById(entity.Id, entity.Title, entity.Description, entity.StartTime, entity.EndTime)
	if err != nil {
		logging.Logger.Errorf("failed to update election %d, err=%s", entity.Id, err.Error())
		return nil, err
	}
	return ElectionEntityToDto(entity, time.Now()), nil
}

// ListVotes returns the mirrored vote rows of an election.
func (s *Service) ListVotes(ctx context.Context, ref string) ([]*VoteDto, error) {
	entity, err := s.resolveElection(ctx, ref)
	if err != nil {
		return nil, err
	}
	if entity.Id == 0 {
		return nil, common.NewValidationError("Election has no store record")
	}
	votes, err := s.store.GetVotesByElectionId(entity.Id)
	if err != nil {
		return nil, err
	}
	list := make([]*VoteDto, 0, len(votes))
	for _, vote := range votes {
		list = append(list, &VoteDto{
			Id:          vote.Id,
			VoterId:     vote.VoterId,
			CandidateId: vote.CandidateId,
			TxHash:      vote.TxHash,
			BlockNumber: vote.BlockNumber,
			CreatedTime: vote.CreatedTime,
		})
	}
	return list, nil
}

// Delete removes the store record. Ledger records cannot be removed, so a
// ledger-backed election leaves a dangling ledger-only entry behind, reported
// in the result.
func (s *Service) Delete(ctx context.Context, ref string) (*DeleteResult, error) {
	entity, err := s.resolveElection(ctx, ref)
	if err != nil {
		return nil, err
	}
	result := &DeleteResult{LedgerDangling: entity.LedgerId != nil}
	if entity.Id == 0 {
		return result, nil
	}
	if err := s.store.DeleteElectionById(entity.Id); err != nil {
		logging.Logger.Errorf("failed to delete election %d, err=%s", entity.Id, err.Error())
		return nil, err
	}
	result.StoreRemoved = true
	return result, nil
}

// AddVoter registers a voter on the election roster. For ledger-backed
// elections with a known wallet the on-chain verification is submitted as
// well, best-effort.
func (s *Service) AddVoter(ctx context.Context, ref, voterId, walletAddr string) error {
	entity, err := s.resolveElection(ctx, ref)
	if err != nil {
		return err
	}
	if entity.Id == 0 {
		return common.NewValidationError("Election has no store record")
	}

	entry := &model.RosterEntry{
		ElectionId:  entity.Id,
		VoterId:     voterId,
		CreatedTime: time.Now().Unix(),
	}
	if err := s.store.AddRosterEntry(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewValidationError("Voter already registered for this election")
		}
		return err
	}

	if entity.LedgerId != nil && walletAddr != "" {
		if _, err := s.ledgerClient.VerifyVoter(ctx, walletAddr); err != nil {
			logging.Logger.Errorf("on-chain voter verification failed for %s, err=%s", walletAddr, err.Error())
		}
	}
	return nil
}

// CastVote runs the guard and then exactly one of the two vote paths. For
// store-only elections the vote row unique constraint is the atomic boundary.
// For ledger-backed elections the voter's own wallet has already submitted
// the transaction and the contract's per-sender bookkeeping is the boundary;
// the service verifies the confirmed vote and records it, the store mirror
// being best-effort.
func (s *Service) CastVote(ctx context.Context, ref string, req *CastVoteRequest, voter *auth.User) (*VoteResult, error) {
	entity, err := s.resolveElection(ctx, ref)
	if err != nil {
		return nil, err
	}
	if entity.StatusAt(time.Now()) != model.StatusActive {
		return nil, common.NewValidationError("Election is not active")
	}

	if entity.LedgerId == nil {
		return s.castStoreVote(entity, req.CandidateId, voter)
	}
	return s.recordLedgerVote(ctx, entity, req, voter)
}

func (s *Service) castStoreVote(entity *model.Election, candidateRef string, voter *auth.User) (*VoteResult, error) {
	decision, err := s.voteGuard.CheckStoreVote(entity, voter)
	if err != nil {
		return nil, err
	}
	if err := s.decisionToError(decision); err != nil {
		return nil, err
	}

	candidate, err := s.resolveCandidate(entity, candidateRef)
	if err != nil {
		return nil, err
	}

	vote := dao.NewVoteRecord(voter.Id, entity.Id, candidate.Id, "", 0)
	if err := s.store.SaveVoteAndMarkRoster(vote); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.metricsService.IncDuplicateVotes()
			return nil, common.ErrAlreadyVoted
		}
		logging.Logger.Errorf("store vote failed for election %d voter %s, err=%s",
			entity.Id, voter.Id, err.Error())
		return nil, err
	}
	s.metricsService.IncVotesAccepted()
	return &VoteResult{Path: VotePathStore}, nil
}

// recordLedgerVote records a vote the voter's wallet already submitted to the
// contract. The contract enforces verification and one-vote-per-sender; here
// the claimed transaction is checked against the chain's hasVoted flag before
// the store mirror is written.
func (s *Service) recordLedgerVote(ctx context.Context, entity *model.Election, req *CastVoteRequest, voter *auth.User) (*VoteResult, error) {
	decision, err := s.voteGuard.CheckLedgerVote(entity, voter)
	if err != nil {
		return nil, err
	}
	if err := s.decisionToError(decision); err != nil {
		return nil, err
	}

	if voter.Address == "" {
		return nil, common.NewValidationError("User has no wallet address")
	}
	if req.TxHash == "" {
		return nil, common.NewValidationError("Transaction hash is required")
	}
	if _, err := s.store.GetVoteByTxHash(req.TxHash); err == nil {
		s.metricsService.IncDuplicateVotes()
		return nil, common.ErrAlreadyVoted
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	voted, err := s.ledgerClient.HasVoted(ctx, *entity.LedgerId, voter.Address)
	if err != nil {
		logging.Logger.Errorf("failed to query hasVoted for election %d voter %s, err=%s",
			*entity.LedgerId, voter.Address, err.Error())
		return nil, err
	}
	if !voted {
		return nil, common.NewValidationError("Vote not confirmed on ledger")
	}

	candidate, err := s.resolveCandidate(entity, req.CandidateId)
	if err != nil {
		return nil, err
	}
	if candidate.LedgerId == nil {
		return nil, common.NewValidationError("Candidate has no ledger record")
	}

	if entity.Id != 0 {
		vote := dao.NewVoteRecord(voter.Id, entity.Id, candidate.Id, req.TxHash, req.BlockNumber)
		if err := s.store.SaveVoteAndMarkRoster(vote); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				s.metricsService.IncDuplicateVotes()
				return nil, common.ErrAlreadyVoted
			}
			// the on-chain vote is durable, the monitor repairs the mirror
			logging.Logger.Errorf("vote mirror failed for tx %s, err=%s", req.TxHash, err.Error())
			s.metricsService.IncMirrorFailed()
		}
	}
	s.metricsService.IncVotesAccepted()
	return &VoteResult{Path: VotePathLedger, TxHash: req.TxHash, BlockNumber: req.BlockNumber}, nil
}

func (s *Service) decisionToError(decision *guard.Decision) error {
	switch decision.State {
	case guard.StateEligible:
		return nil
	case guard.StateVoted:
		s.metricsService.IncDuplicateVotes()
		return common.ErrAlreadyVoted
	default:
		s.metricsService.IncIneligibleVotes()
		return common.ErrNotEligible
	}
}

// Results tallies an ended election, candidates sorted by vote count desc.
func (s *Service) Results(ctx context.Context, ref string) (*ElectionResults, error) {
	dto, err := s.GetElection(ctx, ref)
	if err != nil {
		return nil, err
	}
	if dto.Status != string(model.StatusEnded) {
		return nil, common.NewValidationError("Results are only available after the election has ended")
	}

	results := &ElectionResults{
		ElectionId: dto.Id,
		Title:      dto.Title,
		Candidates: dto.Candidates,
	}
	if dto.Id != 0 {
		if results.TotalVoters, err = s.store.CountEntries(dto.Id); err != nil {
			return nil, err
		}
		if results.TotalVoted, err = s.store.CountVoted(dto.Id); err != nil {
			return nil, err
		}
	}

	sort.Slice(results.Candidates, func(i, j int) bool {
		if results.Candidates[i].VoteCount != results.Candidates[j].VoteCount {
			return results.Candidates[i].VoteCount > results.Candidates[j].VoteCount
		}
		return results.Candidates[i].Name < results.Candidates[j].Name
	})
	return results, nil
}

// VerifyVote looks up a mirrored vote by its transaction hash.
func (s *Service) VerifyVote(ctx context.Context, txHash string) (*VerifiedVote, error) {
	vote, err := s.store.GetVoteByTxHash(txHash)
	if err != nil {
		return nil, err
	}
	return &VerifiedVote{
		VoterId:     vote.VoterId,
		ElectionId:  vote.ElectionId,
		CandidateId: vote.CandidateId,
		TxHash:      vote.TxHash,
		BlockNumber: vote.BlockNumber,
	}, nil
}

// resolveElection accepts a store id with a ledger id fallback. A ledger-only
// election comes back as a synthesized entity with Id 0.
func (s *Service) resolveElection(ctx context.Context, ref string) (*model.Election, error) {
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, common.NewValidationError("Invalid election id %q", ref)
	}

	entity, err := s.store.GetElectionById(id)
	if err == nil {
		return entity, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if id > 0 {
		entity, err = s.store.GetElectionByLedgerId(uint64(id))
		if err == nil {
			return entity, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		view, err := s.ledgerClient.GetElection(ctx, uint64(id))
		if err == nil && view.Title != "" {
			ledgerId := view.LedgerId
			return &model.Election{
				LedgerId:    &ledgerId,
				Title:       view.Title,
				Description: view.Description,
				StartTime:   view.StartTime.Unix(),
				EndTime:     view.EndTime.Unix(),
				IsActive:    view.IsActive,
			}, nil
		}
	}
	return nil, common.ErrNotFound
}

// resolveCandidate accepts a store id with a ledger id fallback within the
// election.
func (s *Service) resolveCandidate(entity *model.Election, candidateRef string) (*model.Candidate, error) {
	id, err := strconv.ParseInt(candidateRef, 10, 64)
	if err != nil {
		return nil, common.NewValidationError("Invalid candidate id %q", candidateRef)
	}

	if entity.Id != 0 {
		candidates, err := s.store.GetCandidatesByElectionId(entity.Id)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if c.Id == id {
				return c, nil
			}
		}
		for _, c := range candidates {
			if c.LedgerId != nil && *c.LedgerId == uint64(id) {
				return c, nil
			}
		}
		return nil, common.ErrNotFound
	}

	if entity.LedgerId == nil || id <= 0 {
		return nil, common.ErrNotFound
	}
	ledgerId := uint64(id)
	return &model.Candidate{LedgerId: &ledgerId}, nil
}

func validateCreateRequest(req *CreateElectionRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return common.NewValidationError("Title is required")
	}
	if req.EndTime <= req.StartTime {
		return common.NewValidationError("End time must be after start time")
	}
	if len(req.Candidates) < 2 {
		return common.NewValidationError("At least two candidates are required")
	}
	for _, c := range req.Candidates {
		if strings.TrimSpace(c.Name) == "" {
			return common.NewValidationError("Candidate name is required")
		}
	}
	return nil
}

func partyOrDefault(party string) string {
	if party == "" {
		return model.DefaultParty
	}
	return party
}

func imageUrlOrDefault(imageUrl string) string {
	if imageUrl == "" {
		return model.DefaultImageUrl
	}
	return imageUrl
}
