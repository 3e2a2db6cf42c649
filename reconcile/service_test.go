package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yashgajera132/blockchain-voting-system/auth"
	"github.com/yashgajera132/blockchain-voting-system/common"
	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"github.com/yashgajera132/blockchain-voting-system/guard"
	"github.com/yashgajera132/blockchain-voting-system/ledger"
	"github.com/yashgajera132/blockchain-voting-system/metrics"
)

// prometheus collectors register globally, one service for the whole package
var testMetrics = metrics.NewMetricService(&config.Config{})

type fakeStore struct {
	mtx sync.Mutex

	nextId     int64
	elections  map[int64]*model.Election
	candidates map[int64][]*model.Candidate
	votes      map[string]*model.Vote
	roster     map[string]*model.RosterEntry

	failSave error
	failList error
}

func voterKey(electionId int64, voterId string) string {
	return fmt.Sprintf("%d/%s", electionId, voterId)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		elections:  make(map[int64]*model.Election),
		candidates: make(map[int64][]*model.Candidate),
		votes:      make(map[string]*model.Vote),
		roster:     make(map[string]*model.RosterEntry),
	}
}

func (f *fakeStore) SaveElectionAndCandidates(e *model.Election, candidates []*model.Candidate) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	for _, existing := range f.elections {
		if existing.LedgerId != nil && e.LedgerId != nil && *existing.LedgerId == *e.LedgerId {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextId++
	e.Id = f.nextId
	f.elections[e.Id] = e
	for _, c := range candidates {
		f.nextId++
		c.Id = f.nextId
		c.ElectionId = e.Id
	}
	f.candidates[e.Id] = candidates
	return nil
}

func (f *fakeStore) GetElections() ([]*model.Election, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	list := make([]*model.Election, 0, len(f.elections))
	for _, e := range f.elections {
		list = append(list, e)
	}
	return list, nil
}

func (f *fakeStore) GetElectionById(id int64) (*model.Election, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	e, ok := f.elections[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) GetElectionByLedgerId(ledgerId uint64) (*model.Election, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	for _, e := range f.elections {
		if e.LedgerId != nil && *e.LedgerId == ledgerId {
			return e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeStore) UpdateElectionStatusById(id int64, isActive bool) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if e, ok := f.elections[id]; ok {
		e.IsActive = isActive
	}
	return nil
}

func (f *fakeStore) UpdateElectionDetailsById(id int64, title, description string, startTime, endTime int64) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if e, ok := f.elections[id]; ok {
		e.Title = title
		e.Description = description
		e.StartTime = startTime
		e.EndTime = endTime
	}
	return nil
}

func (f *fakeStore) DeleteElectionById(id int64) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	delete(f.elections, id)
	delete(f.candidates, id)
	return nil
}

func (f *fakeStore) GetCandidatesByElectionId(electionId int64) ([]*model.Candidate, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.candidates[electionId], nil
}

// SaveVoteAndMarkRoster mimics the unique (voter, election) index: the first
// insert wins, every later one gets gorm.ErrDuplicatedKey.
func (f *fakeStore) SaveVoteAndMarkRoster(vote *model.Vote) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	key := voterKey(vote.ElectionId, vote.VoterId)
	if _, ok := f.votes[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.votes[key] = vote
	if entry, ok := f.roster[key]; ok {
		entry.HasVoted = true
		entry.VoteTx = vote.TxHash
	}
	for _, c := range f.candidates[vote.ElectionId] {
		if c.Id == vote.CandidateId {
			c.VoteCount++
		}
	}
	return nil
}

func (f *fakeStore) GetVoteByTxHash(txHash string) (*model.Vote, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	for _, vote := range f.votes {
		if vote.TxHash != "" && vote.TxHash == txHash {
			return vote, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeStore) GetVotesByElectionId(electionId int64) ([]*model.Vote, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	list := make([]*model.Vote, 0)
	for _, vote := range f.votes {
		if vote.ElectionId == electionId {
			list = append(list, vote)
		}
	}
	return list, nil
}

func (f *fakeStore) AddRosterEntry(entry *model.RosterEntry) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	key := voterKey(entry.ElectionId, entry.VoterId)
	if _, ok := f.roster[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.roster[key] = entry
	return nil
}

func (f *fakeStore) CountVoted(electionId int64) (int64, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	var count int64
	for _, entry := range f.roster {
		if entry.ElectionId == electionId && entry.HasVoted {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CountEntries(electionId int64) (int64, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	var count int64
	for _, entry := range f.roster {
		if entry.ElectionId == electionId {
			count++
		}
	}
	return count, nil
}

// guard.DataProvider
func (f *fakeStore) GetRosterEntry(electionId int64, voterId string) (*model.RosterEntry, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.roster[voterKey(electionId, voterId)], nil
}

func (f *fakeStore) HasVoteRecord(electionId int64, voterId string) (bool, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	_, ok := f.votes[voterKey(electionId, voterId)]
	return ok, nil
}

// fakeLedger keeps the contract's per-sender bookkeeping: hasVoted is keyed
// by (election, wallet address), the way the real contract keys its checks
// to msg.sender.
type fakeLedger struct {
	mtx sync.Mutex

	nextElectionId uint64
	nextTx         int
	elections      map[uint64]*ledger.ElectionView
	candidates     map[uint64][]*ledger.CandidateView
	voted          map[string]bool

	failCreate error
	failList   error

	createCalls   int
	hasVotedCalls int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		elections:  make(map[uint64]*ledger.ElectionView),
		candidates: make(map[uint64][]*ledger.CandidateView),
		voted:      make(map[string]bool),
	}
}

func (f *fakeLedger) txHash() string {
	f.nextTx++
	return fmt.Sprintf("0xtx%04d", f.nextTx)
}

// markVoted replays a vote transaction the wallet submitted on its own.
func (f *fakeLedger) markVoted(electionId uint64, address string, candidateId uint64) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.voted[fmt.Sprintf("%d/%s", electionId, address)] = true
	for _, c := range f.candidates[electionId] {
		if c.LedgerId == candidateId {
			c.VoteCount++
		}
	}
}

func (f *fakeLedger) CreateElection(_ context.Context, title, description string, start, end time.Time) (uint64, string, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.createCalls++
	if f.failCreate != nil {
		return 0, "", f.failCreate
	}
	f.nextElectionId++
	f.elections[f.nextElectionId] = &ledger.ElectionView{
		LedgerId:    f.nextElectionId,
		Title:       title,
		Description: description,
		StartTime:   start,
		EndTime:     end,
		IsActive:    true,
	}
	return f.nextElectionId, f.txHash(), nil
}

func (f *fakeLedger) AddCandidate(_ context.Context, electionId uint64, name, description, imageUrl string) (uint64, string, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	candidateId := uint64(len(f.candidates[electionId]) + 1)
	f.candidates[electionId] = append(f.candidates[electionId], &ledger.CandidateView{
		LedgerId:    candidateId,
		Name:        name,
		Description: description,
		ImageUrl:    imageUrl,
	})
	return candidateId, f.txHash(), nil
}

func (f *fakeLedger) VerifyVoter(_ context.Context, voter string) (string, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.txHash(), nil
}

func (f *fakeLedger) GetElection(_ context.Context, ledgerId uint64) (*ledger.ElectionView, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	view, ok := f.elections[ledgerId]
	if !ok {
		return nil, common.NewRevertError("Election does not exist")
	}
	return view, nil
}

func (f *fakeLedger) ListElections(_ context.Context) ([]*ledger.ElectionView, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	list := make([]*ledger.ElectionView, 0, len(f.elections))
	for id := uint64(1); id <= f.nextElectionId; id++ {
		if view, ok := f.elections[id]; ok {
			list = append(list, view)
		}
	}
	return list, nil
}

func (f *fakeLedger) ListCandidates(_ context.Context, electionId uint64) ([]*ledger.CandidateView, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.candidates[electionId], nil
}

func (f *fakeLedger) HasVoted(_ context.Context, electionId uint64, voter string) (bool, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.hasVotedCalls++
	return f.voted[fmt.Sprintf("%d/%s", electionId, voter)], nil
}

func newTestService(store *fakeStore, ledgerClient *fakeLedger) *Service {
	voteGuard := guard.NewVoteGuard(store)
	return NewService(&config.Config{}, store, ledgerClient, voteGuard, testMetrics)
}

func validRequest() *CreateElectionRequest {
	now := time.Now().Unix()
	return &CreateElectionRequest{
		Title:       "general",
		Description: "test election",
		StartTime:   now - 60,
		EndTime:     now + 3600,
		Candidates: []CandidateRequest{
			{Name: "alice", Party: "Greens"},
			{Name: "bob"},
		},
	}
}

func storeVoteReq(candidateId int64) *CastVoteRequest {
	return &CastVoteRequest{CandidateId: fmt.Sprint(candidateId)}
}

func ledgerVoteReq(candidateId int64, txHash string) *CastVoteRequest {
	return &CastVoteRequest{CandidateId: fmt.Sprint(candidateId), TxHash: txHash, BlockNumber: 42}
}

var admin = &auth.User{Id: "admin-1", Role: auth.RoleAdmin, Verified: true}

func TestCreateValidationPrecedesWrite(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	req := validRequest()
	req.EndTime = req.StartTime
	_, err := svc.CreateElection(context.Background(), req, admin)
	require.True(t, common.IsValidationError(err))
	require.EqualError(t, err, "End time must be after start time")
	require.Zero(t, chain.createCalls, "no ledger write on validation failure")
	require.Empty(t, store.elections, "no store write on validation failure")
}

func TestCreateLedgerFirst(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	result, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	require.False(t, result.SyncDegraded)
	require.Equal(t, uint64(1), *result.Election.LedgerId)

	require.Len(t, chain.elections, 1)
	require.Len(t, store.elections, 1)
	stored, err := store.GetElectionByLedgerId(1)
	require.NoError(t, err)
	require.Equal(t, "general", stored.Title)
	require.Equal(t, "admin-1", stored.CreatedBy)

	candidates, err := store.GetCandidatesByElectionId(stored.Id)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	require.Equal(t, model.DefaultParty, candidates[1].Party)
}

func TestCreateLedgerFailureAbortsEverything(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	chain.failCreate = common.ErrNotConnected
	svc := newTestService(store, chain)

	_, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.ErrorIs(t, err, common.ErrNotConnected)
	require.Empty(t, store.elections)
}

func TestCreateStoreFailureDegradesOutcome(t *testing.T) {
	store := newFakeStore()
	store.failSave = errors.New("store down")
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	result, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err, "ledger write confirmed, outcome must not fail")
	require.True(t, result.SyncDegraded)
	require.Len(t, chain.elections, 1, "ledger record is durable")
}

func setupStoreOnlyElection(store *fakeStore, voters ...string) *model.Election {
	now := time.Now().Unix()
	e := &model.Election{
		Title:       "local",
		StartTime:   now - 60,
		EndTime:     now + 3600,
		IsActive:    true,
		CreatedBy:   "admin-1",
		CreatedTime: now,
	}
	candidates := []*model.Candidate{
		{Name: "alice", Party: model.DefaultParty},
		{Name: "bob", Party: model.DefaultParty},
	}
	if err := store.SaveElectionAndCandidates(e, candidates); err != nil {
		panic(err)
	}
	for _, voterId := range voters {
		if err := store.AddRosterEntry(&model.RosterEntry{ElectionId: e.Id, VoterId: voterId, CreatedTime: now}); err != nil {
			panic(err)
		}
	}
	return e
}

func TestStoreOnlyVoteNeverTouchesLedger(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)
	e := setupStoreOnlyElection(store, "voter-1")
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	voter := &auth.User{Id: "voter-1", Verified: true}
	result, err := svc.CastVote(context.Background(), fmt.Sprint(e.Id), storeVoteReq(candidates[0].Id), voter)
	require.NoError(t, err)
	require.Equal(t, VotePathStore, result.Path)
	require.Empty(t, result.TxHash)
	require.Zero(t, chain.hasVotedCalls, "store-only elections must not touch the ledger")

	entry, _ := store.GetRosterEntry(e.Id, "voter-1")
	require.True(t, entry.HasVoted)
	require.Equal(t, uint64(1), candidates[0].VoteCount)
}

func TestStoreVoteNotOnRoster(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	e := setupStoreOnlyElection(store)
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	_, err := svc.CastVote(context.Background(), fmt.Sprint(e.Id), storeVoteReq(candidates[0].Id),
		&auth.User{Id: "stranger", Verified: true})
	require.ErrorIs(t, err, common.ErrNotEligible)
}

func TestConcurrentDuplicateVotes(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	e := setupStoreOnlyElection(store, "voter-1")
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	const attempts = 8
	results := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := svc.CastVote(context.Background(), fmt.Sprint(e.Id), storeVoteReq(candidates[0].Id),
				&auth.User{Id: "voter-1", Verified: true})
			results <- err
		}()
	}
	start.Done()

	accepted, duplicates := 0, 0
	for i := 0; i < attempts; i++ {
		err := <-results
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, common.ErrAlreadyVoted):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, accepted, "exactly one vote must win the race")
	require.Equal(t, attempts-1, duplicates)
	require.Equal(t, uint64(1), candidates[0].VoteCount)
}

func TestLedgerVoteRecordedAndMirrored(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	result, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	e, err := store.GetElectionByLedgerId(*result.Election.LedgerId)
	require.NoError(t, err)
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	// the voter's wallet submitted the transaction on its own
	chain.markVoted(*e.LedgerId, "0xabc", *candidates[0].LedgerId)

	voter := &auth.User{Id: "voter-1", Verified: true, Address: "0xabc"}
	voteResult, err := svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[0].Id, "0xf00d"), voter)
	require.NoError(t, err)
	require.Equal(t, VotePathLedger, voteResult.Path)
	require.Equal(t, "0xf00d", voteResult.TxHash)

	mirrored, err := store.GetVoteByTxHash("0xf00d")
	require.NoError(t, err)
	require.Equal(t, "voter-1", mirrored.VoterId)
	require.Equal(t, uint64(1), candidates[0].VoteCount)
}

// Two users vote in the same ledger election from their own wallets. The
// second record must succeed: the chain keys hasVoted per sender, never per
// election.
func TestLedgerVotesIndependentPerVoter(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	result, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	e, _ := store.GetElectionByLedgerId(*result.Election.LedgerId)
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	chain.markVoted(*e.LedgerId, "0xaaa", *candidates[0].LedgerId)
	chain.markVoted(*e.LedgerId, "0xbbb", *candidates[1].LedgerId)

	_, err = svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[0].Id, "0xf001"),
		&auth.User{Id: "voter-1", Verified: true, Address: "0xaaa"})
	require.NoError(t, err)

	_, err = svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[1].Id, "0xf002"),
		&auth.User{Id: "voter-2", Verified: true, Address: "0xbbb"})
	require.NoError(t, err, "a prior vote by another voter must not block this one")

	votes, err := store.GetVotesByElectionId(e.Id)
	require.NoError(t, err)
	require.Len(t, votes, 2)
}

func TestLedgerVoteUnconfirmedRejected(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	result, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	e, _ := store.GetElectionByLedgerId(*result.Election.LedgerId)
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	// no wallet address at all
	_, err = svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[0].Id, "0xf00d"),
		&auth.User{Id: "voter-1", Verified: true})
	require.True(t, common.IsValidationError(err))

	// wallet never voted on chain
	_, err = svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[0].Id, "0xf00d"),
		&auth.User{Id: "voter-1", Verified: true, Address: "0xabc"})
	require.True(t, common.IsValidationError(err))

	exists, _ := store.HasVoteRecord(e.Id, "voter-1")
	require.False(t, exists, "nothing mirrored for a rejected record")
}

func TestLedgerVoteDuplicateTxRejected(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	result, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	e, _ := store.GetElectionByLedgerId(*result.Election.LedgerId)
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	chain.markVoted(*e.LedgerId, "0xaaa", *candidates[0].LedgerId)
	_, err = svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[0].Id, "0xf00d"),
		&auth.User{Id: "voter-1", Verified: true, Address: "0xaaa"})
	require.NoError(t, err)

	// same voter again
	_, err = svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[0].Id, "0xf00d"),
		&auth.User{Id: "voter-1", Verified: true, Address: "0xaaa"})
	require.ErrorIs(t, err, common.ErrAlreadyVoted)

	// another user replaying the same transaction
	_, err = svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[0].Id, "0xf00d"),
		&auth.User{Id: "voter-2", Verified: true, Address: "0xbbb"})
	require.ErrorIs(t, err, common.ErrAlreadyVoted)

	votes, _ := store.GetVotesByElectionId(e.Id)
	require.Len(t, votes, 1, "one transaction, one vote row")
}

func TestVoteOnInactiveElection(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	e := setupStoreOnlyElection(store, "voter-1")
	require.NoError(t, store.UpdateElectionStatusById(e.Id, false))
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	_, err := svc.CastVote(context.Background(), fmt.Sprint(e.Id), storeVoteReq(candidates[0].Id),
		&auth.User{Id: "voter-1", Verified: true})
	require.True(t, common.IsValidationError(err))
}

func TestDeleteLeavesDanglingLedgerRecord(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	created, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	e, _ := store.GetElectionByLedgerId(*created.Election.LedgerId)

	result, err := svc.Delete(context.Background(), fmt.Sprint(e.Id))
	require.NoError(t, err)
	require.True(t, result.StoreRemoved)
	require.True(t, result.LedgerDangling)

	// the dangling record is still served, tagged ledger-only
	merged, err := svc.ListElections(context.Background())
	require.NoError(t, err)
	require.Len(t, merged.Elections, 1)
	require.Equal(t, SourceLedger, merged.Elections[0].Source)
}

// A vote on an election that only exists on the ledger must still be
// recordable, resolved through the ledger id fallback.
func TestLedgerOnlyElectionVotable(t *testing.T) {
	store := newFakeStore()
	store.failSave = errors.New("store down")
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	created, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	require.True(t, created.SyncDegraded)

	chain.markVoted(1, "0xabc", 1)
	result, err := svc.CastVote(context.Background(), "1", ledgerVoteReq(1, "0xf00d"),
		&auth.User{Id: "voter-1", Verified: true, Address: "0xabc"})
	require.NoError(t, err)
	require.Equal(t, VotePathLedger, result.Path)
	require.Equal(t, "0xf00d", result.TxHash)
	require.Empty(t, store.votes, "no store row, no mirror to write")
}

func TestGetElectionLedgerIdFallback(t *testing.T) {
	store := newFakeStore()
	store.failSave = errors.New("store down")
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	created, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	require.True(t, created.SyncDegraded)

	// no store row exists, the ref resolves through the ledger id fallback
	dto, err := svc.GetElection(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "general", dto.Title)
	require.Equal(t, SourceLedger, dto.Source)
	require.Zero(t, dto.Id)
}

func TestUpdateElectionStoreFieldsWinMerge(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	created, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	e, _ := store.GetElectionByLedgerId(*created.Election.LedgerId)

	updated, err := svc.UpdateElection(context.Background(), fmt.Sprint(e.Id),
		&UpdateElectionRequest{Title: "renamed", Description: "edited"})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)

	// the ledger still carries the original title, the merged view serves
	// the store edit
	dto, err := svc.GetElection(context.Background(), fmt.Sprint(e.Id))
	require.NoError(t, err)
	require.Equal(t, SourceBoth, dto.Source)
	require.Equal(t, "renamed", dto.Title)
	require.Equal(t, "edited", dto.Description)
}

func TestUpdateElectionValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	e := setupStoreOnlyElection(store)

	_, err := svc.UpdateElection(context.Background(), fmt.Sprint(e.Id),
		&UpdateElectionRequest{EndTime: e.StartTime - 10})
	require.True(t, common.IsValidationError(err))
	require.EqualError(t, err, "End time must be after start time")
}

func TestUpdateElectionLedgerOnlyRejected(t *testing.T) {
	store := newFakeStore()
	store.failSave = errors.New("store down")
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	_, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)

	_, err = svc.UpdateElection(context.Background(), "1", &UpdateElectionRequest{Title: "renamed"})
	require.True(t, common.IsValidationError(err))
	require.EqualError(t, err, "Election has no store record")
}

func TestListVotesForElection(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	e := setupStoreOnlyElection(store, "voter-1", "voter-2")
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	for _, voterId := range []string{"voter-1", "voter-2"} {
		_, err := svc.CastVote(context.Background(), fmt.Sprint(e.Id), storeVoteReq(candidates[0].Id),
			&auth.User{Id: voterId, Verified: true})
		require.NoError(t, err)
	}

	votes, err := svc.ListVotes(context.Background(), fmt.Sprint(e.Id))
	require.NoError(t, err)
	require.Len(t, votes, 2)
}

func TestListElectionsFlagsUnavailableSource(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	_, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)

	store.failList = errors.New("store down")
	list, err := svc.ListElections(context.Background())
	require.NoError(t, err)
	require.True(t, list.StoreUnavailable)
	require.False(t, list.LedgerUnavailable)
	require.Len(t, list.Elections, 1)
	require.Equal(t, SourceLedger, list.Elections[0].Source)

	chain.failList = errors.New("rpc down")
	_, err = svc.ListElections(context.Background())
	require.Error(t, err, "no source left to serve")
}

func TestResultsOnlyForEndedElections(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	e := setupStoreOnlyElection(store, "voter-1", "voter-2")
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	_, err := svc.CastVote(context.Background(), fmt.Sprint(e.Id), storeVoteReq(candidates[1].Id),
		&auth.User{Id: "voter-1", Verified: true})
	require.NoError(t, err)

	_, err = svc.Results(context.Background(), fmt.Sprint(e.Id))
	require.True(t, common.IsValidationError(err), "results locked until the election ends")

	e.EndTime = time.Now().Unix() - 10
	results, err := svc.Results(context.Background(), fmt.Sprint(e.Id))
	require.NoError(t, err)
	require.Equal(t, int64(2), results.TotalVoters)
	require.Equal(t, int64(1), results.TotalVoted)
	require.Equal(t, "bob", results.Candidates[0].Name, "sorted by vote count desc")
	require.Equal(t, uint64(1), results.Candidates[0].VoteCount)
}

func TestVerifyVoteByTxHash(t *testing.T) {
	store := newFakeStore()
	chain := newFakeLedger()
	svc := newTestService(store, chain)

	created, err := svc.CreateElection(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	e, _ := store.GetElectionByLedgerId(*created.Election.LedgerId)
	candidates, _ := store.GetCandidatesByElectionId(e.Id)

	chain.markVoted(*e.LedgerId, "0xabc", *candidates[0].LedgerId)
	_, err = svc.CastVote(context.Background(), fmt.Sprint(e.Id), ledgerVoteReq(candidates[0].Id, "0xbeef"),
		&auth.User{Id: "voter-1", Verified: true, Address: "0xabc"})
	require.NoError(t, err)

	verified, err := svc.VerifyVote(context.Background(), "0xbeef")
	require.NoError(t, err)
	require.Equal(t, "voter-1", verified.VoterId)
	require.Equal(t, e.Id, verified.ElectionId)

	_, err = svc.VerifyVote(context.Background(), "0xmissing")
	require.ErrorIs(t, err, common.ErrNotFound)
}
