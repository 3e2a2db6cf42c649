package guard

import (
	"github.com/yashgajera132/blockchain-voting-system/auth"
	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"github.com/yashgajera132/blockchain-voting-system/logging"
)

type State int

const (
	StateNotEligible State = iota
	StateEligible
	StateVoted
)

func (s State) String() string {
	switch s {
	case StateEligible:
		return "ELIGIBLE"
	case StateVoted:
		return "VOTED"
	default:
		return "NOT_ELIGIBLE"
	}
}

// Decision is the guard verdict for one (voter, election) pair. Reason is set
// for NotEligible and Voted outcomes.
type Decision struct {
	State  State
	Reason string
}

func eligible() *Decision {
	return &Decision{State: StateEligible}
}

func notEligible(reason string) *Decision {
	return &Decision{State: StateNotEligible, Reason: reason}
}

func alreadyVoted() *Decision {
	return &Decision{State: StateVoted, Reason: "Already voted in this election"}
}

type VoteGuard struct {
	dataProvider DataProvider
}

func NewVoteGuard(dataProvider DataProvider) *VoteGuard {
	return &VoteGuard{
		dataProvider: dataProvider,
	}
}

// CheckStoreVote decides eligibility for a store-only election. The roster is
// the single source: no entry means not eligible, a HasVoted entry or an
// existing vote row means voted. The decision is advisory, the vote row
// unique constraint remains the atomic boundary.
func (g *VoteGuard) CheckStoreVote(election *model.Election, user *auth.User) (*Decision, error) {
	entry, err := g.dataProvider.GetRosterEntry(election.Id, user.Id)
	if err != nil {
		logging.Logger.Errorf("failed to load roster entry for election %d voter %s, err=%s",
			election.Id, user.Id, err.Error())
		return nil, err
	}
	if entry == nil {
		return notEligible("Only verified voters can vote"), nil
	}
	if entry.HasVoted {
		return alreadyVoted(), nil
	}
	voted, err := g.dataProvider.HasVoteRecord(election.Id, user.Id)
	if err != nil {
		return nil, err
	}
	if voted {
		return alreadyVoted(), nil
	}
	return eligible(), nil
}

// CheckLedgerVote decides whether a confirmed on-chain vote may be recorded.
// The contract keys its own checks to the sender wallet, so duplicate and
// verification control for the transaction itself happens on-chain; locally
// an already-recorded vote or an unverified identity rejects the attempt.
func (g *VoteGuard) CheckLedgerVote(election *model.Election, user *auth.User) (*Decision, error) {
	entry, err := g.dataProvider.GetRosterEntry(election.Id, user.Id)
	if err != nil {
		return nil, err
	}
	if entry != nil && entry.HasVoted {
		return alreadyVoted(), nil
	}
	voted, err := g.dataProvider.HasVoteRecord(election.Id, user.Id)
	if err != nil {
		return nil, err
	}
	if voted {
		return alreadyVoted(), nil
	}

	if !user.Verified {
		return notEligible("Only verified voters can vote"), nil
	}
	return eligible(), nil
}
