package ledger

import "time"

const (
	RPCTimeout = 3 * time.Second

	EventElectionCreated = "ElectionCreated"
	EventCandidateAdded  = "CandidateAdded"
	EventVoteCast        = "VoteCast"
)
