package reconcile

// Source tags where a merged record was found.
type Source string

const (
	SourceStore  Source = "store"
	SourceLedger Source = "ledger"
	SourceBoth   Source = "both"
)

const (
	VotePathStore  = "store"
	VotePathLedger = "ledger"
)

type CandidateDto struct {
	Id          int64   `json:"id"`
	LedgerId    *uint64 `json:"ledgerId,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Party       string  `json:"party"`
	ImageUrl    string  `json:"imageUrl"`
	VoteCount   uint64  `json:"voteCount"`
	Source      Source  `json:"source"`
}

type ElectionDto struct {
	Id          int64           `json:"id"`
	LedgerId    *uint64         `json:"ledgerId,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartTime   int64           `json:"startTime"`
	EndTime     int64           `json:"endTime"`
	IsActive    bool            `json:"isActive"`
	Status      string          `json:"status"`
	TxHash      string          `json:"txHash,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	Source      Source          `json:"source"`
	Candidates  []*CandidateDto `json:"candidates"`
}

type CreateElectionRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	StartTime   int64              `json:"startTime"`
	EndTime     int64              `json:"endTime"`
	Candidates  []CandidateRequest `json:"candidates"`
}

type CandidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Party       string `json:"party"`
	ImageUrl    string `json:"imageUrl"`
}

// UpdateElectionRequest carries a partial store-side edit; zero-valued fields
// keep the stored value.
type UpdateElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   int64  `json:"startTime"`
	EndTime     int64  `json:"endTime"`
}

// CastVoteRequest carries one vote. For ledger-backed elections the voter's
// wallet has already submitted the transaction; TxHash and BlockNumber
// identify it and the service records the confirmed vote. Store-only
// elections need only the candidate.
type CastVoteRequest struct {
	CandidateId string `json:"candidateId"`
	TxHash      string `json:"transactionHash"`
	BlockNumber uint64 `json:"blockNumber"`
}

// CreateResult reports a reconciled creation. SyncDegraded is set when the
// ledger write confirmed but the store mirror failed; the record is durable
// and will be repaired by the monitor backfill.
type CreateResult struct {
	Election     *ElectionDto `json:"election"`
	SyncDegraded bool         `json:"syncDegraded"`
}

// ElectionList is the merged list view. The unavailable flags mark a
// single-source response so callers can tell a degraded merge from an empty
// one.
type ElectionList struct {
	Elections         []*ElectionDto `json:"elections"`
	StoreUnavailable  bool           `json:"storeUnavailable,omitempty"`
	LedgerUnavailable bool           `json:"ledgerUnavailable,omitempty"`
}

type VoteDto struct {
	Id          int64  `json:"id"`
	VoterId     string `json:"voterId"`
	CandidateId int64  `json:"candidateId"`
	TxHash      string `json:"txHash,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	CreatedTime int64  `json:"createdTime"`
}

type VoteResult struct {
	Path        string `json:"path"`
	TxHash      string `json:"txHash,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

// DeleteResult reports the independent outcomes of a dual-store removal. A
// ledger-backed election cannot be removed from the ledger, so its record
// stays behind as a dangling ledger-only entry.
type DeleteResult struct {
	StoreRemoved   bool `json:"storeRemoved"`
	LedgerDangling bool `json:"ledgerDangling"`
}

type ElectionResults struct {
	ElectionId  int64           `json:"electionId"`
	Title       string          `json:"title"`
	TotalVoters int64           `json:"totalVoters"`
	TotalVoted  int64           `json:"totalVoted"`
	Candidates  []*CandidateDto `json:"candidates"`
}

type VerifiedVote struct {
	VoterId     string `json:"voterId"`
	ElectionId  int64  `json:"electionId"`
	CandidateId int64  `json:"candidateId"`
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
}
