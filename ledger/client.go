package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/yashgajera132/blockchain-voting-system/common"
	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/keys"
	"github.com/yashgajera132/blockchain-voting-system/logging"
)

type ElectionView struct {
	LedgerId    uint64
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	IsActive    bool
}

type CandidateView struct {
	LedgerId    uint64
	Name        string
	Description string
	ImageUrl    string
	VoteCount   uint64
}

type EventKind int

const (
	KindElectionCreated EventKind = iota
	KindCandidateAdded
	KindVoteCast
)

// ContractEvent is one decoded log entry from the voting contract.
type ContractEvent struct {
	Kind        EventKind
	BlockNumber uint64
	TxHash      string
	ElectionId  uint64
	CandidateId uint64
	Voter       string
}

// Client issues transactions and reads against the on-chain voting contract.
// Mutations are two-phase: the write is durable only once the transaction is
// mined. Reads run under RPCTimeout and may be stale relative to the latest
// block.
type Client struct {
	cfg      *config.LedgerConfig
	eth      *ethclient.Client
	contract *contractBinding
	session  *Session
}

func NewClient(cfg *config.LedgerConfig, session *Session) (*Client, error) {
	eth, err := ethclient.Dial(cfg.RPCAddr)
	if err != nil {
		logging.Logger.Errorf("ledger client failed to dial rpc %s, err=%s", cfg.RPCAddr, err.Error())
		return nil, common.ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), RPCTimeout)
	defer cancel()
	chainId, err := eth.ChainID(ctx)
	if err != nil {
		logging.Logger.Errorf("ledger client failed to query chain id, err=%s", err.Error())
		return nil, common.ErrNotConnected
	}
	if chainId.Int64() != cfg.ChainId {
		logging.Logger.Errorf("ledger client connected to chain %d, expected %d", chainId.Int64(), cfg.ChainId)
		return nil, common.ErrNetworkMismatch
	}

	contract, err := newContractBinding(ethcommon.HexToAddress(cfg.ContractAddress), eth)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:      cfg,
		eth:      eth,
		contract: contract,
		session:  session,
	}, nil
}

func (c *Client) Connect(km keys.KeyManager) error {
	return c.session.Connect(km, big.NewInt(c.cfg.ChainId))
}

func (c *Client) Session() *Session {
	return c.session
}

// Account returns the connected signer address.
func (c *Client) Account() (string, error) {
	addr, err := c.session.Account()
	if err != nil {
		return "", err
	}
	return addr.Hex(), nil
}

// CreateElection submits the creation transaction and waits for confirmation.
// The ledger-assigned election id is parsed from the ElectionCreated event.
func (c *Client) CreateElection(ctx context.Context, title, description string, start, end time.Time) (uint64, string, error) {
	snap, err := c.session.Snapshot()
	if err != nil {
		return 0, "", err
	}

	opts := snap.TxOpts(ctx)
	opts.GasLimit = c.cfg.GasLimit
	tx, err := c.contract.createElection(opts, title, description,
		big.NewInt(start.Unix()), big.NewInt(end.Unix()))
	if err != nil {
		return 0, "", translateError(err)
	}

	receipt, err := c.waitMined(ctx, snap, tx)
	if err != nil {
		return 0, "", err
	}

	ledgerId, ok := c.firstIndexedId(receipt, EventElectionCreated)
	if !ok {
		return 0, "", fmt.Errorf("no ElectionCreated event in receipt for tx %s", tx.Hash().Hex())
	}
	return ledgerId, tx.Hash().Hex(), nil
}

func (c *Client) AddCandidate(ctx context.Context, electionId uint64, name, description, imageUrl string) (uint64, string, error) {
	snap, err := c.session.Snapshot()
	if err != nil {
		return 0, "", err
	}

	opts := snap.TxOpts(ctx)
	opts.GasLimit = c.cfg.GasLimit
	tx, err := c.contract.addCandidate(opts, new(big.Int).SetUint64(electionId), name, description, imageUrl)
	if err != nil {
		return 0, "", translateError(err)
	}

	receipt, err := c.waitMined(ctx, snap, tx)
	if err != nil {
		return 0, "", err
	}

	candidateId, ok := c.secondIndexedId(receipt, EventCandidateAdded)
	if !ok {
		return 0, "", fmt.Errorf("no CandidateAdded event in receipt for tx %s", tx.Hash().Hex())
	}
	return candidateId, tx.Hash().Hex(), nil
}

// VerifyVoter marks a wallet as verified on the contract. Vote transactions
// themselves are submitted by the voter's own wallet; the contract keys its
// per-voter bookkeeping to the sender, so the service never signs a vote.
func (c *Client) VerifyVoter(ctx context.Context, voter string) (string, error) {
	snap, err := c.session.Snapshot()
	if err != nil {
		return "", err
	}

	opts := snap.TxOpts(ctx)
	opts.GasLimit = c.cfg.GasLimit
	tx, err := c.contract.verifyVoter(opts, ethcommon.HexToAddress(voter))
	if err != nil {
		return "", translateError(err)
	}

	if _, err := c.waitMined(ctx, snap, tx); err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

// waitMined blocks until the transaction is confirmed. The wait itself has no
// timeout beyond the caller's context; abandoning it leaves no local state
// behind, the monitor reconciles anything that confirms later.
func (c *Client) waitMined(ctx context.Context, snap *Snapshot, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, translateError(err)
	}
	if !c.session.IsCurrent(snap) {
		logging.Logger.Errorf("session changed while waiting for tx %s", tx.Hash().Hex())
		return nil, common.ErrStaleSession
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, common.NewRevertError("transaction reverted")
	}
	return receipt, nil
}

func (c *Client) GetElection(ctx context.Context, ledgerId uint64) (*ElectionView, error) {
	ctx, cancel := context.WithTimeout(ctx, RPCTimeout)
	defer cancel()

	title, description, start, end, isActive, err := c.contract.getElection(
		&bind.CallOpts{Context: ctx}, new(big.Int).SetUint64(ledgerId))
	if err != nil {
		return nil, translateError(err)
	}
	return &ElectionView{
		LedgerId:    ledgerId,
		Title:       title,
		Description: description,
		StartTime:   time.Unix(start.Int64(), 0),
		EndTime:     time.Unix(end.Int64(), 0),
		IsActive:    isActive,
	}, nil
}

func (c *Client) GetCandidate(ctx context.Context, electionId, candidateId uint64) (*CandidateView, error) {
	ctx, cancel := context.WithTimeout(ctx, RPCTimeout)
	defer cancel()

	name, description, imageUrl, voteCount, err := c.contract.getCandidate(
		&bind.CallOpts{Context: ctx},
		new(big.Int).SetUint64(electionId), new(big.Int).SetUint64(candidateId))
	if err != nil {
		return nil, translateError(err)
	}
	return &CandidateView{
		LedgerId:    candidateId,
		Name:        name,
		Description: description,
		ImageUrl:    imageUrl,
		VoteCount:   voteCount.Uint64(),
	}, nil
}

func (c *Client) GetElectionCount(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, RPCTimeout)
	defer cancel()

	count, err := c.contract.getElectionCount(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, translateError(err)
	}
	return count.Uint64(), nil
}

// ListElections reads every election on the ledger. Ids are assigned
// sequentially starting at 1.
func (c *Client) ListElections(ctx context.Context) ([]*ElectionView, error) {
	count, err := c.GetElectionCount(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*ElectionView, 0, count)
	for id := uint64(1); id <= count; id++ {
		view, err := c.GetElection(ctx, id)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (c *Client) ListCandidates(ctx context.Context, electionId uint64) ([]*CandidateView, error) {
	callCtx, cancel := context.WithTimeout(ctx, RPCTimeout)
	count, err := c.contract.getCandidateCount(&bind.CallOpts{Context: callCtx}, new(big.Int).SetUint64(electionId))
	cancel()
	if err != nil {
		return nil, translateError(err)
	}

	views := make([]*CandidateView, 0, count.Uint64())
	for id := uint64(1); id <= count.Uint64(); id++ {
		view, err := c.GetCandidate(ctx, electionId, id)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (c *Client) IsVerifiedVoter(ctx context.Context, voter string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, RPCTimeout)
	defer cancel()

	verified, err := c.contract.isVerifiedVoter(&bind.CallOpts{Context: ctx}, ethcommon.HexToAddress(voter))
	if err != nil {
		return false, translateError(err)
	}
	return verified, nil
}

func (c *Client) HasVoted(ctx context.Context, electionId uint64, voter string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, RPCTimeout)
	defer cancel()

	voted, err := c.contract.hasVoted(&bind.CallOpts{Context: ctx},
		new(big.Int).SetUint64(electionId), ethcommon.HexToAddress(voter))
	if err != nil {
		return false, translateError(err)
	}
	return voted, nil
}

func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, RPCTimeout)
	defer cancel()

	height, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, translateError(err)
	}
	return height, nil
}

// FilterEvents fetches and decodes contract logs in [fromBlock, toBlock].
func (c *Client) FilterEvents(ctx context.Context, fromBlock, toBlock uint64) ([]*ContractEvent, error) {
	logs, err := c.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []ethcommon.Address{c.contract.address},
	})
	if err != nil {
		return nil, translateError(err)
	}

	events := make([]*ContractEvent, 0, len(logs))
	for i := range logs {
		event := c.decodeLog(&logs[i])
		if event != nil {
			events = append(events, event)
		}
	}
	return events, nil
}

func (c *Client) decodeLog(log *types.Log) *ContractEvent {
	if len(log.Topics) == 0 {
		return nil
	}
	event := &ContractEvent{
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash.Hex(),
	}
	switch log.Topics[0] {
	case c.contract.eventID(EventElectionCreated):
		event.Kind = KindElectionCreated
		event.ElectionId = log.Topics[1].Big().Uint64()
	case c.contract.eventID(EventCandidateAdded):
		event.Kind = KindCandidateAdded
		event.ElectionId = log.Topics[1].Big().Uint64()
		event.CandidateId = log.Topics[2].Big().Uint64()
	case c.contract.eventID(EventVoteCast):
		event.Kind = KindVoteCast
		event.ElectionId = log.Topics[1].Big().Uint64()
		event.CandidateId = log.Topics[2].Big().Uint64()
		event.Voter = ethcommon.BytesToAddress(log.Topics[3].Bytes()).Hex()
	default:
		return nil
	}
	return event
}

func (c *Client) firstIndexedId(receipt *types.Receipt, eventName string) (uint64, bool) {
	id := c.contract.eventID(eventName)
	for _, log := range receipt.Logs {
		if len(log.Topics) >= 2 && log.Topics[0] == id {
			return log.Topics[1].Big().Uint64(), true
		}
	}
	return 0, false
}

func (c *Client) secondIndexedId(receipt *types.Receipt, eventName string) (uint64, bool) {
	id := c.contract.eventID(eventName)
	for _, log := range receipt.Logs {
		if len(log.Topics) >= 3 && log.Topics[0] == id {
			return log.Topics[2].Big().Uint64(), true
		}
	}
	return 0, false
}
