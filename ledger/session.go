package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	votingcommon "github.com/yashgajera132/blockchain-voting-system/common"
	"github.com/yashgajera132/blockchain-voting-system/keys"
)

// Session holds the live signer state for the ledger connection. Connect,
// Disconnect and SwitchAccount are explicit transitions; each bumps the
// generation counter. In-flight operations capture a Snapshot and check it
// against the live session after confirmation, so a mid-flight account change
// fails the operation instead of completing against a stale signer.
type Session struct {
	mtx        sync.RWMutex
	generation uint64
	connected  bool
	account    common.Address
	chainId    *big.Int
	opts       *bind.TransactOpts
}

type Snapshot struct {
	Generation uint64
	Account    common.Address
	ChainId    *big.Int

	opts *bind.TransactOpts
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Connect(km keys.KeyManager, chainId *big.Int) error {
	opts, err := km.TransactOpts(chainId)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	s.generation++
	s.connected = true
	s.account = km.GetAddr()
	s.chainId = chainId
	s.opts = opts
	s.mtx.Unlock()
	return nil
}

func (s *Session) Disconnect() {
	s.mtx.Lock()
	s.generation++
	s.connected = false
	s.account = common.Address{}
	s.opts = nil
	s.mtx.Unlock()
}

// SwitchAccount replaces the signer without dropping the connection.
func (s *Session) SwitchAccount(km keys.KeyManager) error {
	s.mtx.RLock()
	chainId := s.chainId
	connected := s.connected
	s.mtx.RUnlock()
	if !connected {
		return votingcommon.ErrNotConnected
	}
	return s.Connect(km, chainId)
}

func (s *Session) Snapshot() (*Snapshot, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	if !s.connected {
		return nil, votingcommon.ErrNotConnected
	}
	return &Snapshot{
		Generation: s.generation,
		Account:    s.account,
		ChainId:    s.chainId,
		opts:       s.opts,
	}, nil
}

func (s *Session) IsCurrent(snap *Snapshot) bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.connected && s.generation == snap.Generation
}

func (s *Session) Account() (common.Address, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	if !s.connected {
		return common.Address{}, votingcommon.ErrNotConnected
	}
	return s.account, nil
}

// TxOpts returns transact options bound to the snapshot's signer and the
// given context.
func (snap *Snapshot) TxOpts(ctx context.Context) *bind.TransactOpts {
	opts := *snap.opts
	opts.Context = ctx
	return &opts
}
