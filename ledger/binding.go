package ledger

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ABI surface of the deployed Voting contract. The bytecode itself is an
// external collaborator; only this interface is bound.
const votingABI = `[
  {"type":"function","name":"createElection","stateMutability":"nonpayable","inputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"addCandidate","stateMutability":"nonpayable","inputs":[{"name":"electionId","type":"uint256"},{"name":"name","type":"string"},{"name":"description","type":"string"},{"name":"imageUrl","type":"string"}],"outputs":[]},
  {"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[{"name":"electionId","type":"uint256"},{"name":"candidateId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"verifyVoter","stateMutability":"nonpayable","inputs":[{"name":"voter","type":"address"}],"outputs":[]},
  {"type":"function","name":"getElection","stateMutability":"view","inputs":[{"name":"electionId","type":"uint256"}],"outputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"isActive","type":"bool"}]},
  {"type":"function","name":"getCandidate","stateMutability":"view","inputs":[{"name":"electionId","type":"uint256"},{"name":"candidateId","type":"uint256"}],"outputs":[{"name":"name","type":"string"},{"name":"description","type":"string"},{"name":"imageUrl","type":"string"},{"name":"voteCount","type":"uint256"}]},
  {"type":"function","name":"getElectionCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getCandidateCount","stateMutability":"view","inputs":[{"name":"electionId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"isVerifiedVoter","stateMutability":"view","inputs":[{"name":"voter","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"hasVoted","stateMutability":"view","inputs":[{"name":"electionId","type":"uint256"},{"name":"voter","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"ElectionCreated","inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"title","type":"string","indexed":false}],"anonymous":false},
  {"type":"event","name":"CandidateAdded","inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"candidateId","type":"uint256","indexed":true},{"name":"name","type":"string","indexed":false}],"anonymous":false},
  {"type":"event","name":"VoteCast","inputs":[{"name":"electionId","type":"uint256","indexed":true},{"name":"candidateId","type":"uint256","indexed":true},{"name":"voter","type":"address","indexed":true}],"anonymous":false}
]`

type contractBinding struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
}

func newContractBinding(address common.Address, backend bind.ContractBackend) (*contractBinding, error) {
	parsed, err := abi.JSON(strings.NewReader(votingABI))
	if err != nil {
		return nil, err
	}
	return &contractBinding{
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (b *contractBinding) createElection(opts *bind.TransactOpts, title, description string, start, end *big.Int) (*types.Transaction, error) {
	return b.bound.Transact(opts, "createElection", title, description, start, end)
}

func (b *contractBinding) addCandidate(opts *bind.TransactOpts, electionId *big.Int, name, description, imageUrl string) (*types.Transaction, error) {
	return b.bound.Transact(opts, "addCandidate", electionId, name, description, imageUrl)
}

func (b *contractBinding) verifyVoter(opts *bind.TransactOpts, voter common.Address) (*types.Transaction, error) {
	return b.bound.Transact(opts, "verifyVoter", voter)
}

func (b *contractBinding) getElection(opts *bind.CallOpts, electionId *big.Int) (title, description string, start, end *big.Int, isActive bool, err error) {
	var out []interface{}
	err = b.bound.Call(opts, &out, "getElection", electionId)
	if err != nil {
		return
	}
	title = out[0].(string)
	description = out[1].(string)
	start = out[2].(*big.Int)
	end = out[3].(*big.Int)
	isActive = out[4].(bool)
	return
}

func (b *contractBinding) getCandidate(opts *bind.CallOpts, electionId, candidateId *big.Int) (name, description, imageUrl string, voteCount *big.Int, err error) {
	var out []interface{}
	err = b.bound.Call(opts, &out, "getCandidate", electionId, candidateId)
	if err != nil {
		return
	}
	name = out[0].(string)
	description = out[1].(string)
	imageUrl = out[2].(string)
	voteCount = out[3].(*big.Int)
	return
}

func (b *contractBinding) getElectionCount(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := b.bound.Call(opts, &out, "getElectionCount")
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (b *contractBinding) getCandidateCount(opts *bind.CallOpts, electionId *big.Int) (*big.Int, error) {
	var out []interface{}
	err := b.bound.Call(opts, &out, "getCandidateCount", electionId)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (b *contractBinding) isVerifiedVoter(opts *bind.CallOpts, voter common.Address) (bool, error) {
	var out []interface{}
	err := b.bound.Call(opts, &out, "isVerifiedVoter", voter)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func (b *contractBinding) hasVoted(opts *bind.CallOpts, electionId *big.Int, voter common.Address) (bool, error) {
	var out []interface{}
	err := b.bound.Call(opts, &out, "hasVoted", electionId, voter)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func (b *contractBinding) eventID(name string) common.Hash {
	return b.abi.Events[name].ID
}
