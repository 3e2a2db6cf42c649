package keys

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/yashgajera132/blockchain-voting-system/util"
)

type KeyManager interface {
	GetPrivKey() *ecdsa.PrivateKey
	GetAddr() common.Address
	TransactOpts(chainId *big.Int) (*bind.TransactOpts, error)
}

type keyManager struct {
	privKey *ecdsa.PrivateKey
	addr    common.Address
}

func NewPrivateKeyManager(priKey string) (KeyManager, error) {
	privKey, err := crypto.HexToECDSA(util.TrimHexPrefix(priKey))
	if err != nil {
		return nil, fmt.Errorf("invalid signer private key: %w", err)
	}
	return &keyManager{
		privKey: privKey,
		addr:    crypto.PubkeyToAddress(privKey.PublicKey),
	}, nil
}

func (m *keyManager) GetPrivKey() *ecdsa.PrivateKey {
	return m.privKey
}

func (m *keyManager) GetAddr() common.Address {
	return m.addr
}

func (m *keyManager) TransactOpts(chainId *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(m.privKey, chainId)
}
