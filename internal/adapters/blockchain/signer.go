package blockchain

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
)

// Signer holds the wallet key loaded from VAULTCTL_PRIVATE_KEY
type Signer struct {
	key *ecdsa.PrivateKey
	err error
}

// NewSigner parses the configured private key. A missing key is not an
// error here; it surfaces as domain.ErrNoWalletAddress on first use.
func NewSigner(cfg *config.RuntimeConfig) *Signer {
	raw := strings.TrimPrefix(cfg.PrivateKey, "0x")
	if raw == "" {
		return &Signer{err: domain.ErrNoWalletAddress}
	}
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return &Signer{err: fmt.Errorf("%w: invalid VAULTCTL_PRIVATE_KEY: %v", domain.ErrNoWalletAddress, err)}
	}
	return &Signer{key: key}
}

// Key returns the private key
func (s *Signer) Key() (*ecdsa.PrivateKey, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.key, nil
}

// Address returns the wallet address
func (s *Signer) Address() (common.Address, error) {
	key, err := s.Key()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// SignHash signs a 32-byte digest and returns the signature with v in {27, 28}
func (s *Signer) SignHash(hash common.Hash) ([]byte, error) {
	key, err := s.Key()
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

// SignPersonal signs data with the EIP-191 personal message prefix
func (s *Signer) SignPersonal(data []byte) ([]byte, error) {
	msg := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(data), data)
	return s.SignHash(crypto.Keccak256Hash([]byte(msg)))
}
