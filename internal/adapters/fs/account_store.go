package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// SmartAccountKey is the storage key holding the derived smart-account address
const SmartAccountKey = "userSafeAddress"

// AccountStoreAdapter keeps string values in a small JSON key/value file
type AccountStoreAdapter struct {
	path string
	mu   sync.Mutex
}

// NewAccountStoreAdapter creates a store backed by <data dir>/storage.json
func NewAccountStoreAdapter(cfg *config.RuntimeConfig) *AccountStoreAdapter {
	return &AccountStoreAdapter{
		path: filepath.Join(cfg.DataDir, "storage.json"),
	}
}

// GetSmartAccount returns the stored smart-account address, if any
func (s *AccountStoreAdapter) GetSmartAccount(ctx context.Context) (common.Address, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return common.Address{}, false, err
	}
	raw, ok := values[SmartAccountKey]
	if !ok || raw == "" {
		return common.Address{}, false, nil
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, false, fmt.Errorf("invalid %s in %s: %q", SmartAccountKey, s.path, raw)
	}
	return common.HexToAddress(raw), true, nil
}

// SetSmartAccount stores address, keeping any other keys in the file
func (s *AccountStoreAdapter) SetSmartAccount(ctx context.Context, address common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[SmartAccountKey] = address.Hex()
	return s.save(values)
}

func (s *AccountStoreAdapter) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse storage file: %w", err)
	}
	return values, nil
}

func (s *AccountStoreAdapter) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

// GetPath returns the path to the storage file
func (s *AccountStoreAdapter) GetPath() string {
	return s.path
}

var _ usecase.AccountStore = (*AccountStoreAdapter)(nil)
