package keystore

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrDepotBlockNotFound = errors.New("depot block not found")
	ErrKeyNotFound        = errors.New("decryption key not found")
)

var (
	decryptionKeyPattern = regexp.MustCompile(`"DecryptionKey"\s*"([^"]+)"`)
	keyedBlockPattern    = regexp.MustCompile(`"(\d+)"\s*\{[^{}]*?"DecryptionKey"\s*"([^"]+)"`)
)

// Resolve returns the DecryptionKey of depotID's block in localRaw. The block
// runs from "<depotID>" { to the first closing brace after it.
func Resolve(localRaw, depotID string) (string, error) {
	block := regexp.MustCompile(`(?s)"` + regexp.QuoteMeta(depotID) + `"\s*\{(.*?)\}`)
	match := block.FindStringSubmatch(localRaw)
	if match == nil {
		return "", fmt.Errorf("%w: depot %s", ErrDepotBlockNotFound, depotID)
	}
	key := decryptionKeyPattern.FindStringSubmatch(match[1])
	if key == nil || strings.TrimSpace(key[1]) == "" {
		return "", fmt.Errorf("%w: depot %s", ErrKeyNotFound, depotID)
	}
	return key[1], nil
}

// Store is a loaded trust-store document.
type Store struct {
	raw string
}

// New wraps raw config.vdf text.
func New(raw string) *Store {
	return &Store{raw: raw}
}

// Resolve looks up depotID in the wrapped document.
func (s *Store) Resolve(depotID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("%w: depot %s", ErrDepotBlockNotFound, depotID)
	}
	return Resolve(s.raw, depotID)
}

// DepotIDs lists every numeric block that carries a DecryptionKey, in
// document order and without duplicates.
func (s *Store) DepotIDs() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range keyedBlockPattern.FindAllStringSubmatch(s.raw, -1) {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
	}
	return ids
}

// Len reports how many depots carry a key.
func (s *Store) Len() int {
	return len(s.DepotIDs())
}
