package depotset

import (
	"errors"
	"fmt"
	"strings"

	"luamaker/internal/appinfo"
	"luamaker/internal/keystore"
)

// ErrMissingMainlineKey marks a depot without add-on or language markers
// whose key could not be found. It usually means the title is not owned.
var ErrMissingMainlineKey = errors.New("missing key for mainline depot")

// Resolved is a depot ready to be emitted. DecryptionKey is never empty.
type Resolved struct {
	DepotID          string
	ContentVersionID string
	DecryptionKey    string
	Name             string
}

// Resolution is the outcome of one key lookup.
type Resolution struct {
	DepotID string
	Key     string
	Err     error
}

// ResolveFunc looks up a depot's key.
type ResolveFunc func(depotID string) Resolution

// FromLookup adapts a (key, error) lookup such as keystore.Store.Resolve.
func FromLookup(lookup func(string) (string, error)) ResolveFunc {
	return func(depotID string) Resolution {
		key, err := lookup(depotID)
		return Resolution{DepotID: depotID, Key: key, Err: err}
	}
}

// DropReason names why a depot was left out.
type DropReason string

const (
	DropAddOn              DropReason = "add_on"
	DropLanguageRestricted DropReason = "language_restricted"
)

// Dropped records a depot left out because its key was missing.
type Dropped struct {
	Depot  appinfo.Depot
	Reason DropReason
	Err    error
}

// Result is the filtered depot set.
type Result struct {
	Kept    []Resolved
	Dropped []Dropped
}

// Apply resolves every candidate and partitions them. Kept preserves
// candidate order.
func Apply(candidates []appinfo.Depot, resolve ResolveFunc) (Result, error) {
	var result Result
	for _, depot := range candidates {
		outcome := resolve(depot.ID)
		err := outcome.Err
		if err == nil && strings.TrimSpace(outcome.Key) == "" {
			err = fmt.Errorf("%w: depot %s", keystore.ErrKeyNotFound, depot.ID)
		}
		if err == nil {
			result.Kept = append(result.Kept, Resolved{
				DepotID:          depot.ID,
				ContentVersionID: depot.ContentVersionID,
				DecryptionKey:    outcome.Key,
				Name:             depot.Name,
			})
			continue
		}
		switch {
		case depot.IsAddOn:
			result.Dropped = append(result.Dropped, Dropped{Depot: depot, Reason: DropAddOn, Err: err})
		case depot.IsLanguageRestricted:
			result.Dropped = append(result.Dropped, Dropped{Depot: depot, Reason: DropLanguageRestricted, Err: err})
		default:
			return Result{}, fmt.Errorf("%w: depot %s: %w", ErrMissingMainlineKey, depot.ID, err)
		}
	}
	if len(result.Kept) == 0 {
		return Result{}, fmt.Errorf("%w: all %d candidate depots were dropped", appinfo.ErrNoValidDepots, len(candidates))
	}
	return result, nil
}

// DepotIDs returns the kept depot ids in order.
func (r Result) DepotIDs() []string {
	ids := make([]string, 0, len(r.Kept))
	for _, d := range r.Kept {
		ids = append(ids, d.DepotID)
	}
	return ids
}
