// Package depotset applies the inclusion policy that turns candidate depots
// and their key lookups into the final depot set.
//
// A depot whose key resolves is always kept. A depot whose key is missing is
// dropped when it is an add-on or language variant, and fails the whole run
// otherwise. Lookups are plain Resolution values so the policy can inspect
// the failure kind directly.
package depotset
