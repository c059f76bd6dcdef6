// Package appinfo reads the depot table out of a parsed app record.
//
// ExtractDepots keeps only depots that publish a public manifest gid and
// records the add-on and language markers the policy filter needs later.
package appinfo
