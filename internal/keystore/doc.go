// Package keystore recovers depot decryption keys from Steam's local
// config.vdf.
//
// Lookups are targeted regular-expression matches against the raw text
// rather than a full parse: config.vdf routinely carries sections the
// document parser has no use for, and only the flat DecryptionKey value in
// a depot's own block matters here.
package keystore
