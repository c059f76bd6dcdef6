// Package testsupport holds fixtures shared by package tests: a temp-dir
// backed config with a skeletal Steam installation, and canned metadata and
// trust-store documents.
package testsupport
