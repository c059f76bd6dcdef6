// Package preflight provides readiness checks for the binaries and
// filesystem paths luamaker depends on.
//
// The CLI "luamaker status" command runs RunAll and renders the results as a
// table. The workflow manager calls CheckSteamLayout before reading the
// trust-store so a bad Steam directory fails with a readable message.
package preflight
