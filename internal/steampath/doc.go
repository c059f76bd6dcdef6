// Package steampath locates a Steam installation and describes the
// directories luamaker reads from it: config (trust-store), depotcache
// (manifests), and config/stplugin (existing plugin scripts).
package steampath
