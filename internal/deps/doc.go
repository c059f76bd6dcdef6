// Package deps reports whether the external binaries luamaker shells out to
// are available.
package deps
