// Package main hosts the luamaker CLI entrypoint and command graph.
//
// The Cobra-based command tree turns an app id into a Lua depot script and a
// folder of cached manifests (generate), shows what a run would do without
// writing anything (inspect), and surfaces the supporting state: preflight
// checks (status), past runs (history), the Steam path cache (cache), log
// viewing (logs), ntfy checks (test-notify), and configuration scaffolding
// (config). Configuration resolution and logger setup are centralized in
// commandContext so subcommands stay declarative.
package main
