// Package paths provides centralized path handling for locmerge.
//
// Cache and state locations follow the XDG Base Directory specification:
//
//   - Cache: $XDG_CACHE_HOME/locmerge (source snapshot database)
//   - State: $XDG_STATE_HOME/locmerge (log file)
//
// Both can be overridden with LOCMERGE_CACHE_DIR and LOCMERGE_STATE_DIR.
// Every output variant owns its own directory under the output root.
package paths
