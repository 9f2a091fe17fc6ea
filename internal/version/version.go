// Package version provides the build version, set via ldflags on
// release builds and recovered from module metadata otherwise.
package version

import "runtime/debug"

var Version = "unknown"

func init() {
	if Version != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return
	}
	Version = info.Main.Version
}
