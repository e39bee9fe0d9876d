// Package version holds the build information reported by 'routerscout version'.
// The values are set at link time, for example:
//
//	go build -ldflags "-X github.com/netdevops/routerscout/internal/version.Version=v0.3.0 \
//	  -X github.com/netdevops/routerscout/internal/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

var (
	Version   string
	GitCommit string
	GitBranch string
	GitState  string // "clean" or "dirty"
	BuildTime string
	BuildHost string
)

// Info returns the version and commit, falling back to the module build info
// for binaries installed with 'go install'.
func Info() (version, commit string) {
	version, commit = Version, GitCommit
	if bi, ok := debug.ReadBuildInfo(); ok {
		if version == "" {
			version = bi.Main.Version
		}
		if commit == "" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					commit = s.Value
				}
			}
		}
	}
	if version == "" {
		version = "(devel)"
	}
	return version, commit
}

// PrintVersionInfo writes all build information to w, one field per line.
func PrintVersionInfo(w io.Writer) {
	version, commit := Info()
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Git Commit: %s\n", commit)
	fmt.Fprintf(w, "Git Branch: %s\n", GitBranch)
	fmt.Fprintf(w, "Git State: %s\n", GitState)
	fmt.Fprintf(w, "Build Time: %s\n", BuildTime)
	fmt.Fprintf(w, "Build Host: %s\n", BuildHost)
	fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
}

// VersionInfo returns the build information on a single line.
func VersionInfo() string {
	version, commit := Info()
	return fmt.Sprintf("Version: %s, Git Commit: %s, Build Time: %s, Go Version: %s", version, commit, BuildTime, runtime.Version())
}
