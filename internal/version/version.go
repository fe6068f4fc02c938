// Package version holds the build information of the jhipster binary.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the tool version, compared with jhipsterVersion in .yo-rc.json and with
	// blueprint constraints. Set with -ldflags at build time.
	Version = "1.0.0"
	// BuildDate and GitCommit are stamped by the release build.
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String is the one line form printed by --version.
func (i Info) String() string {
	return fmt.Sprintf("jhipster-go %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// Markdown renders the details for the info and version commands.
func (i Info) Markdown() string {
	return fmt.Sprintf("| | |\n|---|---|\n| Version | %s |\n| Build date | %s |\n| Git commit | %s |\n| Platform | %s |\n| Go | %s |\n",
		i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}
