package utils

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Version and Commit are set at link time with -ldflags "-X github.com/KYVENetwork/dlt-sink/utils.Version=...".
var (
	Version string
	Commit  string
)

type Build struct {
	Version   string
	Commit    string
	GoVersion string
	Platform  string
}

// CurrentBuild reports the link-time version, falling back to the module and vcs data embedded by the go tool.
func CurrentBuild() Build {
	info, _ := debug.ReadBuildInfo()
	return newBuild(Version, Commit, info)
}

func newBuild(version, commit string, info *debug.BuildInfo) Build {
	build := Build{
		Version:   strings.TrimSpace(version),
		Commit:    strings.TrimSpace(commit),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if info != nil {
		if info.GoVersion != "" {
			build.GoVersion = info.GoVersion
		}
		if build.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			build.Version = info.Main.Version
		}
		if build.Commit == "" {
			var revision string
			var modified bool
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					revision = setting.Value
				case "vcs.modified":
					modified = setting.Value == "true"
				}
			}
			if len(revision) > 12 {
				revision = revision[:12]
			}
			if revision != "" && modified {
				revision += "-dirty"
			}
			build.Commit = revision
		}
	}

	if build.Version == "" {
		build.Version = "local"
	}
	if build.Commit == "" {
		build.Commit = "unknown"
	}
	return build
}
