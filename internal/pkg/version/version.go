package version

import "runtime/debug"

// Tag is set at link time: -ldflags "-X oap-netconfig/internal/pkg/version.Tag=v1.2.0"
var Tag = "none"

type gitInfo struct {
	Commit string
	Tag    string
	Time   string
	Dirty  bool
	Go     string
}

// GetGitInfo returns the VCS metadata recorded by the Go toolchain at build time.
func GetGitInfo() gitInfo {
	info := gitInfo{Commit: "unknown", Tag: Tag, Time: "unknown"}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Go = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.Time = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}
