package version

import (
	"runtime/debug"

	"golang.org/x/mod/semver"
)

// Version reports the module version the binary was built from, or the git
// revision for development builds. It returns "devel" when neither is known.
func Version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}
	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) string {
	if v := bi.Main.Version; semver.IsValid(v) {
		return semver.Canonical(v)
	}
	if rev := runtimeRevision(bi); rev != "" {
		return rev
	}
	return "devel"
}

// runtimeRevision searches the buildinfo for the git revision, if present.
func runtimeRevision(bi *debug.BuildInfo) string {
	var rev string
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
