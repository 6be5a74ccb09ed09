/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package version holds build-time version metadata, set via -ldflags
// at release build time and falling back to Go's embedded module
// build info otherwise.
package version

import "runtime/debug"

// version is overridden at release build time with
// -ldflags "-X go.tsh.dev/tsh/internal/version.version=v1.2.3".
var version = "dev"

// BuildInfo is the structured payload printed by `tsh version -o json`.
type BuildInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
	Commit    string `json:"commit,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// GetVersion returns the release version, or "dev" plus the module's
// vcs revision when built without -ldflags (e.g. `go install`).
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if rev, ok := vcsRevision(); ok {
		return "dev+" + rev
	}
	return version
}

// GetBuildInfo returns the full structured build metadata.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   GetVersion(),
		GoVersion: runtimeVersion(),
	}
	if rev, modified, ok := vcsInfo(); ok {
		info.Commit = rev
		info.Modified = modified
	}
	return info
}

func runtimeVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi.GoVersion
	}
	return "unknown"
}

func vcsRevision() (string, bool) {
	rev, _, ok := vcsInfo()
	return rev, ok
}

func vcsInfo() (revision string, modified bool, ok bool) {
	bi, available := debug.ReadBuildInfo()
	if !available {
		return "", false, false
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "", false, false
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	return revision, modified, true
}
