// Package utils holds small helpers shared by the treemerge packages: version lookup,
// logger construction, size formatting and string list handling.
package utils

import (
	"runtime/debug"
)

const (
	unknownVersion        = "unknown"
	develVersion          = "(devel)"
	revisionSettingKey    = "vcs.revision"
	modifiedSettingKey    = "vcs.modified"
	shortRevisionLength   = 12
	modifiedVersionSuffix = "-dirty"
	revisionVersionPrefix = "devel-"
)

// GetApplicationVersion reports the module version stamped into the binary. Builds from a
// checkout without a tagged version fall back to the VCS revision recorded by the Go toolchain.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	return versionFromBuildInfo(buildInfo)
}

func versionFromBuildInfo(buildInfo *debug.BuildInfo) string {
	if buildInfo == nil {
		return unknownVersion
	}
	if buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	revision := EmptyString
	modified := false
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case revisionSettingKey:
			revision = setting.Value
		case modifiedSettingKey:
			modified = setting.Value == "true"
		}
	}
	if revision == EmptyString {
		return unknownVersion
	}
	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}
	version := revisionVersionPrefix + revision
	if modified {
		version += modifiedVersionSuffix
	}
	return version
}
