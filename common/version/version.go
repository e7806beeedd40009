// Package version implements seedrand software and format versioning.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Version is a software or data format version.
type Version struct {
	Major uint16
	Minor uint16
	Patch uint16
}

// ToU64 packs the version into a uint64, 16 bits per component.
func (v Version) ToU64() uint64 {
	return (uint64(v.Major) << 32) | (uint64(v.Minor) << 16) | (uint64(v.Patch))
}

// FromU64 unpacks a version packed by ToU64.
func FromU64(v uint64) Version {
	return Version{
		Major: uint16((v >> 32) & 0xffff),
		Minor: uint16((v >> 16) & 0xffff),
		Patch: uint16(v & 0xffff),
	}
}

// String returns the version as a string.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// VersionUndefined represents an undefined version.
const VersionUndefined = "0.0-unset"

var (
	// SoftwareVersion represents the seedrand software version and should
	// be set by the linker.
	SoftwareVersion = VersionUndefined

	// GitBranch is the name of the git branch of the software.
	//
	// NOTE: This should be set by the linker.
	GitBranch = ""

	// StreamFormat versions the textual generator stream format.
	StreamFormat = Version{Major: 1, Minor: 0, Patch: 0}

	// SnapshotFormat versions the binary generator snapshot format.
	SnapshotFormat = Version{Major: 1, Minor: 0, Patch: 0}

	// Toolchain is the version of the Go compiler/standard library.
	Toolchain = strings.TrimPrefix(runtime.Version(), "go")
)

// Versions contains all known versions.
var Versions = struct {
	StreamFormat   Version
	SnapshotFormat Version
	Toolchain      string
}{
	StreamFormat,
	SnapshotFormat,
	Toolchain,
}
