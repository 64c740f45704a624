package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

const (
	major = 0
	minor = 2
	patch = 0

	// Oldest version Update accepts. 0.1.0 stored the same layout, so an
	// update from it needs no storage migration.
	prevMajor = 0
	prevMinor = 1
	prevPatch = 0

	// Version is the current contract version encoded as major*1e6+minor*1e3+patch.
	Version = major*1_000_000 + minor*1_000 + patch

	// PrevVersion is the encoded oldest version the contract can be updated from.
	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch

	// ErrVersionMismatch is thrown by CheckVersion in case of error.
	ErrVersionMismatch = "previous version mismatch"

	// ErrAlreadyUpdated is thrown by CheckVersion when the contract already
	// runs the current version.
	ErrAlreadyUpdated = "contract is already of the latest version"
)

// CheckVersion panics unless a contract of the given version can be updated
// to the current one.
func CheckVersion(from int) {
	if from < PrevVersion {
		panic(ErrVersionMismatch + ": expected >=" + std.Itoa(PrevVersion, 10))
	}
	if from == Version {
		panic(ErrAlreadyUpdated + ": " + std.Itoa(Version, 10))
	}
}

// AppendVersion appends current contract version to the list of deploy arguments.
func AppendVersion(data any) []any {
	if data == nil {
		return []any{Version}
	}
	return append(data.([]any), Version)
}
