package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

const (
	// ErrCommitteeWitnessFailed appears when the method must be
	// called by the committee but was not.
	ErrCommitteeWitnessFailed = "not witnessed by committee"
	// ErrOwnerWitnessFailed appears when the method must be called
	// by an owner of some assets but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
)

// HasCommitteeWitness returns true if the script container is signed by the
// committee multisignature account.
func HasCommitteeWitness() bool {
	return runtime.CheckWitness(CommitteeAddress())
}

// CheckCommitteeWitness panics with ErrCommitteeWitnessFailed message if the
// script container is not signed by the committee.
func CheckCommitteeWitness() {
	if !HasCommitteeWitness() {
		panic(ErrCommitteeWitnessFailed)
	}
}

// CheckOwnerOrCommitteeWitness checks witness of the passed owner and falls
// back to the committee one. It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerOrCommitteeWitness(owner []byte) {
	if !runtime.CheckWitness(owner) && !HasCommitteeWitness() {
		panic(ErrOwnerWitnessFailed)
	}
}
