package common

// HasUpdateAccess returns true if contract can be updated.
func HasUpdateAccess() bool {
	return HasCommitteeWitness()
}
