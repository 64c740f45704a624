package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/neo"
)

// CommitteeAddress returns multi address of the Neo committee, i.e. the
// account of `M = N-(N-1)/2` out of N committee members.
func CommitteeAddress() []byte {
	committee := neo.GetCommittee()
	if committee == nil {
		panic("failed to get committee")
	}

	keys := []interop.PublicKey{}
	for _, key := range committee {
		keys = append(keys, key)
	}

	return contract.CreateMultisigAccount(len(keys)-(len(keys)-1)/2, keys)
}
