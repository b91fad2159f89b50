package transaction

import (
	"golang.org/x/crypto/sha3"

	"xmr_viewscan/moneroutil"
)

func Keccak256(data ...[]byte) (result moneroutil.Hash) {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	copy(result[:], h.Sum(nil))
	return
}

// hashV2 combines the hashes of the three blob sections. The prunable hash
// of a transaction without RingCT signatures is all zeros.
func hashV2(prefix, base, prunable []byte, rctType uint8) moneroutil.Hash {
	prefixHash := Keccak256(prefix)
	baseHash := Keccak256(base)
	prunableHash := moneroutil.NullHash
	if rctType != RctTypeNull {
		prunableHash = Keccak256(prunable)
	}
	return Keccak256(prefixHash[:], baseHash[:], prunableHash[:])
}

// PrefixHash is the hash of the transaction prefix, the message signed by
// the inputs.
func (tx *Transaction) PrefixHash() moneroutil.Hash {
	return Keccak256(tx.serializePrefix())
}
