package transaction

import (
	"bytes"
	"fmt"

	"xmr_viewscan/moneroutil"
)

// Serialize encodes the transaction back into its wire form and sets Hash.
// Version 1 signatures are not modelled, so a version 1 blob ends after the
// prefix and its hash covers the prefix only.
func (tx *Transaction) Serialize() ([]byte, error) {
	prefix := tx.serializePrefix()
	if tx.Version < 2 {
		tx.Hash = Keccak256(prefix)
		return prefix, nil
	}

	base, err := tx.serializeRctBase()
	if err != nil {
		return nil, err
	}
	tx.Hash = hashV2(prefix, base, tx.Prunable, tx.RctType)

	blob := make([]byte, 0, len(prefix)+len(base)+len(tx.Prunable))
	blob = append(blob, prefix...)
	blob = append(blob, base...)
	blob = append(blob, tx.Prunable...)
	return blob, nil
}

func (tx *Transaction) serializePrefix() []byte {
	var buf bytes.Buffer

	buf.Write(moneroutil.Uint64ToBytes(tx.Version))
	buf.Write(moneroutil.Uint64ToBytes(tx.UnlockTime))

	buf.Write(moneroutil.Uint64ToBytes(uint64(len(tx.Inputs))))
	for _, input := range tx.Inputs {
		switch in := input.(type) {
		case TxInGen:
			buf.WriteByte(tagInGen)
			buf.Write(moneroutil.Uint64ToBytes(in.Height))
		case TxInToKey:
			buf.WriteByte(tagInToKey)
			buf.Write(moneroutil.Uint64ToBytes(in.Amount))
			buf.Write(moneroutil.Uint64ToBytes(uint64(len(in.KeyOffsets))))
			for _, offset := range in.KeyOffsets {
				buf.Write(moneroutil.Uint64ToBytes(offset))
			}
			buf.Write(in.KeyImage[:])
		}
	}

	buf.Write(moneroutil.Uint64ToBytes(uint64(len(tx.Outputs))))
	for _, output := range tx.Outputs {
		buf.Write(moneroutil.Uint64ToBytes(output.Amount))
		switch t := output.Target.(type) {
		case TxOutToKey:
			buf.WriteByte(tagOutToKey)
			buf.Write(t.Key[:])
		case TxOutToTaggedKey:
			buf.WriteByte(tagOutToTaggedKey)
			buf.Write(t.Key[:])
			buf.WriteByte(t.ViewTag)
		}
	}

	buf.Write(moneroutil.Uint64ToBytes(uint64(len(tx.Extra))))
	buf.Write(tx.Extra)

	return buf.Bytes()
}

func (tx *Transaction) serializeRctBase() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(tx.RctType)
	if tx.RctType == RctTypeNull {
		return buf.Bytes(), nil
	}

	buf.Write(moneroutil.Uint64ToBytes(tx.Fee))

	if tx.RctType == RctTypeSimple {
		if len(tx.PseudoOuts) != len(tx.Inputs) {
			return nil, fmt.Errorf("%w: %d pseudo outs for %d inputs", ErrMalformed, len(tx.PseudoOuts), len(tx.Inputs))
		}
		for _, ps := range tx.PseudoOuts {
			buf.Write(ps[:])
		}
	}

	compact := CompactAmounts(tx.RctType)
	for i, output := range tx.Outputs {
		enc := output.Encrypted
		if enc == nil {
			return nil, fmt.Errorf("%w: output %d has no ecdh info", ErrMalformed, i)
		}
		if compact {
			buf.Write(enc.Amount[:8])
		} else {
			buf.Write(enc.Mask[:])
			buf.Write(enc.Amount[:])
		}
	}

	if len(tx.OutCommitments) != len(tx.Outputs) {
		return nil, fmt.Errorf("%w: %d commitments for %d outputs", ErrMalformed, len(tx.OutCommitments), len(tx.Outputs))
	}
	for _, c := range tx.OutCommitments {
		buf.Write(c[:])
	}

	return buf.Bytes(), nil
}
