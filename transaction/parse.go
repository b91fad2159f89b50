package transaction

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"xmr_viewscan/moneroutil"
)

type blobReader struct {
	*bytes.Reader
	size int
}

func newBlobReader(blob []byte) *blobReader {
	return &blobReader{Reader: bytes.NewReader(blob), size: len(blob)}
}

func (r *blobReader) offset() int {
	return r.size - r.Len()
}

func (r *blobReader) varint(what string) (uint64, error) {
	v, err := moneroutil.ReadVarInt(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)
	}
	return v, nil
}

// count reads a vector length and checks it against the bytes left, given
// the minimum encoded size of one element.
func (r *blobReader) count(what string, minSize int) (uint64, error) {
	n, err := r.varint(what)
	if err != nil {
		return 0, err
	}
	if n > uint64(r.Len()/minSize) {
		return 0, fmt.Errorf("%w: %s count %d exceeds blob", ErrMalformed, what, n)
	}
	return n, nil
}

func (r *blobReader) key(what string) (moneroutil.Key, error) {
	k, err := moneroutil.ParseKey(r)
	if err != nil {
		return k, fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)
	}
	return k, nil
}

// Parse decodes a serialized transaction: the prefix, the RingCT base and,
// for version 2, the raw prunable section. The hash is computed from the
// blob.
func Parse(blob []byte) (*Transaction, error) {
	r := newBlobReader(blob)
	tx := &Transaction{}

	prefixEnd, err := tx.parsePrefix(r)
	if err != nil {
		return nil, err
	}

	if tx.Version >= 2 {
		baseEnd, err := tx.parseRctBase(r)
		if err != nil {
			return nil, err
		}
		tx.Prunable = blob[baseEnd:]
		tx.Hash = hashV2(blob[:prefixEnd], blob[prefixEnd:baseEnd], tx.Prunable, tx.RctType)
	} else {
		tx.Hash = Keccak256(blob)
		if tx.Fee, err = legacyFee(tx); err != nil {
			return nil, err
		}
	}

	ex, err := ParseExtra(tx.Extra)
	if err != nil {
		log.Debugf("tx %v: partial extra: %v", tx.Hash, err)
	}
	tx.PublicKey = ex.PublicKey
	tx.AdditionalPublicKeys = ex.AdditionalPublicKeys
	tx.PaymentID = ex.PaymentID

	return tx, nil
}

func (tx *Transaction) parsePrefix(r *blobReader) (int, error) {
	var err error
	if tx.Version, err = r.varint("version"); err != nil {
		return 0, err
	}
	if tx.Version == 0 || tx.Version > 2 {
		return 0, fmt.Errorf("%w: version %d", ErrMalformed, tx.Version)
	}
	if tx.UnlockTime, err = r.varint("unlock time"); err != nil {
		return 0, err
	}

	vinCount, err := r.count("vin", 2)
	if err != nil {
		return 0, err
	}
	tx.Inputs = make([]Input, 0, vinCount)
	for i := uint64(0); i < vinCount; i++ {
		in, err := parseInput(r)
		if err != nil {
			return 0, fmt.Errorf("input %d: %w", i, err)
		}
		tx.Inputs = append(tx.Inputs, in)
	}

	voutCount, err := r.count("vout", 2+moneroutil.KeyLength)
	if err != nil {
		return 0, err
	}
	if voutCount > math.MaxUint32 {
		return 0, fmt.Errorf("%w: vout count %d", ErrMalformed, voutCount)
	}
	tx.Outputs = make([]Output, 0, voutCount)
	for i := uint64(0); i < voutCount; i++ {
		out, err := parseOutput(r)
		if err != nil {
			return 0, fmt.Errorf("output %d: %w", i, err)
		}
		out.Index = uint32(i)
		tx.Outputs = append(tx.Outputs, out)
	}

	extraLen, err := r.count("extra", 1)
	if err != nil {
		return 0, err
	}
	tx.Extra = make([]byte, extraLen)
	if _, err := io.ReadFull(r, tx.Extra); err != nil {
		return 0, fmt.Errorf("%w: extra: %v", ErrMalformed, err)
	}

	return r.offset(), nil
}

func parseInput(r *blobReader) (Input, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: input tag: %v", ErrMalformed, err)
	}

	switch tag {
	case tagInGen:
		height, err := r.varint("coinbase height")
		if err != nil {
			return nil, err
		}
		return TxInGen{Height: height}, nil

	case tagInToKey:
		in := TxInToKey{}
		if in.Amount, err = r.varint("input amount"); err != nil {
			return nil, err
		}
		n, err := r.count("key offsets", 1)
		if err != nil {
			return nil, err
		}
		in.KeyOffsets = make([]uint64, 0, n)
		for j := uint64(0); j < n; j++ {
			ofs, err := r.varint("key offset")
			if err != nil {
				return nil, err
			}
			in.KeyOffsets = append(in.KeyOffsets, ofs)
		}
		if in.KeyImage, err = r.key("key image"); err != nil {
			return nil, err
		}
		return in, nil

	default:
		return nil, fmt.Errorf("%w: tag 0x%02x", ErrUnsupportedInputType, tag)
	}
}

func parseOutput(r *blobReader) (Output, error) {
	var out Output
	var err error
	if out.Amount, err = r.varint("output amount"); err != nil {
		return out, err
	}

	tag, err := r.ReadByte()
	if err != nil {
		return out, fmt.Errorf("%w: output tag: %v", ErrMalformed, err)
	}

	switch tag {
	case tagOutToKey:
		key, err := r.key("output key")
		if err != nil {
			return out, err
		}
		out.Target = TxOutToKey{Key: key}

	case tagOutToTaggedKey:
		key, err := r.key("output key")
		if err != nil {
			return out, err
		}
		viewTag, err := r.ReadByte()
		if err != nil {
			return out, fmt.Errorf("%w: view tag: %v", ErrMalformed, err)
		}
		out.Target = TxOutToTaggedKey{Key: key, ViewTag: viewTag}

	default:
		return out, fmt.Errorf("%w: tag 0x%02x", ErrUnsupportedOutputType, tag)
	}
	return out, nil
}

func (tx *Transaction) parseRctBase(r *blobReader) (int, error) {
	rctType, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: rct type: %v", ErrMalformed, err)
	}
	if rctType > rctTypeMax {
		return 0, fmt.Errorf("%w: rct type %d", ErrMalformed, rctType)
	}
	tx.RctType = rctType
	if rctType == RctTypeNull {
		return r.offset(), nil
	}

	if tx.Fee, err = r.varint("fee"); err != nil {
		return 0, err
	}

	if rctType == RctTypeSimple {
		tx.PseudoOuts = make([]moneroutil.Key, len(tx.Inputs))
		for i := range tx.PseudoOuts {
			if tx.PseudoOuts[i], err = r.key("pseudo out"); err != nil {
				return 0, err
			}
		}
	}

	compact := CompactAmounts(rctType)
	for i := range tx.Outputs {
		enc := &EncryptedAmount{Compact: compact}
		if compact {
			if _, err := io.ReadFull(r, enc.Amount[:8]); err != nil {
				return 0, fmt.Errorf("%w: ecdh amount: %v", ErrMalformed, err)
			}
		} else {
			if enc.Mask, err = r.key("ecdh mask"); err != nil {
				return 0, err
			}
			if enc.Amount, err = r.key("ecdh amount"); err != nil {
				return 0, err
			}
		}
		tx.Outputs[i].Encrypted = enc
	}

	tx.OutCommitments = make([]moneroutil.Key, len(tx.Outputs))
	for i := range tx.OutCommitments {
		if tx.OutCommitments[i], err = r.key("output commitment"); err != nil {
			return 0, err
		}
	}

	return r.offset(), nil
}

// legacyFee is the difference between input and output amounts of a
// version 1 transaction. Coinbase transactions pay no fee.
func legacyFee(tx *Transaction) (uint64, error) {
	if tx.IsCoinbase() {
		return 0, nil
	}
	var in, out uint64
	for _, input := range tx.Inputs {
		if k, ok := input.(TxInToKey); ok {
			if in+k.Amount < in {
				return 0, fmt.Errorf("%w: input amounts overflow", ErrMalformed)
			}
			in += k.Amount
		}
	}
	for _, output := range tx.Outputs {
		if out+output.Amount < out {
			return 0, fmt.Errorf("%w: output amounts overflow", ErrMalformed)
		}
		out += output.Amount
	}
	if out > in {
		return 0, fmt.Errorf("%w: outputs exceed inputs", ErrMalformed)
	}
	return in - out, nil
}
