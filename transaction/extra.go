package transaction

import (
	"bytes"
	"fmt"
	"io"

	"xmr_viewscan/moneroutil"
)

// Extra field tags.
const (
	extraTagPadding           = 0x00
	extraTagPubKey            = 0x01
	extraTagNonce             = 0x02
	extraTagMergeMining       = 0x03
	extraTagAdditionalPubKeys = 0x04
	extraTagMinergate         = 0xde

	nonceTagPaymentID          = 0x00
	nonceTagEncryptedPaymentID = 0x01

	maxPaddingSize = 255
)

// Extra is the decoded content of a transaction's extra field.
type Extra struct {
	PublicKey            *moneroutil.Key
	AdditionalPublicKeys []moneroutil.Key
	// PaymentID is 32 bytes for a plain id and 8 bytes for an encrypted one.
	PaymentID          []byte
	EncryptedPaymentID bool
}

// ParseExtra decodes the tx_extra fields. Fields decoded before a malformed
// entry are returned together with the error. The first public key wins.
func ParseExtra(extra []byte) (*Extra, error) {
	result := &Extra{}
	r := bytes.NewReader(extra)

	for r.Len() > 0 {
		tag, _ := r.ReadByte()
		switch tag {
		case extraTagPadding:
			// Padding runs to the end and must be all zeros.
			if r.Len() > maxPaddingSize-1 {
				return result, fmt.Errorf("%w: padding too long", ErrMalformed)
			}
			for r.Len() > 0 {
				if b, _ := r.ReadByte(); b != 0 {
					return result, fmt.Errorf("%w: non-zero padding", ErrMalformed)
				}
			}

		case extraTagPubKey:
			key, err := moneroutil.ParseKey(r)
			if err != nil {
				return result, fmt.Errorf("%w: tx public key: %v", ErrMalformed, err)
			}
			if result.PublicKey == nil {
				result.PublicKey = &key
			}

		case extraTagNonce:
			nonce, err := readSizedField(r)
			if err != nil {
				return result, fmt.Errorf("%w: nonce: %v", ErrMalformed, err)
			}
			parseNonce(result, nonce)

		case extraTagMergeMining, extraTagMinergate:
			if _, err := readSizedField(r); err != nil {
				return result, fmt.Errorf("%w: extra tag 0x%02x: %v", ErrMalformed, tag, err)
			}

		case extraTagAdditionalPubKeys:
			count, err := moneroutil.ReadVarInt(r)
			if err != nil {
				return result, fmt.Errorf("%w: additional keys: %v", ErrMalformed, err)
			}
			if count > uint64(r.Len()/moneroutil.KeyLength) {
				return result, fmt.Errorf("%w: additional key count %d", ErrMalformed, count)
			}
			keys := make([]moneroutil.Key, 0, count)
			for i := uint64(0); i < count; i++ {
				key, _ := moneroutil.ParseKey(r)
				keys = append(keys, key)
			}
			if result.AdditionalPublicKeys == nil {
				result.AdditionalPublicKeys = keys
			}

		default:
			return result, fmt.Errorf("%w: unknown extra tag 0x%02x", ErrMalformed, tag)
		}
	}

	return result, nil
}

func readSizedField(r *bytes.Reader) ([]byte, error) {
	size, err := moneroutil.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if size > uint64(r.Len()) {
		return nil, io.ErrUnexpectedEOF
	}
	field := make([]byte, size)
	_, err = io.ReadFull(r, field)
	return field, err
}

func parseNonce(result *Extra, nonce []byte) {
	if len(nonce) == 0 || result.PaymentID != nil {
		return
	}
	switch {
	case nonce[0] == nonceTagPaymentID && len(nonce) == 33:
		result.PaymentID = nonce[1:]
	case nonce[0] == nonceTagEncryptedPaymentID && len(nonce) == 9:
		result.PaymentID = nonce[1:]
		result.EncryptedPaymentID = true
	}
}

// EncodeExtra builds an extra field holding the given tx public key,
// additional keys and nonce. Nil or empty arguments are omitted.
func EncodeExtra(pub *moneroutil.Key, additional []moneroutil.Key, nonce []byte) []byte {
	var buf bytes.Buffer
	if pub != nil {
		buf.WriteByte(extraTagPubKey)
		buf.Write(pub[:])
	}
	if len(nonce) > 0 {
		buf.WriteByte(extraTagNonce)
		buf.Write(moneroutil.Uint64ToBytes(uint64(len(nonce))))
		buf.Write(nonce)
	}
	if len(additional) > 0 {
		buf.WriteByte(extraTagAdditionalPubKeys)
		buf.Write(moneroutil.Uint64ToBytes(uint64(len(additional))))
		for _, k := range additional {
			buf.Write(k[:])
		}
	}
	return buf.Bytes()
}
