package moneroutil

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ebfe/keccak"
)

const (
	HashLength = 32
)

type Hash [HashLength]byte

var (
	NullHash = Hash{}
)

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func ParseHashFromHex(s string) (result Hash, err error) {
	k, err := ParseKeyFromHex(s)
	if err != nil {
		return
	}
	result = Hash(k)
	return
}

// ReadVarInt reads a little-endian base-128 varint.
func ReadVarInt(buf io.ByteReader) (result uint64, err error) {
	var r uint64
	for i := 0; ; i++ {
		if i*7 >= 64 {
			err = fmt.Errorf("varint overflows uint64")
			return
		}
		var b byte
		b, err = buf.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return
		}
		r |= (uint64(b) & 0x7f) << uint(i*7)
		if b&0x80 == 0 {
			break
		}
	}
	result = r
	return
}

// Uint64ToBytes encodes num as a varint.
func Uint64ToBytes(num uint64) (result []byte) {
	for ; num >= 0x80; num >>= 7 {
		result = append(result, byte((num&0x7f)|0x80))
	}
	result = append(result, byte(num))
	return
}

func Keccak256(data ...[]byte) (result Hash) {
	h := keccak.New256()
	for _, b := range data {
		h.Write(b)
	}
	r := h.Sum(nil)
	copy(result[:], r)
	return
}
