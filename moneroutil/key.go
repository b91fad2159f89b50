package moneroutil

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"filippo.io/edwards25519"
)

const (
	KeyLength = 32
)

var (
	// ErrInvalidKeyEncoding is returned when a hex string does not hold a
	// canonical 32-byte scalar.
	ErrInvalidKeyEncoding = errors.New("invalid key encoding")

	// ErrInvalidPoint is returned when 32 bytes do not decode to a point on
	// the curve.
	ErrInvalidPoint = errors.New("invalid curve point")
)

// Key can be a Scalar or a Point
type Key [KeyLength]byte

// NullKey is the all-zero key.
var NullKey = Key{}

func (p *Key) FromBytes(b [KeyLength]byte) {
	*p = b
}

func (p *Key) FromPoint(point *edwards25519.Point) {
	p.FromBytes([KeyLength]byte(point.Bytes()))
}

func (p *Key) FromScalar(scalar *edwards25519.Scalar) {
	p.FromBytes([KeyLength]byte(scalar.Bytes()))
}

// ToPoint decodes the key as a compressed Edwards point.
func (p *Key) ToPoint() (*edwards25519.Point, error) {
	point, err := new(edwards25519.Point).SetBytes(p[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPoint, p)
	}
	return point, nil
}

// ToScalar decodes the key as a scalar. Only values already reduced modulo
// the group order are accepted.
func (p *Key) ToScalar() (*edwards25519.Scalar, error) {
	scalar, err := edwards25519.NewScalar().SetCanonicalBytes(p[:])
	if err != nil {
		return nil, fmt.Errorf("%w: scalar not reduced", ErrInvalidKeyEncoding)
	}
	return scalar, nil
}

// Equal compares two keys in constant time.
func (p *Key) Equal(other *Key) bool {
	return subtle.ConstantTimeCompare(p[:], other[:]) == 1
}

func (p Key) String() string {
	return hex.EncodeToString(p[:])
}

func (p Key) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Key) UnmarshalText(text []byte) error {
	k, err := ParseKeyFromHex(string(text))
	if err != nil {
		return err
	}
	*p = k
	return nil
}

func ParseKey(buf io.Reader) (Key, error) {
	key := [KeyLength]byte{}
	_, err := io.ReadFull(buf, key[:])
	return key, err
}

func ParseKeyFromHex(hexKey string) (result Key, err error) {
	if len(hexKey) != KeyLength*2 {
		err = fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidKeyEncoding, KeyLength*2, len(hexKey))
		return
	}

	data, err := hex.DecodeString(hexKey)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
		return
	}

	copy(result[:], data)
	return
}

// ParseScalarHex parses a 64 character hex string into a scalar, rejecting
// values that are not reduced modulo the group order.
func ParseScalarHex(hexKey string) (*edwards25519.Scalar, error) {
	key, err := ParseKeyFromHex(hexKey)
	if err != nil {
		return nil, err
	}
	return key.ToScalar()
}

// ParsePointHex parses a 64 character hex string into a curve point.
func ParsePointHex(hexKey string) (*edwards25519.Point, error) {
	key, err := ParseKeyFromHex(hexKey)
	if err != nil {
		return nil, err
	}
	return key.ToPoint()
}

// RandomScalar returns a uniformly distributed scalar.
func RandomScalar(rand io.Reader) (*edwards25519.Scalar, error) {
	var buf [KeyLength * 2]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return nil, err
	}
	return edwards25519.NewScalar().SetUniformBytes(buf[:])
}

func NewKeyPair(rand io.Reader) (*edwards25519.Scalar, *edwards25519.Point, error) {
	priv, err := RandomScalar(rand)
	if err != nil {
		return nil, nil, err
	}
	return priv, new(edwards25519.Point).ScalarBaseMult(priv), nil
}
