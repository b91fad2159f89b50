package moneroutil

import (
	"crypto/rand"
	"strings"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func newTestKeyPair(t *testing.T) (*edwards25519.Scalar, *edwards25519.Point) {
	t.Helper()
	priv, pub, err := NewKeyPair(rand.Reader)
	require.NoError(t, err)
	return priv, pub
}

func keyOf(p *edwards25519.Point) *Key {
	k := new(Key)
	k.FromPoint(p)
	return k
}

func TestKeccakMatchesLegacyKeccak(t *testing.T) {
	inputs := [][]byte{nil, []byte("abc"), make([]byte, 200)}
	for _, in := range inputs {
		h := sha3.NewLegacyKeccak256()
		h.Write(in)
		got := Keccak256(in)
		assert.Equal(t, h.Sum(nil), got[:])
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 32, ^uint64(0)} {
		enc := Uint64ToBytes(v)
		got, err := ReadVarInt(strings.NewReader(string(enc)))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, []byte{0x80, 0x01}, Uint64ToBytes(128))

	_, err := ReadVarInt(strings.NewReader("\x80"))
	assert.Error(t, err)
}

func TestParseScalarHex(t *testing.T) {
	_, err := ParseScalarHex("abcd")
	assert.ErrorIs(t, err, ErrInvalidKeyEncoding)

	_, err = ParseScalarHex(strings.Repeat("zz", 32))
	assert.ErrorIs(t, err, ErrInvalidKeyEncoding)

	// 2^256 - 1 is not reduced.
	_, err = ParseScalarHex(strings.Repeat("ff", 32))
	assert.ErrorIs(t, err, ErrInvalidKeyEncoding)

	s, err := ParseScalarHex("01" + strings.Repeat("00", 31))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Equal(scalarOne()))
}

func scalarOne() *edwards25519.Scalar {
	b := make([]byte, 32)
	b[0] = 1
	s, _ := edwards25519.NewScalar().SetCanonicalBytes(b)
	return s
}

// offCurveKey returns the first small y coordinate with no matching x.
func offCurveKey(t *testing.T) Key {
	t.Helper()
	for y := 2; y < 256; y++ {
		k := Key{byte(y)}
		if _, err := new(edwards25519.Point).SetBytes(k[:]); err != nil {
			return k
		}
	}
	t.Fatal("no off-curve encoding found")
	return NullKey
}

func TestParsePointHexRejectsInvalid(t *testing.T) {
	bad := offCurveKey(t)
	_, err := ParsePointHex(bad.String())
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = ParsePointHex("xyz")
	assert.ErrorIs(t, err, ErrInvalidKeyEncoding)
}

func TestDerivationIsShared(t *testing.T) {
	r, R := newTestKeyPair(t)
	a, A := newTestKeyPair(t)

	receiver, err := GenerateKeyDerivation(keyOf(R), a)
	require.NoError(t, err)
	sender, err := GenerateKeyDerivation(keyOf(A), r)
	require.NoError(t, err)
	assert.Equal(t, sender, receiver)
}

func TestDerivationInvalidPoint(t *testing.T) {
	a, _ := newTestKeyPair(t)
	bad := offCurveKey(t)
	_, err := GenerateKeyDerivation(&bad, a)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestDerivedKeysMatch(t *testing.T) {
	_, R := newTestKeyPair(t)
	a, _ := newTestKeyPair(t)
	b, B := newTestKeyPair(t)

	d, err := GenerateKeyDerivation(keyOf(R), a)
	require.NoError(t, err)

	for i := uint64(0); i < 4; i++ {
		P := DerivePublicKey(&d, i, B)
		x := DeriveSecretKey(&d, i, b)
		assert.Equal(t, 1, P.Equal(new(edwards25519.Point).ScalarBaseMult(x)))
	}

	P0 := DerivePublicKey(&d, 0, B)
	P1 := DerivePublicKey(&d, 1, B)
	assert.NotEqual(t, 1, P0.Equal(P1))
}

func TestHashToECIsInPrimeOrderSubgroup(t *testing.T) {
	_, P := newTestKeyPair(t)
	hp := HashToEC(keyOf(P))

	// l * Q == identity for points in the prime order subgroup. l - 1 is
	// representable as a canonical scalar, so check (l - 1) * Q == -Q.
	lMinusOne := edwards25519.NewScalar().Negate(scalarOne())
	lhs := new(edwards25519.Point).ScalarMult(lMinusOne, hp)
	rhs := new(edwards25519.Point).Negate(hp)
	assert.Equal(t, 1, lhs.Equal(rhs))
	assert.NotEqual(t, 1, hp.Equal(edwards25519.NewIdentityPoint()))

	assert.Equal(t, 1, hp.Equal(HashToEC(keyOf(P))))
}

func TestHashToECCoversAllBranches(t *testing.T) {
	// Every input must land on a valid point, whichever branch of the
	// map is taken.
	for i := 0; i < 256; i++ {
		var k Key
		k[0] = byte(i)
		k[31] = byte(i)
		assert.NotPanics(t, func() { HashToEC(&k) })
	}
}

func TestKeyImageDeterministic(t *testing.T) {
	x, P := newTestKeyPair(t)
	pub := keyOf(P)

	first := GenerateKeyImage(pub, x)
	second := GenerateKeyImage(pub, x)
	assert.Equal(t, first, second)

	y, Q := newTestKeyPair(t)
	assert.NotEqual(t, first, GenerateKeyImage(keyOf(Q), y))

	_, err := first.ToPoint()
	assert.NoError(t, err)
}

func TestViewTag(t *testing.T) {
	_, R := newTestKeyPair(t)
	a, _ := newTestKeyPair(t)
	d, err := GenerateKeyDerivation(keyOf(R), a)
	require.NoError(t, err)

	expected := Keccak256([]byte("view_tag"), d[:], []byte{5})
	assert.Equal(t, expected[0], DeriveViewTag(&d, 5))
}

func TestCompactAmountRoundTrip(t *testing.T) {
	d := Keccak256([]byte("derivation"))
	key := Key(d)
	for _, amount := range []uint64{0, 1, 1_000_000, ^uint64(0)} {
		enc := EncodeCompactAmount(&key, 3, amount)
		got, err := DecodeCompactAmount(&key, 3, enc[:])
		require.NoError(t, err)
		assert.Equal(t, amount, got)
	}

	_, err := DecodeCompactAmount(&key, 0, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestLegacyAmountRoundTrip(t *testing.T) {
	key := Key(Keccak256([]byte("legacy")))
	for _, amount := range []uint64{0, 7, 123_456_789_000} {
		enc := EncodeLegacyAmount(&key, 1, amount)
		got, err := DecodeLegacyAmount(&key, 1, &enc)
		require.NoError(t, err)
		assert.Equal(t, amount, got)
	}

	// Decoding under the wrong index gives garbage that does not fit.
	enc := EncodeLegacyAmount(&key, 1, 42)
	_, err := DecodeLegacyAmount(&key, 2, &enc)
	assert.Error(t, err)
}
