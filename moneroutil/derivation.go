package moneroutil

import (
	"encoding/binary"
	"fmt"

	"filippo.io/edwards25519"
)

var (
	viewTagSalt   = []byte("view_tag")
	amountKeySalt = []byte("amount")
)

// HashToScalar is Hs: Keccak-256 of the concatenated input reduced modulo
// the group order (sc_reduce32).
func HashToScalar(data ...[]byte) *edwards25519.Scalar {
	h := Keccak256(data...)
	var wide [KeyLength * 2]byte
	copy(wide[:], h[:])
	scalar, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		panic(err)
	}
	return scalar
}

// DerivationToScalar returns Hs(derivation || varint(index)).
func DerivationToScalar(derivation *Key, index uint64) *edwards25519.Scalar {
	return HashToScalar(derivation[:], Uint64ToBytes(index))
}

// GenerateKeyDerivation computes the shared secret 8 * a * R between a
// transaction public key R and a private view key a.
func GenerateKeyDerivation(txPubKey *Key, privateView *edwards25519.Scalar) (derivation Key, err error) {
	R, err := txPubKey.ToPoint()
	if err != nil {
		return
	}
	shared := new(edwards25519.Point).ScalarMult(privateView, R)
	derivation.FromPoint(shared.MultByCofactor(shared))
	return
}

// DerivePublicKey computes the one-time output key Hs(D || i) * G + B.
func DerivePublicKey(derivation *Key, index uint64, publicSpend *edwards25519.Point) *edwards25519.Point {
	scalar := DerivationToScalar(derivation, index)
	derived := new(edwards25519.Point).ScalarBaseMult(scalar)
	return derived.Add(derived, publicSpend)
}

// DeriveSecretKey computes the one-time private key Hs(D || i) + b.
func DeriveSecretKey(derivation *Key, index uint64, privateSpend *edwards25519.Scalar) *edwards25519.Scalar {
	scalar := DerivationToScalar(derivation, index)
	return scalar.Add(scalar, privateSpend)
}

// GenerateKeyImage computes x * Hp(P) for the key pair (x, P).
func GenerateKeyImage(pub *Key, sec *edwards25519.Scalar) (image Key) {
	hp := HashToEC(pub)
	image.FromPoint(hp.ScalarMult(sec, hp))
	return
}

// DeriveViewTag returns the first byte of Keccak("view_tag" || D || varint(i)).
func DeriveViewTag(derivation *Key, index uint64) byte {
	h := Keccak256(viewTagSalt, derivation[:], Uint64ToBytes(index))
	return h[0]
}

// DecodeCompactAmount reverses the 8-byte amount encryption used since
// RingCT type 4: amount XOR Keccak("amount" || Hs(D || i)).
func DecodeCompactAmount(derivation *Key, index uint64, encrypted []byte) (uint64, error) {
	if len(encrypted) < 8 {
		return 0, fmt.Errorf("invalid encrypted amount length: %d", len(encrypted))
	}
	mask := amountMask(derivation, index)
	var plain [8]byte
	for i := 0; i < 8; i++ {
		plain[i] = encrypted[i] ^ mask[i]
	}
	return binary.LittleEndian.Uint64(plain[:]), nil
}

// EncodeCompactAmount is the sender side of DecodeCompactAmount.
func EncodeCompactAmount(derivation *Key, index uint64, amount uint64) [8]byte {
	mask := amountMask(derivation, index)
	var enc [8]byte
	binary.LittleEndian.PutUint64(enc[:], amount)
	for i := 0; i < 8; i++ {
		enc[i] ^= mask[i]
	}
	return enc
}

func amountMask(derivation *Key, index uint64) Hash {
	sharedSecret := DerivationToScalar(derivation, index)
	return Keccak256(amountKeySalt, sharedSecret.Bytes())
}

// DecodeLegacyAmount reverses the 32-byte scalar amount encryption of RingCT
// types 1 to 3: amount - Hs(Hs(Hs(D || i))).
func DecodeLegacyAmount(derivation *Key, index uint64, encrypted *Key) (uint64, error) {
	masked, err := encrypted.ToScalar()
	if err != nil {
		return 0, err
	}
	plain := edwards25519.NewScalar().Subtract(masked, legacyAmountMask(derivation, index))
	b := plain.Bytes()
	for _, v := range b[8:] {
		if v != 0 {
			return 0, fmt.Errorf("decoded amount does not fit in 64 bits")
		}
	}
	return binary.LittleEndian.Uint64(b[:8]), nil
}

// EncodeLegacyAmount is the sender side of DecodeLegacyAmount.
func EncodeLegacyAmount(derivation *Key, index uint64, amount uint64) (enc Key) {
	var b [KeyLength]byte
	binary.LittleEndian.PutUint64(b[:8], amount)
	plain, _ := edwards25519.NewScalar().SetCanonicalBytes(b[:])
	enc.FromScalar(plain.Add(plain, legacyAmountMask(derivation, index)))
	return
}

func legacyAmountMask(derivation *Key, index uint64) *edwards25519.Scalar {
	sharedSecret := DerivationToScalar(derivation, index)
	first := HashToScalar(sharedSecret.Bytes())
	return HashToScalar(first.Bytes())
}
