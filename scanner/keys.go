package scanner

import (
	"filippo.io/edwards25519"

	"xmr_viewscan/moneroutil"
)

// AccountKeys are the key pairs of the scanned account. They are immutable
// once created.
type AccountKeys struct {
	privateSpend *edwards25519.Scalar
	privateView  *edwards25519.Scalar
	PublicSpend  *edwards25519.Point
	PublicView   *edwards25519.Point
}

// NewAccountKeys derives the public keys of a spend and view scalar pair.
func NewAccountKeys(privateSpend, privateView *edwards25519.Scalar) *AccountKeys {
	return &AccountKeys{
		privateSpend: edwards25519.NewScalar().Set(privateSpend),
		privateView:  edwards25519.NewScalar().Set(privateView),
		PublicSpend:  new(edwards25519.Point).ScalarBaseMult(privateSpend),
		PublicView:   new(edwards25519.Point).ScalarBaseMult(privateView),
	}
}

// ParseAccountKeys decodes two 64 character hex scalars.
func ParseAccountKeys(privateSpendHex, privateViewHex string) (*AccountKeys, error) {
	spend, err := moneroutil.ParseScalarHex(privateSpendHex)
	if err != nil {
		return nil, scanError(ErrInvalidKeyEncoding, "private spend key", err)
	}
	view, err := moneroutil.ParseScalarHex(privateViewHex)
	if err != nil {
		return nil, scanError(ErrInvalidKeyEncoding, "private view key", err)
	}
	return NewAccountKeys(spend, view), nil
}

// VerifyPublicView checks that a hex encoded public view key belongs to the
// account's private view key.
func (k *AccountKeys) VerifyPublicView(publicViewHex string) error {
	point, err := moneroutil.ParsePointHex(publicViewHex)
	if err != nil {
		return classify("public view key", err)
	}
	if point.Equal(k.PublicView) != 1 {
		return scanError(ErrInvalidKeyEncoding, "public view key does not match private view key", nil)
	}
	return nil
}

// PublicSpendKey returns the encoded public spend key.
func (k *AccountKeys) PublicSpendKey() (key moneroutil.Key) {
	key.FromPoint(k.PublicSpend)
	return
}

// PublicViewKey returns the encoded public view key.
func (k *AccountKeys) PublicViewKey() (key moneroutil.Key) {
	key.FromPoint(k.PublicView)
	return
}
