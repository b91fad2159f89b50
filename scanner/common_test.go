package scanner

import (
	"crypto/rand"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/require"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

func newTestAccount(t *testing.T) *AccountKeys {
	t.Helper()
	spend, err := moneroutil.RandomScalar(rand.Reader)
	require.NoError(t, err)
	view, err := moneroutil.RandomScalar(rand.Reader)
	require.NoError(t, err)
	return NewAccountKeys(spend, view)
}

func randomPointKey(t *testing.T) moneroutil.Key {
	t.Helper()
	_, pub, err := moneroutil.NewKeyPair(rand.Reader)
	require.NoError(t, err)
	var k moneroutil.Key
	k.FromPoint(pub)
	return k
}

// payment is one output a test transaction sends.
type payment struct {
	to     *AccountKeys
	amount uint64
	tagged bool
	// additional sends with a per-output key instead of the main one.
	additional bool
}

// txBuilder builds transactions the way a sending wallet does: a random tx
// key r, R = r * G in extra, and one-time keys Hs(8 * r * A || i) * G + B.
type txBuilder struct {
	t      *testing.T
	rct    bool
	noKey  bool
	inputs []transaction.Input
}

func (b txBuilder) build(payments ...payment) *transaction.Transaction {
	t := b.t
	t.Helper()

	r, R, err := moneroutil.NewKeyPair(rand.Reader)
	require.NoError(t, err)
	var txPub moneroutil.Key
	txPub.FromPoint(R)

	tx := &transaction.Transaction{
		Version: 2,
		Inputs:  b.inputs,
	}
	if len(tx.Inputs) == 0 {
		tx.Inputs = []transaction.Input{transaction.TxInGen{Height: 1}}
	}
	if b.rct {
		tx.RctType = transaction.RctTypeBulletproofPlus
		tx.Fee = 30_000_000
	}

	var additional []moneroutil.Key
	for i, p := range payments {
		secret := r
		if p.additional {
			var addPub *edwards25519.Point
			secret, addPub, err = moneroutil.NewKeyPair(rand.Reader)
			require.NoError(t, err)
			for len(additional) < i {
				additional = append(additional, randomPointKey(t))
			}
			var k moneroutil.Key
			k.FromPoint(addPub)
			additional = append(additional, k)
		}

		viewPub := p.to.PublicViewKey()
		d, err := moneroutil.GenerateKeyDerivation(&viewPub, secret)
		require.NoError(t, err)

		var oneTime moneroutil.Key
		oneTime.FromPoint(moneroutil.DerivePublicKey(&d, uint64(i), p.to.PublicSpend))

		out := transaction.Output{Index: uint32(i), Amount: p.amount}
		if p.tagged {
			out.Target = transaction.TxOutToTaggedKey{Key: oneTime, ViewTag: moneroutil.DeriveViewTag(&d, uint64(i))}
		} else {
			out.Target = transaction.TxOutToKey{Key: oneTime}
		}
		if b.rct {
			out.Amount = 0
			enc := moneroutil.EncodeCompactAmount(&d, uint64(i), p.amount)
			out.Encrypted = &transaction.EncryptedAmount{Compact: true}
			copy(out.Encrypted.Amount[:], enc[:])
			tx.OutCommitments = append(tx.OutCommitments, randomPointKey(t))
		}
		tx.Outputs = append(tx.Outputs, out)
	}
	if len(additional) > 0 {
		for len(additional) < len(payments) {
			additional = append(additional, randomPointKey(t))
		}
		tx.AdditionalPublicKeys = additional
	}

	if !b.noKey {
		tx.PublicKey = &txPub
		tx.Extra = transaction.EncodeExtra(&txPub, additional, nil)
	}
	if b.rct {
		tx.Prunable = []byte("signatures")
	}

	_, err = tx.Serialize()
	require.NoError(t, err)
	return tx
}

// spending returns an input that spends owned with a ring of one. A zero
// declared amount models a RingCT input.
func spending(owned OwnedOutput, declared uint64) transaction.TxInToKey {
	return transaction.TxInToKey{
		Amount:     declared,
		KeyOffsets: []uint64{uint64(owned.Index) + 1},
		KeyImage:   owned.KeyImage,
	}
}

func decoyInput(t *testing.T) transaction.TxInToKey {
	return transaction.TxInToKey{
		KeyOffsets: []uint64{7, 3},
		KeyImage:   randomPointKey(t),
	}
}
