package scanner

import (
	"fmt"

	"filippo.io/edwards25519"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

// Derivations holds the shared secrets of one transaction: the one for the
// main tx public key and one per additional public key.
type Derivations struct {
	Main       moneroutil.Key
	Additional []moneroutil.Key
}

// forOutput returns the derivations to try for output i, main first.
func (d *Derivations) forOutput(i uint32) []*moneroutil.Key {
	candidates := []*moneroutil.Key{&d.Main}
	if int(i) < len(d.Additional) {
		candidates = append(candidates, &d.Additional[i])
	}
	return candidates
}

// OwnedOutput is an output that belongs to the account.
type OwnedOutput struct {
	TxHash     moneroutil.Hash `json:"tx_hash"`
	Index      uint32          `json:"index"`
	Amount     uint64          `json:"amount"`
	OneTimeKey moneroutil.Key  `json:"one_time_key"`
	KeyImage   moneroutil.Key  `json:"key_image"`

	derivation moneroutil.Key
}

// Derive computes the derivations of a transaction with the account's view
// key. A transaction without a public key fails with ErrMissingTxPublicKey.
func (k *AccountKeys) Derive(tx *transaction.Transaction) (*Derivations, error) {
	if tx.PublicKey == nil {
		return nil, scanError(ErrMissingTxPublicKey,
			fmt.Sprintf("transaction %v has no public key", tx.Hash), nil)
	}

	main, err := moneroutil.GenerateKeyDerivation(tx.PublicKey, k.privateView)
	if err != nil {
		return nil, classify(fmt.Sprintf("transaction %v public key", tx.Hash), err)
	}
	d := &Derivations{Main: main}

	for i := range tx.AdditionalPublicKeys {
		additional, err := moneroutil.GenerateKeyDerivation(&tx.AdditionalPublicKeys[i], k.privateView)
		if err != nil {
			return nil, classify(fmt.Sprintf("transaction %v additional public key %d", tx.Hash, i), err)
		}
		d.Additional = append(d.Additional, additional)
	}
	return d, nil
}

// ScanOutputs tests each output of tx for ownership by publicSpend. Tagged
// outputs are first filtered by their view tag. Hidden RingCT amounts of
// owned outputs are decoded. Key images are not computed here.
func ScanOutputs(tx *transaction.Transaction, d *Derivations, publicSpend *edwards25519.Point) ([]OwnedOutput, error) {
	var owned []OwnedOutput
	for _, out := range tx.Outputs {
		var (
			oneTimeKey moneroutil.Key
			viewTag    *byte
		)
		switch target := out.Target.(type) {
		case transaction.TxOutToKey:
			oneTimeKey = target.Key
		case transaction.TxOutToTaggedKey:
			oneTimeKey = target.Key
			viewTag = &target.ViewTag
		default:
			return nil, scanError(ErrUnsupportedOutputType,
				fmt.Sprintf("transaction %v output %d has target %T", tx.Hash, out.Index, out.Target), nil)
		}

		for _, derivation := range d.forOutput(out.Index) {
			index := uint64(out.Index)
			if viewTag != nil && moneroutil.DeriveViewTag(derivation, index) != *viewTag {
				continue
			}

			var expected moneroutil.Key
			expected.FromPoint(moneroutil.DerivePublicKey(derivation, index, publicSpend))
			if !expected.Equal(&oneTimeKey) {
				continue
			}

			amount, err := outputAmount(out, derivation)
			if err != nil {
				return nil, scanError(ErrMalformedTransaction,
					fmt.Sprintf("transaction %v output %d amount", tx.Hash, out.Index), err)
			}
			owned = append(owned, OwnedOutput{
				TxHash:     tx.Hash,
				Index:      out.Index,
				Amount:     amount,
				OneTimeKey: oneTimeKey,
				derivation: *derivation,
			})
			break
		}
	}
	return owned, nil
}

func outputAmount(out transaction.Output, derivation *moneroutil.Key) (uint64, error) {
	if out.Amount != 0 || out.Encrypted == nil {
		return out.Amount, nil
	}
	if out.Encrypted.Compact {
		return moneroutil.DecodeCompactAmount(derivation, uint64(out.Index), out.Encrypted.Amount[:8])
	}
	return moneroutil.DecodeLegacyAmount(derivation, uint64(out.Index), &out.Encrypted.Amount)
}

// GenerateKeyImage computes the key image of the output at index: the
// one-time private key Hs(D || i) + s applied to Hp of the one-time public
// key Hs(D || i) * G + S.
func GenerateKeyImage(derivation *moneroutil.Key, index uint32, privateSpend *edwards25519.Scalar, publicSpend *edwards25519.Point) moneroutil.Key {
	ephemeralPriv := moneroutil.DeriveSecretKey(derivation, uint64(index), privateSpend)
	var ephemeralPub moneroutil.Key
	ephemeralPub.FromPoint(moneroutil.DerivePublicKey(derivation, uint64(index), publicSpend))
	return moneroutil.GenerateKeyImage(&ephemeralPub, ephemeralPriv)
}

// TxScan is the spend-independent part of scanning one transaction.
type TxScan struct {
	Tx       *transaction.Transaction
	Owned    []OwnedOutput
	Received uint64
}

// ScanTransaction derives the shared secrets of tx, finds the owned outputs
// and generates their key images. It touches no shared state.
func (k *AccountKeys) ScanTransaction(tx *transaction.Transaction) (*TxScan, error) {
	d, err := k.Derive(tx)
	if err != nil {
		return nil, err
	}
	owned, err := ScanOutputs(tx, d, k.PublicSpend)
	if err != nil {
		return nil, err
	}

	scan := &TxScan{Tx: tx, Owned: owned}
	for i := range owned {
		o := &owned[i]
		o.KeyImage = GenerateKeyImage(&o.derivation, o.Index, k.privateSpend, k.PublicSpend)
		if scan.Received+o.Amount < scan.Received {
			return nil, scanError(ErrAmountOverflow,
				fmt.Sprintf("transaction %v received amount", tx.Hash), nil)
		}
		scan.Received += o.Amount
	}

	log.Debugf("tx %v: %d of %d outputs owned", tx.Hash, len(owned), len(tx.Outputs))
	return scan, nil
}
