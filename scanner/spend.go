package scanner

import (
	"fmt"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

// ImageSource is the owned output a key image was generated for.
type ImageSource struct {
	TxHash moneroutil.Hash `json:"tx_hash"`
	Index  uint32          `json:"index"`
	Amount uint64          `json:"amount"`
}

// ImageLookup answers whether a key image belongs to the account.
type ImageLookup interface {
	Lookup(image moneroutil.Key) (ImageSource, bool)
}

// KnownImages is the set of key images generated for owned outputs.
type KnownImages map[moneroutil.Key]ImageSource

func (k KnownImages) Lookup(image moneroutil.Key) (ImageSource, bool) {
	src, ok := k[image]
	return src, ok
}

func (k KnownImages) addOwned(owned []OwnedOutput) {
	for _, o := range owned {
		k[o.KeyImage] = ImageSource{TxHash: o.TxHash, Index: o.Index, Amount: o.Amount}
	}
}

// overlay looks in pending first, then in base.
type overlay struct {
	base    ImageLookup
	pending KnownImages
}

func (o overlay) Lookup(image moneroutil.Key) (ImageSource, bool) {
	if src, ok := o.pending.Lookup(image); ok {
		return src, true
	}
	return o.base.Lookup(image)
}

// SpentInput is an input recognized as a spend of an owned output.
type SpentInput struct {
	Index    int            `json:"index"`
	KeyImage moneroutil.Key `json:"key_image"`
	Amount   uint64         `json:"amount"`
	Source   ImageSource    `json:"source"`
}

// SpendCheck is the result of matching the inputs of one transaction.
type SpendCheck struct {
	SpentAmount uint64       `json:"spent_amount"`
	PerInput    []bool       `json:"per_input"`
	Spent       []SpentInput `json:"spent"`
}

// CheckSpends matches the declared key images of tx against known. A
// matched input with a zero declared amount (RingCT) is credited with the
// amount recorded for its source output. Coinbase inputs never match.
func CheckSpends(tx *transaction.Transaction, known ImageLookup) (*SpendCheck, error) {
	check := &SpendCheck{PerInput: make([]bool, len(tx.Inputs))}

	for i, input := range tx.Inputs {
		switch in := input.(type) {
		case transaction.TxInGen:
			continue

		case transaction.TxInToKey:
			if _, err := in.KeyImage.ToPoint(); err != nil {
				return nil, classify(fmt.Sprintf("transaction %v input %d key image", tx.Hash, i), err)
			}
			src, ok := known.Lookup(in.KeyImage)
			if !ok {
				continue
			}

			amount := in.Amount
			if amount == 0 {
				amount = src.Amount
			}
			if check.SpentAmount+amount < check.SpentAmount {
				return nil, scanError(ErrAmountOverflow,
					fmt.Sprintf("transaction %v spent amount", tx.Hash), nil)
			}
			check.SpentAmount += amount
			check.PerInput[i] = true
			check.Spent = append(check.Spent, SpentInput{
				Index:    i,
				KeyImage: in.KeyImage,
				Amount:   amount,
				Source:   src,
			})

		default:
			return nil, scanError(ErrUnsupportedInputType,
				fmt.Sprintf("transaction %v input %d has type %T", tx.Hash, i, input), nil)
		}
	}

	if len(check.Spent) > 0 {
		log.Debugf("tx %v: %d of %d inputs spend owned outputs", tx.Hash, len(check.Spent), len(tx.Inputs))
	}
	return check, nil
}
