package transaction

import (
	"errors"

	"xmr_viewscan/moneroutil"
)

var (
	// ErrMalformed is returned when a blob cannot be decoded.
	ErrMalformed = errors.New("malformed transaction")

	// ErrUnsupportedOutputType is returned for output targets other than
	// txout_to_key and txout_to_tagged_key.
	ErrUnsupportedOutputType = errors.New("unsupported output type")

	// ErrUnsupportedInputType is returned for inputs other than txin_gen and
	// txin_to_key.
	ErrUnsupportedInputType = errors.New("unsupported input type")
)

// Wire tags of the variant types.
const (
	tagInGen          = 0xff
	tagInToKey        = 0x02
	tagOutToKey       = 0x02
	tagOutToTaggedKey = 0x03
)

// RingCT signature types.
const (
	RctTypeNull            = 0
	RctTypeFull            = 1
	RctTypeSimple          = 2
	RctTypeBulletproof     = 3
	RctTypeBulletproof2    = 4
	RctTypeCLSAG           = 5
	RctTypeBulletproofPlus = 6
	rctTypeMax             = RctTypeBulletproofPlus
)

type Transaction struct {
	Hash       moneroutil.Hash `json:"hash"`
	Version    uint64          `json:"version"`
	UnlockTime uint64          `json:"unlock_time"`
	Inputs     []Input         `json:"-"`
	Outputs    []Output        `json:"-"`
	Extra      []byte          `json:"-"`

	// PublicKey is nil when extra carries no tx public key.
	PublicKey            *moneroutil.Key  `json:"public_key,omitempty"`
	AdditionalPublicKeys []moneroutil.Key `json:"additional_public_keys,omitempty"`
	PaymentID            []byte           `json:"-"`

	RctType        uint8            `json:"rct_type"`
	Fee            uint64           `json:"fee"`
	PseudoOuts     []moneroutil.Key `json:"-"`
	OutCommitments []moneroutil.Key `json:"-"`

	// Prunable holds the undecoded signature section of the blob.
	Prunable []byte `json:"-"`
}

// Output is one transaction output. Index is its position within the
// transaction.
type Output struct {
	Index     uint32           `json:"index"`
	Amount    uint64           `json:"amount"`
	Target    OutputTarget     `json:"-"`
	Encrypted *EncryptedAmount `json:"-"`
}

// EncryptedAmount is the ecdh info of a RingCT output. Compact amounts carry
// only 8 meaningful bytes in Amount and no mask.
type EncryptedAmount struct {
	Mask    moneroutil.Key
	Amount  moneroutil.Key
	Compact bool
}

// OutputTarget is the sum type of output destinations.
type OutputTarget interface {
	OneTimeKey() moneroutil.Key
	isOutputTarget()
}

type TxOutToKey struct {
	Key moneroutil.Key
}

func (t TxOutToKey) OneTimeKey() moneroutil.Key { return t.Key }
func (TxOutToKey) isOutputTarget()              {}

type TxOutToTaggedKey struct {
	Key     moneroutil.Key
	ViewTag byte
}

func (t TxOutToTaggedKey) OneTimeKey() moneroutil.Key { return t.Key }
func (TxOutToTaggedKey) isOutputTarget()              {}

// Input is the sum type of transaction inputs.
type Input interface {
	isInput()
}

// TxInGen is a coinbase input.
type TxInGen struct {
	Height uint64
}

func (TxInGen) isInput() {}

// TxInToKey spends one of the ring members referenced by KeyOffsets.
// Offsets are relative, as on the wire.
type TxInToKey struct {
	Amount     uint64
	KeyOffsets []uint64
	KeyImage   moneroutil.Key
}

func (TxInToKey) isInput() {}

// IsCoinbase reports whether the transaction has a single txin_gen input.
func (tx *Transaction) IsCoinbase() bool {
	if len(tx.Inputs) != 1 {
		return false
	}
	_, ok := tx.Inputs[0].(TxInGen)
	return ok
}

// CompactAmounts reports whether the ecdh info uses 8-byte amounts.
func CompactAmounts(rctType uint8) bool {
	return rctType >= RctTypeBulletproof2
}
