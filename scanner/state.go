package scanner

import (
	"math/big"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

// TxSummary is the scan result of one transaction.
type TxSummary struct {
	TxHash         moneroutil.Hash `json:"tx_hash"`
	Owned          []OwnedOutput   `json:"owned"`
	Spent          []SpentInput    `json:"spent"`
	PerInput       []bool          `json:"per_input"`
	Received       uint64          `json:"received"`
	SpentAmount    uint64          `json:"spent_amount"`
	Net            *big.Int        `json:"net"`
	RunningBalance *big.Int        `json:"running_balance"`
}

// Result is the outcome of a finished scan.
type Result struct {
	RunningBalance *big.Int    `json:"running_balance"`
	Summaries      []TxSummary `json:"transactions"`
	KnownImages    KnownImages `json:"-"`
}

// ScanState is the mutable state of a scan session: the key images of all
// owned outputs seen so far and the balance. It is not safe for concurrent
// use.
type ScanState struct {
	Known          KnownImages
	RunningBalance *big.Int
}

func NewScanState() *ScanState {
	return &ScanState{
		Known:          make(KnownImages),
		RunningBalance: new(big.Int),
	}
}

// Apply scans tx against the state and commits the result. The spend check
// sees the images of all previously applied transactions plus those of tx
// itself. On error the state is left untouched.
func (s *ScanState) Apply(keys *AccountKeys, tx *transaction.Transaction) (*TxSummary, error) {
	scan, err := keys.ScanTransaction(tx)
	if err != nil {
		return nil, err
	}

	pending := make(KnownImages, len(scan.Owned))
	pending.addOwned(scan.Owned)

	check, err := CheckSpends(tx, overlay{base: s.Known, pending: pending})
	if err != nil {
		return nil, err
	}

	summary := s.commit(scan, check)
	return &summary, nil
}

// commit adds the images and the net amount of one transaction.
func (s *ScanState) commit(scan *TxScan, check *SpendCheck) TxSummary {
	s.Known.addOwned(scan.Owned)

	net := new(big.Int).SetUint64(scan.Received)
	net.Sub(net, new(big.Int).SetUint64(check.SpentAmount))
	s.RunningBalance.Add(s.RunningBalance, net)

	return TxSummary{
		TxHash:         scan.Tx.Hash,
		Owned:          scan.Owned,
		Spent:          check.Spent,
		PerInput:       check.PerInput,
		Received:       scan.Received,
		SpentAmount:    check.SpentAmount,
		Net:            net,
		RunningBalance: new(big.Int).Set(s.RunningBalance),
	}
}
