package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"xmr_viewscan/scanner"
)

// atomicUnits is the number of piconero in one XMR.
const atomicUnits = 1_000_000_000_000

// XMR formats an amount of atomic units as XMR with all 12 decimals.
type XMR struct {
	atomic *big.Int
}

func (x XMR) String() string {
	if x.atomic == nil {
		return "0.000000000000"
	}
	abs := new(big.Int).Abs(x.atomic)
	whole, frac := new(big.Int).QuoRem(abs, big.NewInt(atomicUnits), new(big.Int))
	sign := ""
	if x.atomic.Sign() < 0 {
		sign = "-"
	}
	fracStr := frac.String()
	return sign + whole.String() + "." + strings.Repeat("0", 12-len(fracStr)) + fracStr
}

func (x XMR) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.String())
}

func xmrFromUint(v uint64) XMR {
	return XMR{new(big.Int).SetUint64(v)}
}

type reportTx struct {
	scanner.TxSummary
	ReceivedXMR XMR `json:"received_xmr"`
	SpentXMR    XMR `json:"spent_xmr"`
	NetXMR      XMR `json:"net_xmr"`
}

type report struct {
	PublicSpendKey string     `json:"public_spend_key"`
	PublicViewKey  string     `json:"public_view_key"`
	Transactions   []reportTx `json:"transactions"`
	Balance        *big.Int   `json:"balance"`
	BalanceXMR     XMR        `json:"balance_xmr"`
}

func newReport(keys *scanner.AccountKeys, res *scanner.Result) *report {
	r := &report{
		PublicSpendKey: keys.PublicSpendKey().String(),
		PublicViewKey:  keys.PublicViewKey().String(),
		Transactions:   make([]reportTx, 0, len(res.Summaries)),
		Balance:        res.RunningBalance,
		BalanceXMR:     XMR{res.RunningBalance},
	}
	for _, s := range res.Summaries {
		r.Transactions = append(r.Transactions, reportTx{
			TxSummary:   s,
			ReceivedXMR: xmrFromUint(s.Received),
			SpentXMR:    xmrFromUint(s.SpentAmount),
			NetXMR:      XMR{s.Net},
		})
	}
	return r
}

func (r *report) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *report) writeText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Public spend key: %s\n", r.PublicSpendKey)
	fmt.Fprintf(&b, "Public view key:  %s\n", r.PublicViewKey)
	for _, tx := range r.Transactions {
		fmt.Fprintf(&b, "\ntx %v\n", tx.TxHash)
		for _, out := range tx.Owned {
			fmt.Fprintf(&b, "  output %d: %s XMR (key image %v)\n",
				out.Index, xmrFromUint(out.Amount), out.KeyImage)
		}
		for _, in := range tx.Spent {
			fmt.Fprintf(&b, "  input %d: spent %s XMR from %v:%d\n",
				in.Index, xmrFromUint(in.Amount), in.Source.TxHash, in.Source.Index)
		}
		fmt.Fprintf(&b, "  received %s, spent %s, net %s, balance %s\n",
			tx.ReceivedXMR, tx.SpentXMR, tx.NetXMR, XMR{tx.RunningBalance})
	}
	fmt.Fprintf(&b, "\nBalance: %s XMR\n", r.BalanceXMR)
	_, err := io.WriteString(w, b.String())
	return err
}
