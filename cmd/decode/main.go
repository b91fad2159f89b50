// decode prints the fields of a hex encoded transaction blob.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"xmr_viewscan/transaction"
)

func main() {
	var in string
	if len(os.Args) > 1 {
		in = os.Args[1]
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read stdin:", err)
			os.Exit(2)
		}
		in = string(b)
	}

	blob, err := hex.DecodeString(strings.TrimSpace(in))
	if err != nil {
		fmt.Fprintln(os.Stderr, "hex decode failed:", err)
		os.Exit(2)
	}
	tx, err := transaction.Parse(blob)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse failed:", err)
		os.Exit(1)
	}

	fmt.Printf("hash        : %v\n", tx.Hash)
	fmt.Printf("prefix hash : %v\n", tx.PrefixHash())
	fmt.Printf("version     : %d\n", tx.Version)
	fmt.Printf("unlock time : %d\n", tx.UnlockTime)
	fmt.Printf("rct type    : %d\n", tx.RctType)
	fmt.Printf("fee         : %d\n", tx.Fee)
	if tx.PublicKey != nil {
		fmt.Printf("tx pub key  : %v\n", *tx.PublicKey)
	} else {
		fmt.Println("tx pub key  : none")
	}
	for i, k := range tx.AdditionalPublicKeys {
		fmt.Printf("additional %d: %v\n", i, k)
	}
	if len(tx.PaymentID) > 0 {
		fmt.Printf("payment id  : %x\n", tx.PaymentID)
	}

	for i, in := range tx.Inputs {
		switch in := in.(type) {
		case transaction.TxInGen:
			fmt.Printf("vin %d: gen height %d\n", i, in.Height)
		case transaction.TxInToKey:
			fmt.Printf("vin %d: key image %v amount %d ring %d\n", i, in.KeyImage, in.Amount, len(in.KeyOffsets))
		}
	}
	for _, out := range tx.Outputs {
		switch target := out.Target.(type) {
		case transaction.TxOutToTaggedKey:
			fmt.Printf("vout %d: key %v view tag %02x amount %d\n", out.Index, target.Key, target.ViewTag, out.Amount)
		case transaction.TxOutToKey:
			fmt.Printf("vout %d: key %v amount %d\n", out.Index, target.Key, out.Amount)
		}
		if out.Encrypted != nil {
			fmt.Printf("        encrypted amount %x\n", out.Encrypted.Amount[:8])
		}
	}
}
