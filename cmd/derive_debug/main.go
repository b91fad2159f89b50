// derive_debug prints the values derived for one output of a transaction:
// the shared derivation, the expected one-time key, the view tag and, when a
// spend key is given, the key image.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"filippo.io/edwards25519"
	flags "github.com/jessevdk/go-flags"

	"xmr_viewscan/moneroutil"
)

type options struct {
	TxPub     string `long:"txpub" description:"Transaction public key (hex)" required:"true"`
	ViewKey   string `long:"viewkey" description:"Private view key (hex)" required:"true"`
	PubSpend  string `long:"pubspend" description:"Public spend key (hex); derived from --spendkey when omitted"`
	SpendKey  string `long:"spendkey" description:"Private spend key (hex), needed for the key image"`
	Index     uint64 `long:"index" description:"Output index"`
	OutputKey string `long:"outkey" description:"One-time key found in the output, compared with the expected one"`
	Amount    string `long:"amount" description:"Encrypted compact amount (8 bytes hex) to decode"`
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}

	txPub, err := moneroutil.ParseKeyFromHex(opts.TxPub)
	if err != nil {
		fail("txpub: %v", err)
	}
	view, err := moneroutil.ParseScalarHex(opts.ViewKey)
	if err != nil {
		fail("viewkey: %v", err)
	}

	var spendPub moneroutil.Key
	switch {
	case opts.PubSpend != "":
		if spendPub, err = moneroutil.ParseKeyFromHex(opts.PubSpend); err != nil {
			fail("pubspend: %v", err)
		}
	case opts.SpendKey != "":
		spend, err := moneroutil.ParseScalarHex(opts.SpendKey)
		if err != nil {
			fail("spendkey: %v", err)
		}
		spendPub.FromPoint(new(edwards25519.Point).ScalarBaseMult(spend))
	default:
		fail("one of --pubspend or --spendkey is required")
	}
	spendPoint, err := spendPub.ToPoint()
	if err != nil {
		fail("public spend key: %v", err)
	}

	derivation, err := moneroutil.GenerateKeyDerivation(&txPub, view)
	if err != nil {
		fail("derivation: %v", err)
	}

	var expected moneroutil.Key
	expected.FromPoint(moneroutil.DerivePublicKey(&derivation, opts.Index, spendPoint))

	fmt.Printf("txPub      : %v\n", txPub)
	fmt.Printf("pubSpend   : %v\n", spendPub)
	fmt.Printf("index      : %d\n", opts.Index)
	fmt.Printf("derivation : %v\n", derivation)
	fmt.Printf("one-time key: %v\n", expected)
	fmt.Printf("view tag   : %02x\n", moneroutil.DeriveViewTag(&derivation, opts.Index))

	if opts.OutputKey != "" {
		outKey, err := moneroutil.ParseKeyFromHex(opts.OutputKey)
		if err != nil {
			fail("outkey: %v", err)
		}
		fmt.Printf("matches output: %v\n", outKey.Equal(&expected))
	}

	if opts.Amount != "" {
		enc, err := hex.DecodeString(opts.Amount)
		if err != nil {
			fail("amount: %v", err)
		}
		amount, err := moneroutil.DecodeCompactAmount(&derivation, opts.Index, enc)
		if err != nil {
			fail("amount: %v", err)
		}
		fmt.Printf("amount     : %d\n", amount)
	}

	if opts.SpendKey != "" {
		spend, err := moneroutil.ParseScalarHex(opts.SpendKey)
		if err != nil {
			fail("spendkey: %v", err)
		}
		secret := moneroutil.DeriveSecretKey(&derivation, opts.Index, spend)
		fmt.Printf("key image  : %v\n", moneroutil.GenerateKeyImage(&expected, secret))
	}
}
