package main

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/scanner"
)

func TestXMRString(t *testing.T) {
	tests := []struct {
		atomic *big.Int
		want   string
	}{
		{nil, "0.000000000000"},
		{big.NewInt(0), "0.000000000000"},
		{big.NewInt(1), "0.000000000001"},
		{big.NewInt(1_500_000_000_000), "1.500000000000"},
		{big.NewInt(-250_000_000_000), "-0.250000000000"},
		{new(big.Int).SetUint64(18446744073709551615), "18446744.073709551615"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, XMR{test.atomic}.String())
	}
}

func TestNormalizeDaemonURL(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "127.0.0.1:18081", want: "http://127.0.0.1:18081"},
		{in: "http://node.local:18089/", want: "http://node.local:18089"},
		{in: "https://node.local", want: "https://node.local"},
		{in: "node.local", wantErr: true},
		{in: "127.0.0.1:99999", wantErr: true},
		{in: "ftp://node.local:21", wantErr: true},
		{in: "http://", wantErr: true},
	}
	for _, test := range tests {
		got, err := normalizeDaemonURL(test.in)
		if test.wantErr {
			assert.Error(t, err, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, got)
	}
}

func TestSplitHostPort(t *testing.T) {
	host, port, err := SplitHostPort("10.0.0.1:18080")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", host)
	assert.Equal(t, uint16(18080), port)

	_, _, err = SplitHostPort("10.0.0.1")
	assert.Error(t, err)
}

func TestReadBlobs(t *testing.T) {
	in := "# exported\n0a0b\n\n  ff00  \n"
	blobs, err := readBlobs(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x0a, 0x0b}, {0xff, 0x00}}, blobs)

	_, err = readBlobs(strings.NewReader("0a\nzz\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestParseHashes(t *testing.T) {
	h := strings.Repeat("ab", 32)
	hashes, err := parseHashes([]string{h})
	require.NoError(t, err)
	require.Len(t, hashes, 1)
	assert.Equal(t, h, hashes[0].String())

	_, err = parseHashes([]string{"abcd"})
	assert.Error(t, err)
}

func TestParseAndSetDebugLevels(t *testing.T) {
	defer setLogLevels("info")

	require.NoError(t, parseAndSetDebugLevels("debug"))
	for _, logger := range subsystemLoggers {
		assert.Equal(t, btclog.LevelDebug, logger.Level())
	}

	require.NoError(t, parseAndSetDebugLevels("SCAN=trace,STOR=warn"))
	assert.Equal(t, btclog.LevelTrace, scanLog.Level())
	assert.Equal(t, btclog.LevelWarn, storLog.Level())
	assert.Equal(t, btclog.LevelDebug, log.Level())

	assert.Error(t, parseAndSetDebugLevels("loud"))
	assert.Error(t, parseAndSetDebugLevels("SCAN"))
	assert.Error(t, parseAndSetDebugLevels("NOPE=info"))
	assert.Error(t, parseAndSetDebugLevels("SCAN=loud"))
}

func TestRunPrintsConfigErrors(t *testing.T) {
	hash := strings.Repeat("ab", 32)
	tests := []struct {
		name string
		env  string
		args []string
		want string
	}{
		{
			name: "no hashes",
			args: []string{"--viewkey", "00"},
			want: "no transaction hashes given",
		},
		{
			name: "negative workers",
			args: []string{"--viewkey", "00", "--workers=-1", hash},
			want: "invalid --workers -1",
		},
		{
			name: "bad workers in environment",
			env:  "x",
			args: []string{"--viewkey", "00", hash},
			want: "VIEWSCAN_WORKERS",
		},
		{
			name: "import without leveldb",
			args: []string{"--viewkey", "00", "--import", "blobs.txt"},
			want: "--import requires --store=leveldb",
		},
		{
			name: "bad debug level",
			args: []string{"--viewkey", "00", "-d", "loud", hash},
			want: "loud",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.env != "" {
				t.Setenv("VIEWSCAN_WORKERS", test.env)
			}
			var stderr bytes.Buffer
			err := run(test.args, &stderr)
			require.Error(t, err)
			assert.Contains(t, stderr.String(), test.want)
			assert.Contains(t, stderr.String(), "viewscan -h")
		})
	}
}

func TestRunLeavesFlagErrorsToParser(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"--viewkey", "00", "--nosuchflag"}, &stderr)
	require.Error(t, err)
	assert.Empty(t, stderr.String())

	stderr.Reset()
	assert.NoError(t, run([]string{"--help"}, &stderr))
	assert.Empty(t, stderr.String())
}

func TestReport(t *testing.T) {
	spend, err := moneroutil.RandomScalar(rand.Reader)
	require.NoError(t, err)
	view, err := moneroutil.RandomScalar(rand.Reader)
	require.NoError(t, err)
	keys := scanner.NewAccountKeys(spend, view)

	var hash moneroutil.Hash
	hash[0] = 0x42
	res := &scanner.Result{
		RunningBalance: big.NewInt(2_000_000_000_000),
		Summaries: []scanner.TxSummary{{
			TxHash:         hash,
			Owned:          []scanner.OwnedOutput{{TxHash: hash, Index: 1, Amount: 2_000_000_000_000}},
			PerInput:       []bool{false},
			Received:       2_000_000_000_000,
			Net:            big.NewInt(2_000_000_000_000),
			RunningBalance: big.NewInt(2_000_000_000_000),
		}},
	}
	r := newReport(keys, res)

	var text bytes.Buffer
	require.NoError(t, r.writeText(&text))
	assert.Contains(t, text.String(), "output 1: 2.000000000000 XMR")
	assert.Contains(t, text.String(), "Balance: 2.000000000000 XMR")
	assert.Contains(t, text.String(), keys.PublicSpendKey().String())

	var js bytes.Buffer
	require.NoError(t, r.writeJSON(&js))
	var decoded struct {
		Balance      json.Number `json:"balance"`
		BalanceXMR   string      `json:"balance_xmr"`
		Transactions []struct {
			TxHash   string `json:"tx_hash"`
			Received uint64 `json:"received"`
			NetXMR   string `json:"net_xmr"`
		} `json:"transactions"`
	}
	dec := json.NewDecoder(&js)
	dec.UseNumber()
	require.NoError(t, dec.Decode(&decoded))
	assert.Equal(t, "2000000000000", decoded.Balance.String())
	assert.Equal(t, "2.000000000000", decoded.BalanceXMR)
	require.Len(t, decoded.Transactions, 1)
	assert.Equal(t, hash.String(), decoded.Transactions[0].TxHash)
	assert.Equal(t, uint64(2_000_000_000_000), decoded.Transactions[0].Received)
	assert.Equal(t, "2.000000000000", decoded.Transactions[0].NetXMR)
}
