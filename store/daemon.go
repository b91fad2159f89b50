package store

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

// BatchFetcher is implemented by stores that can fetch many hashes in one
// round trip. Results are in request order.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, hashes []moneroutil.Hash) ([]*transaction.Transaction, error)
}

// Daemon fetches transactions from a node's /get_transactions endpoint.
type Daemon struct {
	url    string
	client *http.Client
}

func NewDaemon(url string, timeout time.Duration) *Daemon {
	return &Daemon{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type getTransactionsReq struct {
	TxsHashes    []string `json:"txs_hashes"`
	DecodeAsJSON bool     `json:"decode_as_json"`
	Prune        bool     `json:"prune"`
}

// txEntry is one transaction of a get_transactions response. Pruned nodes
// leave as_hex empty and send the blob split in two, or only its pruned part.
type txEntry struct {
	TxHash        string `json:"tx_hash"`
	AsHex         string `json:"as_hex"`
	PrunedAsHex   string `json:"pruned_as_hex,omitempty"`
	PrunableAsHex string `json:"prunable_as_hex,omitempty"`
	PrunableHash  string `json:"prunable_hash,omitempty"`
}

// blobHex returns the full blob, joining the split form when needed.
// pruned is set when only the pruned part was sent.
func (e *txEntry) blobHex() (blob string, pruned bool, err error) {
	switch {
	case e.AsHex != "":
		return e.AsHex, false, nil
	case e.PrunedAsHex != "":
		return e.PrunedAsHex + e.PrunableAsHex, e.PrunableAsHex == "", nil
	default:
		return "", false, fmt.Errorf("%w: empty blob for %s", transaction.ErrMalformed, e.TxHash)
	}
}

type getTransactionsResp struct {
	Status   string    `json:"status"`
	MissedTx []string  `json:"missed_tx"`
	Txs      []txEntry `json:"txs"`
}

func (d *Daemon) call(ctx context.Context, path string, reqBody any, respBody any) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.url+path, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf(
			"daemon rpc http %d: %s",
			resp.StatusCode,
			string(body),
		)
	}

	return json.NewDecoder(resp.Body).Decode(respBody)
}

func (d *Daemon) Fetch(ctx context.Context, hash moneroutil.Hash) (*transaction.Transaction, error) {
	txs, err := d.FetchBatch(ctx, []moneroutil.Hash{hash})
	if err != nil {
		return nil, err
	}
	return txs[0], nil
}

func (d *Daemon) FetchBatch(ctx context.Context, hashes []moneroutil.Hash) ([]*transaction.Transaction, error) {
	req := getTransactionsReq{
		TxsHashes: make([]string, len(hashes)),
		Prune:     false,
	}
	for i, h := range hashes {
		req.TxsHashes[i] = h.String()
	}

	var resp getTransactionsResp
	if err := d.call(ctx, "/get_transactions", req, &resp); err != nil {
		return nil, fmt.Errorf("get_transactions: %w", err)
	}
	if len(resp.MissedTx) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(resp.MissedTx, ", "))
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("get_transactions: status %q", resp.Status)
	}

	byHash := make(map[moneroutil.Hash][]byte, len(resp.Txs))
	// Blobs without a prunable part only hash correctly when there was
	// nothing to prune.
	pruned := make(map[moneroutil.Hash]string)
	for i := range resp.Txs {
		entry := &resp.Txs[i]
		hash, err := moneroutil.ParseHashFromHex(entry.TxHash)
		if err != nil {
			return nil, fmt.Errorf("get_transactions: tx hash %q: %w", entry.TxHash, err)
		}
		blobHex, isPruned, err := entry.blobHex()
		if err != nil {
			return nil, fmt.Errorf("get_transactions: %w", err)
		}
		blob, err := hex.DecodeString(blobHex)
		if err != nil {
			return nil, fmt.Errorf("get_transactions: blob of %v: %w", hash, err)
		}
		byHash[hash] = blob
		if isPruned {
			pruned[hash] = entry.PrunableHash
		}
	}

	txs := make([]*transaction.Transaction, len(hashes))
	for i, h := range hashes {
		blob, ok := byHash[h]
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, h)
		}
		tx, err := decodeBlob(h, blob)
		if prunableHash, ok := pruned[h]; ok && err != nil {
			return nil, fmt.Errorf("%w %v (prunable hash %s): %v", ErrPruned, h, prunableHash, err)
		}
		if err != nil {
			return nil, err
		}
		txs[i] = tx
	}
	log.Debugf("daemon returned %d transactions", len(txs))
	return txs, nil
}
