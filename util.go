package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"

	"xmr_viewscan/moneroutil"
)

func SplitHostPort(host string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(host)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, err
	}
	return host, uint16(port), nil
}

// normalizeDaemonURL accepts either a full URL or a bare host:port and
// returns a URL without a trailing slash.
func normalizeDaemonURL(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		if _, _, err := SplitHostPort(addr); err != nil {
			return "", fmt.Errorf("invalid daemon address %q: %w", addr, err)
		}
		addr = "http://" + addr
	}

	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid daemon address %q: %w", addr, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid daemon address %q: unsupported scheme %q", addr, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid daemon address %q: missing host", addr)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func parseHashes(hexHashes []string) ([]moneroutil.Hash, error) {
	hashes := make([]moneroutil.Hash, 0, len(hexHashes))
	for _, s := range hexHashes {
		h, err := moneroutil.ParseHashFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("transaction hash %q: %w", s, err)
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}

// readBlobs reads hex encoded blobs, one per line. Blank lines and lines
// starting with # are skipped.
func readBlobs(r io.Reader) ([][]byte, error) {
	var blobs [][]byte
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		blob, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		blobs = append(blobs, blob)
	}
	return blobs, sc.Err()
}
