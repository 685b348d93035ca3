// Package fetch reads one library snapshot from the backend per call.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/DoyleJ11/library-dashboard/pkg/types"
	jsoniter "github.com/json-iterator/go"
)

// DefaultMaxBodyBytes caps how much of a response is read before giving up.
const DefaultMaxBodyBytes = 8 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Fetcher interface {
	Fetch(ctx context.Context) (types.Snapshot, error)
}

// Func adapts a plain function to Fetcher.
type Func func(ctx context.Context) (types.Snapshot, error)

func (f Func) Fetch(ctx context.Context) (types.Snapshot, error) { return f(ctx) }

// HTTPFetcher GETs the library endpoint. It never retries; the caller decides
// when to ask again.
type HTTPFetcher struct {
	url          string
	client       *http.Client
	MaxBodyBytes int64
}

func NewHTTPFetcher(url string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{url: url, client: client, MaxBodyBytes: DefaultMaxBodyBytes}
}

func (f *HTTPFetcher) URL() string { return f.url }

func (f *HTTPFetcher) Fetch(ctx context.Context) (types.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return types.Snapshot{}, &TransportError{URL: f.url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return types.Snapshot{}, &TransportError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return types.Snapshot{}, &TransportError{
			URL:        f.url,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBodyBytes+1))
	if err != nil {
		return types.Snapshot{}, &TransportError{URL: f.url, StatusCode: resp.StatusCode, Err: err}
	}
	if int64(len(body)) > f.MaxBodyBytes {
		return types.Snapshot{}, &DecodeError{URL: f.url, Err: fmt.Errorf("body exceeds %d bytes", f.MaxBodyBytes)}
	}

	snap, err := Decode(body)
	if err != nil {
		return types.Snapshot{}, &DecodeError{URL: f.url, Err: err}
	}
	return snap, nil
}

// Decode parses a {"library": {...}} document. The library key must be present
// and hold an object; anything else is rejected whole.
func Decode(body []byte) (types.Snapshot, error) {
	var doc struct {
		Library jsoniter.RawMessage `json:"library"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return types.Snapshot{}, err
	}

	raw := bytes.TrimSpace(doc.Library)
	switch {
	case len(raw) == 0:
		return types.Snapshot{}, errors.New(`missing "library"`)
	case raw[0] != '{':
		return types.Snapshot{}, fmt.Errorf(`"library" is not an object: %.32s`, raw)
	}

	library := map[string]types.Project{}
	if err := json.Unmarshal(raw, &library); err != nil {
		return types.Snapshot{}, fmt.Errorf("library: %w", err)
	}
	return types.Snapshot{Library: library}, nil
}

// Encode writes s in the same shape Decode reads.
func Encode(w io.Writer, s types.Snapshot) error {
	if s.Library == nil {
		s = types.EmptySnapshot()
	}
	return json.NewEncoder(w).Encode(s)
}
