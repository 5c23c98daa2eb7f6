package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnexpectedRoot is returned when the root is neither an object, an array nor null.
var ErrUnexpectedRoot = errors.New("unexpected realtime database root")

// maxBodyBytes bounds a root read.
const maxBodyBytes = 16 << 20

// Child is one direct child of the database root.
type Child struct {
	Key   string
	Value json.RawMessage
}

// Client reads a Firebase Realtime Database through its REST API.
type Client struct {
	baseURL    string
	auth       string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Client for the database at baseURL. auth may be empty
// for databases readable without credentials.
func NewClient(baseURL, auth string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		auth:       auth,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "firebase_client").Logger(),
	}
}

// FetchRoot performs one read of the whole database and returns the root's
// children in the database's child order. A missing root yields no children.
func (c *Client) FetchRoot(ctx context.Context) ([]Child, error) {
	endpoint := c.baseURL + "/.json"
	if c.auth != "" {
		endpoint += "?" + url.Values{"auth": {c.auth}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("realtime database: HTTP %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("realtime database: HTTP %d", resp.StatusCode)
	}

	children, err := ParseChildren(body)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Int("children", len(children)).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("Root fetched")
	return children, nil
}

// ParseChildren splits a root document into ordered children. Arrays keep
// their index order (holes arrive as null). Objects are ordered the way the
// database orders keys: integer keys numerically first, then the rest
// lexicographically.
func ParseChildren(body []byte) ([]Child, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode root array: %w", err)
		}
		children := make([]Child, len(items))
		for i, item := range items {
			children[i] = Child{Key: strconv.Itoa(i), Value: item}
		}
		return children, nil

	case '{':
		var items map[string]json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode root object: %w", err)
		}
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

		children := make([]Child, len(keys))
		for i, k := range keys {
			children[i] = Child{Key: k, Value: items[k]}
		}
		return children, nil

	default:
		return nil, ErrUnexpectedRoot
	}
}

func keyLess(a, b string) bool {
	ai, aInt := intKey(a)
	bi, bInt := intKey(b)
	switch {
	case aInt && bInt:
		if ai == bi {
			return len(a) < len(b)
		}
		return ai < bi
	case aInt:
		return true
	case bInt:
		return false
	default:
		return a < b
	}
}

func intKey(k string) (int64, bool) {
	n, err := strconv.ParseInt(k, 10, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}
