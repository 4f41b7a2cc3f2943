package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTranslateTarget is used when the caller names no target language
const DefaultTranslateTarget = "es"

// Translator proxies the public "gtx" translation endpoint so the browser
// never calls it directly.
type Translator struct {
	endpoint string
	client   *http.Client
}

func NewTranslator(endpoint string, timeout time.Duration) *Translator {
	return &Translator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Translate returns text translated into target. Any transport, status or
// decoding failure is reported once, wrapped in ErrUpstream. No retries.
func (t *Translator) Translate(ctx context.Context, text, target string) (string, error) {
	if target == "" {
		target = DefaultTranslateTarget
	}
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: translate returned status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	translated, err := parseGTX(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return translated, nil
}

// parseGTX concatenates the first element of every segment in the first
// array of a gtx response: [[["Hola","Hello",...],...],...].
func parseGTX(body []byte) (string, error) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if len(root) == 0 {
		return "", nil
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(root[0], &segments); err != nil {
		// null first element means nothing was translated
		return "", nil
	}

	var out string
	for _, raw := range segments {
		var seg []interface{}
		if err := json.Unmarshal(raw, &seg); err != nil || len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			out += s
		}
	}
	return out, nil
}
