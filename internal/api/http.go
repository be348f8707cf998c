package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// csrfHeader carries the anti-forgery token on mutating requests.
const csrfHeader = "X-CSRFToken"

// request describes one JSON round trip.
type request struct {
	method string
	url    string
	body   any
	// creds is nil for requests that must not carry the session credential.
	creds   Credentials
	csrf    bool
	headers map[string]string
}

// doJSON executes req, marshalling its body as JSON and unmarshalling the
// response into out. Returns an error on transport failures, non-2xx status
// codes and bodies that do not decode into out.
func doJSON(ctx context.Context, client *http.Client, req request, out any) error {
	var bodyReader io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, bodyReader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	if req.creds != nil {
		req.creds.Attach(httpReq)
		if req.csrf {
			httpReq.Header.Set(csrfHeader, req.creds.AntiForgeryToken())
		}
	}

	resp, err := client.Do(httpReq) // #nosec G704 -- URL is the user-configured game service
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if req.creds != nil {
		req.creds.Observe(resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
	}
	return nil
}
