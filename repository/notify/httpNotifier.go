package notifyrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Vaibhavp809/libsync-sub001/util/httpx"
)

type httpRepo struct {
	url    string
	client *http.Client
}

// NewHTTP posts notices to a webhook collector (the push-delivery system
// downstream of this service).
func NewHTTP(url string) Repo { return &httpRepo{url: url, client: httpx.Client()} }

func (r *httpRepo) Send(ctx context.Context, n Notice) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify webhook: %s", resp.Status)
	}
	return nil
}

type noopRepo struct{}

// NewNoop is used when no webhook is configured.
func NewNoop() Repo { return noopRepo{} }

func (noopRepo) Send(context.Context, Notice) error { return nil }
