package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

// HTTPPusher posts position reports to the dispatch server's /gps/send.
type HTTPPusher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPusher(baseURL string, timeout time.Duration) *HTTPPusher {
	return &HTTPPusher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPPusher) Push(ctx context.Context, report domain.PositionReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/gps/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetworkPushFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetworkPushFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", domain.ErrNetworkPushFailed, resp.StatusCode)
	}
	return nil
}
