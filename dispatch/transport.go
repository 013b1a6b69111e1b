package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/log"
)

type (
	// Transport delivers one JSON body to the execution service and returns
	// the response body as text
	Transport interface {
		Post(ctx context.Context, body []byte) (string, error)
	}

	// HTTPTransport posts to a single endpoint, tagging every request with
	// the session's flow id
	HTTPTransport struct {
		httpClient *http.Client
		endpoint   string
		flowID     string
	}
)

// FlowIDHeader carries the editor session id so the service can key the
// graph it materializes from the first request
const FlowIDHeader = "X-Flow-ID"

var _ Transport = (*HTTPTransport)(nil)

func NewHTTPTransport(
	endpoint, flowID string, timeout time.Duration,
) *HTTPTransport {
	return &HTTPTransport{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		flowID:     flowID,
	}
}

// Post sends body and reads the full response. Connection failures and
// non-2xx statuses wrap flow.ErrTransportFailure; a body that cannot be
// read wraps flow.ErrResponseRead.
func (t *HTTPTransport) Post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, t.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", flow.ErrTransportFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(FlowIDHeader, t.flowID)

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	dur := time.Since(start)
	if err != nil {
		slog.Error("Execution service request failed",
			log.FlowID(t.flowID),
			slog.Duration("duration", dur),
			log.Error(err))
		return "", fmt.Errorf("%w: %w", flow.ErrTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Failed to read execution service response",
			log.FlowID(t.flowID),
			log.Error(err))
		return "", fmt.Errorf("%w: %w", flow.ErrResponseRead, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("Execution service HTTP error",
			log.FlowID(t.flowID),
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(respBody)))
		return "", fmt.Errorf("%w: HTTP %d", flow.ErrTransportFailure,
			resp.StatusCode)
	}

	slog.Debug("Execution service responded",
		log.FlowID(t.flowID),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", dur))
	return string(respBody), nil
}
