package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/meikuraledutech/flow"
)

type (
	// Payload is the second request of a dispatch: the active prompt text
	// merged with the active processing option
	Payload struct {
		Prompt string `json:"prompt"`
		Option string `json:"option"`
	}

	// Protocol performs the two ordered requests of a dispatch over one
	// Transport. The service uses the first request to materialize the
	// graph it consults when answering the second.
	Protocol struct {
		transport Transport
	}
)

func NewProtocol(t Transport) *Protocol {
	return &Protocol{transport: t}
}

// Dispatch submits the graph, and only once that request has completed
// successfully, submits the payload. The second response is returned
// verbatim.
func (p *Protocol) Dispatch(
	ctx context.Context, g *flow.Graph, payload Payload,
) (string, error) {
	doc, err := flow.Marshal(g)
	if err != nil {
		return "", err
	}
	var graphBody bytes.Buffer
	if err := json.Compact(&graphBody, doc); err != nil {
		return "", fmt.Errorf("flow: compact graph: %w", err)
	}

	if _, err := p.transport.Post(ctx, graphBody.Bytes()); err != nil {
		return "", fmt.Errorf("graph request: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", flow.ErrTransportFailure, err)
	}

	payloadBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("flow: encode payload: %w", err)
	}
	out, err := p.transport.Post(ctx, payloadBody)
	if err != nil {
		return "", fmt.Errorf("prompt request: %w", err)
	}
	return out, nil
}
