package port

import (
	"context"

	"actbot/internal/core/domain"
)

type Transport interface {
	// Send delivers one outbound command envelope to the backend. Delivery is fire-and-forget; any reply arrives
	// later on the Responses channel without a request identifier.
	Send(ctx context.Context, cmd domain.OutboundCommand) error
	// Responses returns the channel of inbound response envelopes in arrival order. The channel is closed when the
	// transport shuts down.
	Responses() <-chan domain.ResponseEnvelope
}
