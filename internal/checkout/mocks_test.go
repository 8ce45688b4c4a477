package checkout_test

import (
	"context"
	"encoding/json"
	"sync"

	paymentgatewaytypes "github.com/frahmantamala/checkout-service/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/checkout-service/internal/core/events"
)

const gatewayOrderJSON = `{"id":"order_IluGWxBm9U8zJ8","entity":"order","amount":99900,"amount_paid":0,"amount_due":99900,"currency":"INR","receipt":"rcpt_1","offer_id":null,"status":"created","attempts":0,"notes":[],"created_at":1642662092}`

type mockGateway struct {
	mu       sync.Mutex
	calls    int
	lastOpts *paymentgatewaytypes.OrderOptions
	order    *paymentgatewaytypes.Order
	err      error
}

func newMockGateway() *mockGateway {
	var order paymentgatewaytypes.Order
	if err := json.Unmarshal([]byte(gatewayOrderJSON), &order); err != nil {
		panic(err)
	}
	return &mockGateway{order: &order}
}

func (m *mockGateway) CreateOrder(ctx context.Context, opts *paymentgatewaytypes.OrderOptions) (*paymentgatewaytypes.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}
