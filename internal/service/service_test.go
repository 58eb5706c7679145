package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
	"github.com/angelopoggi/PFSH-Parser/internal/shopify"
	"github.com/angelopoggi/PFSH-Parser/internal/shopify/shopifytest"
)

type memoryEvents struct {
	mu     sync.Mutex
	events []*domain.SyncEvent
}

func (m *memoryEvents) Create(ctx context.Context, event *domain.SyncEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memoryEvents) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.SyncEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.SyncEvent
	for _, e := range m.events {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryEvents) ListByOrderID(ctx context.Context, orderID int64) ([]*domain.SyncEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.SyncEvent
	for _, e := range m.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryEvents) types() []domain.SyncEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SyncEventType
	for _, e := range m.events {
		out = append(out, e.EventType)
	}
	return out
}

type fixture struct {
	srv    *shopifytest.Server
	admin  *shopify.Admin
	events *memoryEvents
	rec    *EventRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := shopifytest.NewServer(t)
	logger := zap.NewNop()
	events := &memoryEvents{}
	return &fixture{
		srv:    srv,
		admin:  shopify.NewAdmin(shopify.NewClientWithBaseURL(srv.BaseURL(), srv.AccessToken, logger), logger),
		events: events,
		rec:    NewEventRecorder(events, uuid.New(), logger),
	}
}

func (f *fixture) exporter() *OrderExporter {
	logger := zap.NewNop()
	return NewOrderExporter(f.admin, NewFulfiller(f.admin, f.rec, logger), f.rec, logger)
}

func (f *fixture) reconciler() *ShipmentReconciler {
	return NewShipmentReconciler(f.admin, f.rec, zap.NewNop())
}

// stock registers a product with one variant and its inventory item
func (f *fixture) stock(productID int64, sku string, inventoryItemID int64, cost string) {
	f.srv.Products[productID] = shopifytest.Product{
		ID:       productID,
		Variants: []shopifytest.Variant{{ID: productID * 10, SKU: sku, InventoryItemID: inventoryItemID}},
	}
	item := shopifytest.InventoryItem{ID: inventoryItemID}
	if cost != "" {
		item.Cost = &cost
	}
	f.srv.InventoryItems[inventoryItemID] = item
}

func posts(srv *shopifytest.Server) []string {
	var out []string
	for _, c := range srv.Calls() {
		if c.Method == "POST" {
			out = append(out, c.String())
		}
	}
	return out
}
