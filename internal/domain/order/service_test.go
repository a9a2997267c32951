package order

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/pkg/apperror"
)

type mockRepo struct {
	customers map[string]uuid.UUID
	orders    map[string]*Order
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		customers: make(map[string]uuid.UUID),
		orders:    make(map[string]*Order),
	}
}

func (m *mockRepo) UpsertCustomer(_ context.Context, email, name string) (uuid.UUID, error) {
	if id, ok := m.customers[email]; ok {
		return id, nil
	}
	id := uuid.New()
	m.customers[email] = id
	return id, nil
}

func (m *mockRepo) ExistsByOrderID(_ context.Context, orderID string) (bool, error) {
	_, ok := m.orders[orderID]
	return ok, nil
}

func (m *mockRepo) Insert(_ context.Context, o *Order) error {
	m.orders[o.OrderID] = o
	return nil
}

func (m *mockRepo) ListByCustomers(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]*Order, error) {
	out := make(map[uuid.UUID][]*Order)
	for _, o := range m.orders {
		out[o.CustomerID] = append(out[o.CustomerID], o)
	}
	return out, nil
}

func newTestService(repo Repository) *Service {
	return &Service{
		repo: repo,
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		logger: zerolog.New(os.Stderr).Level(zerolog.Disabled),
	}
}

func validOrder() *Order {
	return &Order{
		OrderID:       "O1",
		OrderNumber:   "1001",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@x.com",
	}
}

func TestReceive_StoresNewOrder(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	result, err := svc.Receive(context.Background(), validOrder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duplicate {
		t.Error("fresh order reported as duplicate")
	}

	stored, ok := repo.orders["O1"]
	if !ok {
		t.Fatal("order not inserted")
	}
	if stored.CustomerID != repo.customers["jane@x.com"] {
		t.Error("order not linked to upserted customer")
	}
}

func TestReceive_DuplicateIsIdempotent(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	if _, err := svc.Receive(context.Background(), validOrder()); err != nil {
		t.Fatalf("first receive failed: %v", err)
	}
	result, err := svc.Receive(context.Background(), validOrder())
	if err != nil {
		t.Fatalf("second receive failed: %v", err)
	}
	if !result.Duplicate {
		t.Error("expected duplicate result for repeated external id")
	}
	if len(repo.orders) != 1 {
		t.Errorf("stored %d orders, want 1", len(repo.orders))
	}
}

func TestReceive_MissingFields(t *testing.T) {
	svc := newTestService(newMockRepo())

	o := &Order{OrderID: "O1"}
	_, err := svc.Receive(context.Background(), o)

	ae := apperror.As(err)
	if ae == nil || ae.Kind != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{"orderNumber", "customerName", "customerEmail"}
	if len(ae.MissingFields) != len(want) {
		t.Fatalf("missingFields = %v, want %v", ae.MissingFields, want)
	}
	for i, f := range want {
		if ae.MissingFields[i] != f {
			t.Errorf("missingFields[%d] = %q, want %q", i, ae.MissingFields[i], f)
		}
	}
}

func TestReceive_UpsertRefreshesName(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	if _, err := svc.Receive(context.Background(), validOrder()); err != nil {
		t.Fatalf("first receive failed: %v", err)
	}
	second := validOrder()
	second.OrderID = "O2"
	second.CustomerName = "Jane A. Doe"
	if _, err := svc.Receive(context.Background(), second); err != nil {
		t.Fatalf("second receive failed: %v", err)
	}

	if len(repo.customers) != 1 {
		t.Errorf("expected one customer row for one email, got %d", len(repo.customers))
	}
	if len(repo.orders) != 2 {
		t.Errorf("expected two orders, got %d", len(repo.orders))
	}
}
