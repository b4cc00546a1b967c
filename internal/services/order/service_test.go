package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"restaurant-orders/internal/catalog"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/stats"
)

func testRestaurant() *models.Restaurant {
	return &models.Restaurant{
		ID:          1,
		Name:        "R1",
		MinOrder:    decimal.RequireFromString("15.00"),
		DeliveryFee: decimal.RequireFromString("3.00"),
		Menu: models.Menu{
			{
				Name: "Mains",
				Items: []models.MenuItem{
					{ID: "m1", Name: "Dish", Price: decimal.RequireFromString("10.00")},
				},
			},
		},
	}
}

func newTestService(t *testing.T, enforceMin bool) (*Service, *stats.Aggregator) {
	t.Helper()
	agg := stats.NewAggregator()
	cat := catalog.New([]*models.Restaurant{testRestaurant()})
	svc := NewService(cat, agg, logger.New("test"), decimal.RequireFromString("0.10"), enforceMin)
	return svc, agg
}

func TestSubmitOrderComputesTotalsFromCatalog(t *testing.T) {
	svc, agg := newTestService(t, true)

	req := &models.OrderRequest{
		RestaurantID: 1,
		Items: []models.OrderLine{
			// A tampered client price must not affect any computed value.
			{ItemID: "m1", OrderedQuantity: 2, Price: decimal.RequireFromString("0.01")},
		},
	}

	receipt, err := svc.SubmitOrder(context.Background(), req, "", "req-1")
	if err != nil {
		t.Fatalf("SubmitOrder returned error: %v", err)
	}

	if want := decimal.RequireFromString("20.00"); !receipt.Subtotal.Equal(want) {
		t.Errorf("Subtotal = %s, want %s", receipt.Subtotal, want)
	}
	if want := decimal.RequireFromString("2.00"); !receipt.Tax.Equal(want) {
		t.Errorf("Tax = %s, want %s", receipt.Tax, want)
	}
	if want := decimal.RequireFromString("25.00"); !receipt.Total.Equal(want) {
		t.Errorf("Total = %s, want %s", receipt.Total, want)
	}
	if receipt.OrderID == "" {
		t.Error("receipt has no order id")
	}

	st, ok := agg.Snapshot(1)
	if !ok {
		t.Fatal("no stat recorded")
	}
	if st.OrderCount != 1 {
		t.Errorf("OrderCount = %d, want 1", st.OrderCount)
	}
	if want := decimal.RequireFromString("25.00"); !st.TotalOrderAmount.Equal(want) {
		t.Errorf("TotalOrderAmount = %s, want %s", st.TotalOrderAmount, want)
	}
	if st.OrderedItems["m1"] != 2 {
		t.Errorf("OrderedItems[m1] = %d, want 2", st.OrderedItems["m1"])
	}
}

func TestSubmitOrderSequenceAccumulates(t *testing.T) {
	svc, agg := newTestService(t, false)

	for _, qty := range []int{1, 3} {
		req := &models.OrderRequest{
			RestaurantID: 1,
			Items:        []models.OrderLine{{ItemID: "m1", OrderedQuantity: qty}},
		}
		if _, err := svc.SubmitOrder(context.Background(), req, "", "req"); err != nil {
			t.Fatalf("SubmitOrder(qty=%d) returned error: %v", qty, err)
		}
	}

	st, _ := agg.Snapshot(1)
	if st.OrderCount != 2 {
		t.Errorf("OrderCount = %d, want 2", st.OrderCount)
	}
	if st.OrderedItems["m1"] != 4 {
		t.Errorf("OrderedItems[m1] = %d, want 4", st.OrderedItems["m1"])
	}
}

func TestSubmitOrderRejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.OrderRequest
		wantErr error
	}{
		{
			name: "unknown restaurant",
			req: &models.OrderRequest{
				RestaurantID: 99,
				Items:        []models.OrderLine{{ItemID: "m1", OrderedQuantity: 2}},
			},
			wantErr: ErrUnknownRestaurant,
		},
		{
			name: "unknown item",
			req: &models.OrderRequest{
				RestaurantID: 1,
				Items:        []models.OrderLine{{ItemID: "zz", OrderedQuantity: 1}},
			},
			wantErr: ErrUnknownMenuItem,
		},
		{
			name: "item in wrong category",
			req: &models.OrderRequest{
				RestaurantID: 1,
				Items:        []models.OrderLine{{Category: "Desserts", ItemID: "m1", OrderedQuantity: 2}},
			},
			wantErr: ErrUnknownMenuItem,
		},
		{
			name: "below minimum order",
			req: &models.OrderRequest{
				RestaurantID: 1,
				Items:        []models.OrderLine{{ItemID: "m1", OrderedQuantity: 1}},
			},
			wantErr: ErrBelowMinimumOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, agg := newTestService(t, true)

			_, err := svc.SubmitOrder(context.Background(), tt.req, "", "req")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitOrder error = %v, want %v", err, tt.wantErr)
			}

			// A rejected order must leave the stats untouched.
			if _, ok := agg.Snapshot(tt.req.RestaurantID); ok {
				t.Error("rejected order created a stat")
			}
		})
	}
}

func TestSubmitOrderIdempotencyKey(t *testing.T) {
	svc, agg := newTestService(t, true)

	req := &models.OrderRequest{
		RestaurantID: 1,
		Items:        []models.OrderLine{{ItemID: "m1", OrderedQuantity: 2}},
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitOrder(context.Background(), req, "key-1", "req"); err != nil {
			t.Fatalf("SubmitOrder retry %d returned error: %v", i, err)
		}
	}
	if _, err := svc.SubmitOrder(context.Background(), req, "key-2", "req"); err != nil {
		t.Fatalf("SubmitOrder with fresh key returned error: %v", err)
	}

	st, _ := agg.Snapshot(1)
	if st.OrderCount != 2 {
		t.Errorf("OrderCount = %d, want 2 (one per distinct key)", st.OrderCount)
	}
}

func TestSubmitOrderWithoutKeyCountsEveryCall(t *testing.T) {
	svc, agg := newTestService(t, true)

	req := &models.OrderRequest{
		RestaurantID: 1,
		Items:        []models.OrderLine{{ItemID: "m1", OrderedQuantity: 2}},
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.SubmitOrder(context.Background(), req, "", "req"); err != nil {
			t.Fatalf("SubmitOrder %d returned error: %v", i, err)
		}
	}

	st, _ := agg.Snapshot(1)
	if st.OrderCount != 2 {
		t.Errorf("OrderCount = %d, want 2", st.OrderCount)
	}
}
