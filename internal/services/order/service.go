package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-orders/internal/catalog"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/stats"
)

var (
	ErrUnknownRestaurant = errors.New("unknown restaurant")
	ErrUnknownMenuItem   = errors.New("unknown menu item")
	ErrBelowMinimumOrder = errors.New("order is below the restaurant minimum")
)

// Service validates submitted orders against the catalog, recomputes all
// monetary values server-side, and forwards accepted orders to the stats
// aggregator.
type Service struct {
	catalog *catalog.Catalog
	stats   *stats.Aggregator
	logger  *logger.Logger

	taxRate         decimal.Decimal
	enforceMinOrder bool

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewService creates a new order intake service. taxRate is a fraction of the
// subtotal, e.g. 0.10 for 10%.
func NewService(cat *catalog.Catalog, agg *stats.Aggregator, log *logger.Logger, taxRate decimal.Decimal, enforceMinOrder bool) *Service {
	return &Service{
		catalog:         cat,
		stats:           agg,
		logger:          log,
		taxRate:         taxRate,
		enforceMinOrder: enforceMinOrder,
		seen:            make(map[string]struct{}),
	}
}

// SubmitOrder resolves the order against the catalog and prices it. The
// client-supplied line prices are advisory only; subtotal, tax and total all
// come from catalog prices. On success the order has been recorded in the
// aggregator exactly once, with a replayed idempotency key recorded zero
// times.
func (s *Service) SubmitOrder(ctx context.Context, req *models.OrderRequest, idempotencyKey, requestID string) (*models.OrderReceipt, error) {
	restaurant, ok := s.catalog.Get(req.RestaurantID)
	if !ok {
		return nil, fmt.Errorf("restaurant %d: %w", req.RestaurantID, ErrUnknownRestaurant)
	}

	subtotal := decimal.Zero
	quantities := make(map[string]int, len(req.Items))
	for i, line := range req.Items {
		item, ok := restaurant.Menu.FindItem(line.Category, line.ItemID)
		if !ok {
			return nil, fmt.Errorf("items[%d] id %q: %w", i, line.ItemID, ErrUnknownMenuItem)
		}

		if !line.Price.IsZero() && !line.Price.Equal(item.Price) {
			s.logger.Debug("price_mismatch", requestID, fmt.Sprintf(
				"Client sent %s for item %q, catalog price %s wins", line.Price, item.ID, item.Price))
		}

		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(line.OrderedQuantity))))
		quantities[line.ItemID] += line.OrderedQuantity
	}

	if s.enforceMinOrder && subtotal.LessThan(restaurant.MinOrder) {
		return nil, fmt.Errorf("subtotal %s below minimum %s: %w", subtotal, restaurant.MinOrder, ErrBelowMinimumOrder)
	}

	tax := subtotal.Mul(s.taxRate).Round(2)
	receipt := &models.OrderReceipt{
		OrderID:  uuid.NewString(),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax).Add(restaurant.DeliveryFee),
	}

	if idempotencyKey != "" && !s.markKey(idempotencyKey) {
		s.logger.Info("order_replayed", requestID, fmt.Sprintf(
			"Idempotency key %q already applied for restaurant %d, not recording again", idempotencyKey, restaurant.ID))
		return receipt, nil
	}

	st := s.stats.RecordOrder(restaurant.ID, receipt.Total, quantities)
	s.logger.Info("order_recorded", requestID, fmt.Sprintf(
		"Restaurant %d now at %d orders, %s total revenue", restaurant.ID, st.OrderCount, st.TotalOrderAmount))

	return receipt, nil
}

// markKey records an idempotency key and reports whether this call was the
// first to see it.
func (s *Service) markKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}
