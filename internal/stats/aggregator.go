// Package stats keeps per-restaurant running order aggregates in memory.
// Everything here is lost on restart.
package stats

import (
	"sync"

	"github.com/shopspring/decimal"
)

// RestaurantStat is the running aggregate for one restaurant. OrderCount is
// the number of accepted orders since process start and TotalOrderAmount the
// sum of their server-computed totals. OrderedItems maps item id to
// cumulative units sold.
type RestaurantStat struct {
	RestaurantID     int
	TotalOrderAmount decimal.Decimal
	OrderCount       int
	OrderedItems     map[string]int
}

// Aggregator owns all RestaurantStats. Handlers run on concurrent goroutines,
// so each order must land as one uninterrupted read-modify-write; the mutex
// covers the whole update.
type Aggregator struct {
	mu    sync.Mutex
	stats map[int]*RestaurantStat
}

func NewAggregator() *Aggregator {
	return &Aggregator{stats: make(map[int]*RestaurantStat)}
}

// RecordOrder applies one accepted order: count +1, revenue +total, and each
// item quantity added to its running sum. The stat is created on the first
// order for that restaurant. Each call counts as a new order; deduplication
// of retries is the caller's job.
func (a *Aggregator) RecordOrder(restaurantID int, total decimal.Decimal, itemQuantities map[string]int) RestaurantStat {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, ok := a.stats[restaurantID]
	if !ok {
		st = &RestaurantStat{
			RestaurantID:     restaurantID,
			TotalOrderAmount: decimal.Zero,
			OrderedItems:     make(map[string]int),
		}
		a.stats[restaurantID] = st
	}

	st.OrderCount++
	st.TotalOrderAmount = st.TotalOrderAmount.Add(total)
	for id, qty := range itemQuantities {
		st.OrderedItems[id] += qty
	}

	return snapshot(st)
}

// Snapshot returns a copy of one restaurant's stat, or false if it has never
// received an order.
func (a *Aggregator) Snapshot(restaurantID int) (RestaurantStat, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, ok := a.stats[restaurantID]
	if !ok {
		return RestaurantStat{}, false
	}
	return snapshot(st), true
}

func snapshot(st *RestaurantStat) RestaurantStat {
	out := *st
	out.OrderedItems = make(map[string]int, len(st.OrderedItems))
	for id, qty := range st.OrderedItems {
		out.OrderedItems[id] = qty
	}
	return out
}
