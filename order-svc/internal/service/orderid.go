package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"

	"homecafe/order-svc/internal/domain"
)

const orderIDDraws = 20

// OrderIDGenerator builds "<handle>_<number>" ids, drawing again while the
// store already holds the candidate or another open session was handed it.
// Handed-out ids stay reserved until Release.
type OrderIDGenerator struct {
	orders OrderRepository
	intN   func(n int) int

	mu       sync.Mutex
	reserved map[string]struct{}
}

func NewOrderIDGenerator(orders OrderRepository) *OrderIDGenerator {
	return &OrderIDGenerator{orders: orders, intN: rand.Intn}
}

func reservationKey(orderID string) string {
	return strings.ToLower(orderID)
}

// Release drops the reservation on orderID, once the order is in the store
// or its session has ended without one.
func (g *OrderIDGenerator) Release(orderID string) {
	if orderID == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.reserved, reservationKey(orderID))
}

func (g *OrderIDGenerator) reserve(orderID string) string {
	if g.reserved == nil {
		g.reserved = make(map[string]struct{})
	}
	g.reserved[reservationKey(orderID)] = struct{}{}
	return orderID
}

func orderIDBase(c domain.Customer) string {
	switch {
	case c.Username != "":
		return c.Username
	case c.FirstName != "":
		return c.FirstName
	}
	return "Customer"
}

// Generate returns an id neither in the store nor reserved, and reserves it: 3-digit suffixes first, then
// 4-digit ones once those keep colliding. A store lookup failure is logged and
// the current candidate is used as is.
func (g *OrderIDGenerator) Generate(ctx context.Context, c domain.Customer) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	base := orderIDBase(c)
	var candidate string
	for _, span := range [][2]int{{100, 900}, {1000, 9000}} {
		for i := 0; i < orderIDDraws; i++ {
			candidate = fmt.Sprintf("%s_%d", base, span[0]+g.intN(span[1]))
			if _, held := g.reserved[reservationKey(candidate)]; held {
				continue
			}
			taken, err := g.orders.Exists(ctx, candidate)
			if err != nil {
				log.Printf("Warning: order id lookup failed, using %s unchecked: %v", candidate, err)
				return g.reserve(candidate)
			}
			if !taken {
				return g.reserve(candidate)
			}
		}
	}
	log.Printf("Warning: no free order id for %s after %d draws, reusing %s", base, 2*orderIDDraws, candidate)
	return g.reserve(candidate)
}
