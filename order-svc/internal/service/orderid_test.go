package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"testing"

	"homecafe/order-svc/internal/domain"

	"github.com/stretchr/testify/assert"
)

// takenIDs answers Exists from a fixed set; every other method is unused.
type takenIDs struct {
	OrderRepository
	taken   map[string]bool
	err     error
	lookups int
}

func (r *takenIDs) Exists(_ context.Context, orderID string) (bool, error) {
	r.lookups++
	return r.taken[orderID], r.err
}

func sequence(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestOrderIDGenerator_Generate(t *testing.T) {
	tests := []struct {
		name     string
		customer domain.Customer
		taken    map[string]bool
		draws    []int
		want     string
	}{
		{name: "username", customer: domain.Customer{Username: "kristy", FirstName: "Kristy"}, draws: []int{23}, want: "kristy_123"},
		{name: "first name", customer: domain.Customer{FirstName: "Alex"}, draws: []int{0}, want: "Alex_100"},
		{name: "anonymous", customer: domain.Customer{}, draws: []int{899}, want: "Customer_999"},
		{name: "retries on collision", customer: domain.Customer{Username: "kristy"}, taken: map[string]bool{"kristy_123": true}, draws: []int{23, 23, 45}, want: "kristy_145"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			g := &OrderIDGenerator{orders: &takenIDs{taken: testCase.taken}, intN: sequence(testCase.draws...)}
			assert.Equal(t, testCase.want, g.Generate(context.Background(), testCase.customer))
		})
	}
}

func TestOrderIDGenerator_WidensSuffix(t *testing.T) {
	taken := map[string]bool{}
	for n := 100; n <= 999; n++ {
		taken["kristy_"+strconv.Itoa(n)] = true
	}
	repo := &takenIDs{taken: taken}
	g := &OrderIDGenerator{orders: repo, intN: sequence(5)}

	id := g.Generate(context.Background(), domain.Customer{Username: "kristy"})
	assert.Regexp(t, regexp.MustCompile(`^kristy_\d{4}$`), id)
	assert.Equal(t, orderIDDraws+1, repo.lookups)
}

func TestOrderIDGenerator_LookupFailure(t *testing.T) {
	repo := &takenIDs{err: errors.New("store offline")}
	g := &OrderIDGenerator{orders: repo, intN: sequence(1)}

	assert.Equal(t, "kristy_101", g.Generate(context.Background(), domain.Customer{Username: "kristy"}))
	assert.Equal(t, 1, repo.lookups)
}

func TestOrderIDGenerator_ReservesUntilRelease(t *testing.T) {
	g := &OrderIDGenerator{orders: &takenIDs{}, intN: sequence(23)}
	alice := domain.Customer{Username: "alice"}
	ctx := context.Background()

	first := g.Generate(ctx, alice)
	assert.Equal(t, "alice_123", first)

	g.intN = sequence(23, 23, 45)
	assert.Equal(t, "alice_145", g.Generate(ctx, alice))

	g.Release("ALICE_123")
	g.intN = sequence(23)
	assert.Equal(t, "alice_123", g.Generate(ctx, alice))
}

func TestOrderIDGenerator_ConcurrentSessionsGetDistinctIDs(t *testing.T) {
	// each value comes up twice, so every session first draws the id the one before it holds
	g := &OrderIDGenerator{orders: &takenIDs{}, intN: sequence(0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7)}

	const sessions = 8
	ids := make(chan string, sessions)
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- g.Generate(context.Background(), domain.Customer{FirstName: "Alice"})
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, sessions)
}
