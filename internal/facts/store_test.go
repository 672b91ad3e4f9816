package facts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRand struct{ next int }

func (s *stubRand) IntN(n int) int {
	v := s.next % n
	s.next++
	return v
}

type countingObserver struct {
	served    map[string]int
	fallbacks int
}

func (o *countingObserver) FactServed(c string) {
	if o.served == nil {
		o.served = make(map[string]int)
	}
	o.served[c]++
}

func (o *countingObserver) FactFallback() { o.fallbacks++ }

func TestResolveKnownCategoryReturnsMember(t *testing.T) {
	table := Builtin()
	store := NewStore(table, SeededRand(42))
	ctx := context.Background()

	for _, c := range Categories() {
		for i := 0; i < 200; i++ {
			fact := store.Resolve(ctx, c.String())
			require.True(t, table.Contains(c, fact), "category %s returned foreign fact %q", c, fact)
			for _, other := range Categories() {
				if other == c {
					continue
				}
				assert.False(t, table.Contains(other, fact), "fact %q leaked from %s", fact, other)
			}
		}
	}
}

func TestResolveUnknownCategoryReturnsFallback(t *testing.T) {
	obs := &countingObserver{}
	store := NewStore(Builtin(), SeededRand(1), WithObserver(obs))
	ctx := context.Background()

	for _, input := range []string{"Xyzzy", "", "science", "Stop", "/start", "Science!", "Наука", " Science\n"} {
		assert.Equal(t, FallbackMessage, store.Resolve(ctx, input), "input %q", input)
	}
	assert.Equal(t, 8, obs.fallbacks)
	assert.Empty(t, obs.served)
}

func TestResolveReachesEveryFact(t *testing.T) {
	table := Builtin()
	store := NewStore(table, SeededRand(7))
	ctx := context.Background()

	for _, c := range Categories() {
		seen := make(map[string]bool)
		for i := 0; i < 2000; i++ {
			seen[store.Resolve(ctx, c.String())] = true
		}
		for _, f := range table.Facts(c) {
			assert.True(t, seen[f], "fact %q of %s never drawn", f, c)
		}
	}
}

func TestPickUsesInjectedSource(t *testing.T) {
	table := Builtin()
	store := NewStore(table, &stubRand{next: 3})

	fact, ok := store.Pick(CategoryHistory)
	require.True(t, ok)
	assert.Equal(t, table.Facts(CategoryHistory)[3], fact)

	_, ok = store.Pick(CategoryUnknown)
	assert.False(t, ok)
}

func TestResolveNotifiesObserver(t *testing.T) {
	obs := &countingObserver{}
	store := NewStore(nil, nil, WithObserver(obs))

	store.Resolve(context.Background(), "Nature")
	store.Resolve(context.Background(), "Nature")
	store.Resolve(context.Background(), "Random")

	assert.Equal(t, map[string]int{"Nature": 2, "Random": 1}, obs.served)
	assert.Zero(t, obs.fallbacks)
}

func TestSeededRandIsDeterministic(t *testing.T) {
	a := NewStore(Builtin(), SeededRand(99))
	b := NewStore(Builtin(), SeededRand(99))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Resolve(context.Background(), "Science"), b.Resolve(context.Background(), "Science"))
	}
}
