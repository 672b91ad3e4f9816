package facts

import (
	"context"
	"log/slog"

	"github.com/m3rciful/factbot/core/logger"
)

// FallbackMessage is returned by Resolve when the category cannot be resolved.
const FallbackMessage = "Could not retrieve a fact, try another category."

const component = "facts"

// Observer receives resolution outcomes, typically to update metrics.
type Observer interface {
	FactServed(category string)
	FactFallback()
}

type nopObserver struct{}

func (nopObserver) FactServed(string) {}
func (nopObserver) FactFallback()     {}

// Store resolves category labels into random facts.
type Store struct {
	provider Provider
	rnd      RandSource
	observer Observer
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithObserver attaches an Observer to the store.
func WithObserver(o Observer) StoreOption {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewStore builds a Store. A nil provider falls back to the built-in table and
// a nil source to DefaultRand.
func NewStore(provider Provider, rnd RandSource, opts ...StoreOption) *Store {
	if provider == nil {
		provider = Builtin()
	}
	if rnd == nil {
		rnd = DefaultRand()
	}
	s := &Store{provider: provider, rnd: rnd, observer: nopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pick returns a uniformly chosen fact for c. The boolean is false when c has
// no facts.
func (s *Store) Pick(c Category) (string, bool) {
	if !c.Valid() {
		return "", false
	}
	list := s.provider.Facts(c)
	if len(list) == 0 {
		return "", false
	}
	return list[s.rnd.IntN(len(list))], true
}

// Resolve parses name as a category label and returns a random fact from it.
// Unknown labels yield FallbackMessage.
func (s *Store) Resolve(ctx context.Context, name string) string {
	c, ok := ParseCategory(name)
	if !ok {
		s.logUnknown(ctx, name)
		return FallbackMessage
	}
	logger.Debug(ctx, component, "fact.resolve",
		slog.String("category", c.String()),
	)
	fact, ok := s.Pick(c)
	if !ok {
		s.logUnknown(ctx, name)
		return FallbackMessage
	}
	s.observer.FactServed(c.String())
	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, component, "fact.served",
			slog.String("category", c.String()),
			slog.String("payload", logger.SanitizeLimit(fact, 128)),
		)
	}
	return fact
}

func (s *Store) logUnknown(ctx context.Context, name string) {
	s.observer.FactFallback()
	logger.Warn(ctx, component, "fact.unknown_category",
		slog.String("category", logger.SanitizeLimit(name, 64)),
		slog.String("status", "skip"),
	)
}
