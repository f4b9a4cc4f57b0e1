// Package memo caches validation and default extraction results for hosts
// that re-run them on unchanged documents, e.g. on every re-render. Results
// are keyed by the sha256 of the raw payload, so identical bytes share an
// entry whatever their source.
package memo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-formfate/pkg/defaults"
	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/validation"
)

const meterName = "github.com/goliatone/go-formfate/pkg/memo"

// Config sizes the underlying store.
type Config struct {
	// MaxCost bounds the cached payload bytes.
	MaxCost int64
	// NumCounters is the number of admission counters, ideally 10x the
	// expected number of entries.
	NumCounters int64
	// BufferItems is the number of keys per Get buffer.
	BufferItems int64
	// TTL expires entries. Zero keeps them until evicted.
	TTL time.Duration
}

// DefaultConfig returns a store sized for a few thousand definitions.
func DefaultConfig() Config {
	return Config{
		MaxCost:     64 << 20,
		NumCounters: 1e5,
		BufferItems: 64,
	}
}

// Option customises a Memo.
type Option func(*Memo)

// WithValidationOptions applies validation options to every cached run.
func WithValidationOptions(options ...validation.Option) Option {
	return func(m *Memo) {
		m.validation = append(m.validation, options...)
	}
}

// WithMeterProvider reports hit and miss counters to provider instead of
// the global one.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(m *Memo) {
		m.provider = provider
	}
}

// Memo is safe for concurrent use. Returned documents are shared between
// callers and must be treated as read-only; extracted value maps are copied
// on every call.
type Memo struct {
	store      *ristretto.Cache
	group      singleflight.Group
	ttl        time.Duration
	validation []validation.Option
	provider   metric.MeterProvider
	hits       metric.Int64Counter
	misses     metric.Int64Counter
}

type validated struct {
	doc formdef.Document
	err error
}

// New builds a Memo.
func New(cfg Config, opts ...Option) (*Memo, error) {
	def := DefaultConfig()
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = def.MaxCost
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = def.NumCounters
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = def.BufferItems
	}

	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("memo: create store: %w", err)
	}

	m := &Memo{store: store, ttl: cfg.TTL}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.provider == nil {
		m.provider = otel.GetMeterProvider()
	}

	meter := m.provider.Meter(meterName)
	if m.hits, err = meter.Int64Counter("formfate.memo.hits",
		metric.WithDescription("Cached results served without recomputation")); err != nil {
		return nil, fmt.Errorf("memo: create hits counter: %w", err)
	}
	if m.misses, err = meter.Int64Counter("formfate.memo.misses",
		metric.WithDescription("Results computed because no cached entry existed")); err != nil {
		return nil, fmt.Errorf("memo: create misses counter: %w", err)
	}
	return m, nil
}

// Validate returns the cached outcome of validation.Validate for raw.
func (m *Memo) Validate(ctx context.Context, raw formdef.RawDocument) (formdef.Document, error) {
	value, err := m.load(ctx, "validate", raw, func() (any, error) {
		doc, err := validation.Validate(raw, m.validation...)
		return validated{doc: doc, err: err}, nil
	})
	if err != nil {
		return formdef.Document{}, err
	}
	result := value.(validated)
	return result.doc, result.err
}

// Defaults validates raw and returns a copy of its extracted defaults.
func (m *Memo) Defaults(ctx context.Context, raw formdef.RawDocument) (map[string]any, error) {
	value, err := m.load(ctx, "defaults", raw, func() (any, error) {
		doc, err := m.Validate(ctx, raw)
		if err != nil {
			return nil, err
		}
		return defaults.Extract(doc)
	})
	if err != nil {
		return nil, err
	}
	return defaults.Clone(value.(map[string]any)), nil
}

// Close stops the store's background goroutines.
func (m *Memo) Close() {
	m.store.Close()
}

func (m *Memo) load(ctx context.Context, op string, raw formdef.RawDocument, compute func() (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fingerprint := raw.Fingerprint()
	if fingerprint == "" {
		return nil, errors.New("memo: document is empty")
	}
	key := op + ":" + fingerprint
	attrs := metric.WithAttributes(attribute.String("operation", op))

	if value, ok := m.store.Get(key); ok {
		m.hits.Add(ctx, 1, attrs)
		return value, nil
	}

	value, err, _ := m.group.Do(key, func() (any, error) {
		if value, ok := m.store.Get(key); ok {
			m.hits.Add(ctx, 1, attrs)
			return value, nil
		}
		m.misses.Add(ctx, 1, attrs)
		value, err := compute()
		if err != nil {
			return nil, err
		}
		cost := int64(len(raw.Raw())) + 1
		if m.ttl > 0 {
			m.store.SetWithTTL(key, value, cost, m.ttl)
		} else {
			m.store.Set(key, value, cost)
		}
		// Set is buffered; wait so the next lookup sees the entry.
		m.store.Wait()
		return value, nil
	})
	return value, err
}
