package memo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/goliatone/go-formfate/pkg/formdef"
	"github.com/goliatone/go-formfate/pkg/validation"
)

const addressForm = `{"properties": {
  "choice": {"type": "select", "options": [{"label": "A", "value": "a"}]},
  "address": {"type": "group", "properties": {"city": {"type": "text", "default": "NYC"}}}
}}`

func newMemo(t *testing.T, opts ...Option) (*Memo, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := New(DefaultConfig(), append([]Option{WithMeterProvider(provider)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	return m, reader
}

// counts sums counter values by operation for the named instrument.
func counts(t *testing.T, reader *sdkmetric.ManualReader, name string) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value("operation")
				out[op.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestMemo_ValidateCachesByContent(t *testing.T) {
	t.Parallel()

	m, reader := newMemo(t)
	ctx := context.Background()

	first, err := m.Validate(ctx, formdef.Inline([]byte(addressForm)))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	fromFile := formdef.MustNewRawDocument(formdef.SourceFromFile("forms/address.json"), []byte(addressForm))
	second, err := m.Validate(ctx, fromFile)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached document differs (-first +second):\n%s", diff)
	}

	if diff := cmp.Diff(map[string]int64{"validate": 1}, counts(t, reader, "formfate.memo.misses")); diff != "" {
		t.Fatalf("misses mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int64{"validate": 1}, counts(t, reader, "formfate.memo.hits")); diff != "" {
		t.Fatalf("hits mismatch (-want +got):\n%s", diff)
	}
}

func TestMemo_CachesIssues(t *testing.T) {
	t.Parallel()

	m, _ := newMemo(t)
	raw := formdef.Inline([]byte(`{"properties": {"choice": {"type": "select", "options": []}}}`))

	for i := 0; i < 2; i++ {
		_, err := m.Validate(context.Background(), raw)
		var issues validation.Issues
		if !errors.As(err, &issues) || !issues.Has(validation.CodeEmptyOptionList) {
			t.Fatalf("run %d: expected EmptyOptionList, got %v", i, err)
		}
	}

	if _, err := m.Defaults(context.Background(), raw); err == nil {
		t.Fatalf("expected defaults of an invalid document to fail")
	}
}

func TestMemo_DefaultsReturnsCopies(t *testing.T) {
	t.Parallel()

	m, reader := newMemo(t)
	raw := formdef.Inline([]byte(addressForm))
	want := map[string]any{"choice": "a", "address": map[string]any{"city": "NYC"}}

	first, err := m.Defaults(context.Background(), raw)
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	first["address"].(map[string]any)["city"] = "LA"

	second, err := m.Defaults(context.Background(), raw)
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Fatalf("cached defaults were mutated (-want +got):\n%s", diff)
	}
	if got := counts(t, reader, "formfate.memo.hits")["defaults"]; got != 1 {
		t.Fatalf("expected one defaults hit, got %d", got)
	}
}

func TestMemo_ValidationOptions(t *testing.T) {
	t.Parallel()

	m, _ := newMemo(t, WithValidationOptions(validation.WithCustomTypes("stars")))
	_, err := m.Validate(context.Background(), formdef.Inline([]byte(`{"properties": {"x": {"type": "map"}}}`)))
	if err == nil {
		t.Fatalf("expected custom type allow-list to apply")
	}
}

func TestMemo_ConcurrentCallers(t *testing.T) {
	t.Parallel()

	m, reader := newMemo(t)
	raw := formdef.Inline([]byte(addressForm))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Validate(context.Background(), raw); err != nil {
				t.Errorf("Validate: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := counts(t, reader, "formfate.memo.misses")["validate"]; got != 1 {
		t.Fatalf("expected a single computation, got %d", got)
	}
}

func TestMemo_Preconditions(t *testing.T) {
	t.Parallel()

	m, _ := newMemo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Validate(ctx, formdef.Inline([]byte(addressForm))); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := m.Validate(context.Background(), formdef.RawDocument{}); err == nil {
		t.Fatalf("expected empty document to be rejected")
	}
}
