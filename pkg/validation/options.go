package validation

import "strings"

// DefaultMaxDepth bounds group nesting when no explicit limit is configured.
const DefaultMaxDepth = 32

// Option customises a validation run.
type Option func(*config)

type config struct {
	maxDepth    int
	customTypes map[string]struct{}
}

func newConfig(options ...Option) config {
	cfg := config{maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.maxDepth <= 0 {
		cfg.maxDepth = DefaultMaxDepth
	}
	return cfg
}

// WithMaxDepth bounds how many group levels are resolved below the document
// root. Deeper groups are reported as DepthExceeded.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		cfg.maxDepth = depth
	}
}

// WithCustomTypes restricts the custom variant to the listed type tags. Other
// unknown tags are then reported as UnknownOrMismatchedVariant. Without this
// option every tag outside the closed set is accepted as custom.
func WithCustomTypes(types ...string) Option {
	return func(cfg *config) {
		if cfg.customTypes == nil {
			cfg.customTypes = make(map[string]struct{}, len(types))
		}
		for _, t := range types {
			if trimmed := strings.TrimSpace(t); trimmed != "" {
				cfg.customTypes[trimmed] = struct{}{}
			}
		}
	}
}

func (cfg config) acceptsCustom(tag string) bool {
	if cfg.customTypes == nil {
		return true
	}
	_, ok := cfg.customTypes[tag]
	return ok
}
