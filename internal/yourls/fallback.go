package yourls

import "context"

// Fallback is merged into every operation result so callers can tell native
// from emulated behavior without reading logs. A fallback that cannot fully
// emulate a capability says so here instead of omitting fields.
type Fallback struct {
	UsedFallback       bool   `json:"used_fallback"`
	Limitations        string `json:"limitations,omitempty"`
	LimitedCapability  bool   `json:"limited_capability,omitempty"`
	RequiredCapability string `json:"required_capability,omitempty"`
}

// strategy is one way of performing an operation. handled=false means this
// strategy cannot serve the call (typically: the plugin is not installed)
// and the driver should try the next one; any error from a handling
// strategy is final.
type strategy[T any] func(ctx context.Context) (result T, handled bool, err error)

// runStrategies evaluates strategies in order until one handles the call.
// The order is the whole policy: native plugin first, emulation last, no
// retries beyond what a strategy does internally.
func runStrategies[T any](ctx context.Context, op string, strategies ...strategy[T]) (T, error) {
	var zero T
	for _, s := range strategies {
		result, handled, err := s(ctx)
		if err != nil {
			return zero, err
		}
		if handled {
			return result, nil
		}
	}
	return zero, &APIError{
		Kind:    KindCapabilityAbsent,
		Message: op + ": not supported by the server and no fallback applies",
	}
}

// native wraps a plugin call as a strategy: it declines when the capability
// probe says the plugin is missing, and handles the call otherwise.
func native[T any](c *Client, capability string, fn func(ctx context.Context) (T, error)) strategy[T] {
	return func(ctx context.Context) (T, bool, error) {
		var zero T
		if !c.caps.Available(ctx, capability) {
			return zero, false, nil
		}
		result, err := fn(ctx)
		return result, true, err
	}
}

// emulated wraps a baseline-only reconstruction as a strategy that always
// handles the call.
func emulated[T any](fn func(ctx context.Context) (T, error)) strategy[T] {
	return func(ctx context.Context) (T, bool, error) {
		result, err := fn(ctx)
		return result, true, err
	}
}
