package access

import "context"

type contextKey struct{}

// WithDecision returns a copy of ctx carrying d.
func WithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// FromContext returns the decision stored by WithDecision.
func FromContext(ctx context.Context) (Decision, error) {
	d, ok := ctx.Value(contextKey{}).(Decision)
	if !ok {
		return Decision{}, ErrDecisionMissing
	}
	return d, nil
}
