package classifier

import (
	"context"
	"fmt"
	"log/slog"
)

// Classifier is the pluggable deepfake inference capability. Classify
// operates on the stored file path, not the normalized signal, because
// the collaborator applies its own preprocessing.
type Classifier interface {
	Classify(ctx context.Context, path string) (Verdict, error)
}

// Adapter wraps a Classifier and converts every failure mode (returned
// errors, panics, timeouts, context cancellation) into a Failure verdict
// with a diagnostic message. Classification failure must degrade to a
// visible "inference failed" result, never crash the pipeline.
type Adapter struct {
	inner  Classifier
	logger *slog.Logger
}

// NewAdapter creates an adapter around the given collaborator
func NewAdapter(inner Classifier, logger *slog.Logger) *Adapter {
	return &Adapter{inner: inner, logger: logger}
}

// Classify invokes the collaborator and always returns a well-formed
// verdict
func (a *Adapter) Classify(ctx context.Context, path string) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Classifier panicked",
				slog.String("path", path),
				slog.Any("panic", r),
			)
			verdict = NewVerdict(StatusFailure, fmt.Sprintf("inference failed: %v", r))
		}
	}()

	v, err := a.inner.Classify(ctx, path)
	if err != nil {
		a.logger.Error("Classifier call failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return NewVerdict(StatusFailure, fmt.Sprintf("inference failed: %v", err))
	}

	return v
}
