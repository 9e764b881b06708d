package llm

import (
	"context"
	"errors"
)

// Call performs one provider attempt: generate, then extract the JSON object.
// It never returns an error; every failure is carried in the Attempt.
func Call(ctx context.Context, p Provider, prompt string) Attempt {
	model := p.Name()

	text, err := p.Generate(ctx, prompt)
	if err != nil {
		return Attempt{Model: model, Failure: classify(ctx, model, err)}
	}

	obj, err := ExtractObject(text)
	if err != nil {
		return Attempt{Model: model, Raw: text, Failure: malformed(model, err.Error())}
	}
	return Attempt{Model: model, Object: obj, Raw: text}
}

func classify(ctx context.Context, model string, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		out := *f
		out.Model = model
		return &out
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Failure{Model: model, Kind: FailureCanceled, Detail: ctxErr.Error()}
	}
	// The caller still has time, so the provider's own timeout elapsed.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Model: model, Kind: FailureTransport, Detail: "provider request timed out: " + err.Error()}
	}
	return &Failure{Model: model, Kind: FailureTransport, Detail: err.Error()}
}
