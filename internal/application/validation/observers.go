package validation

import "context"

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Outcome  func(ctx context.Context, runID string, o Outcome) error
	Complete func(ctx context.Context, r *Report) error
}

func (f ObserverFuncs) OnOutcome(ctx context.Context, runID string, o Outcome) error {
	if f.Outcome == nil {
		return nil
	}
	return f.Outcome(ctx, runID, o)
}

func (f ObserverFuncs) OnComplete(ctx context.Context, r *Report) error {
	if f.Complete == nil {
		return nil
	}
	return f.Complete(ctx, r)
}

//Personal.AI order the ending
