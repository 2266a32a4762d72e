package geolocation

import "context"

// Reported is a Locator that replays what the browser already obtained:
// either a position or a failure reason.
type Reported struct {
	Position *Position
	Failure  Failure
	Message  string
}

// CurrentPosition returns the reported fix or the reported failure
func (r Reported) CurrentPosition(ctx context.Context, opts Options) (*Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Failure != "" {
		return nil, &Error{Reason: r.Failure, Message: r.Message}
	}
	if r.Position == nil {
		return nil, &Error{Reason: FailureUnsupported}
	}
	return r.Position, nil
}
