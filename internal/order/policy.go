package order

// TransitionPolicy decides whether an order may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to Status) bool
}

// Permissive accepts every move between valid statuses, including
// backwards ones such as delivered -> pending.
type Permissive struct{}

func (Permissive) Allow(_, _ Status) bool { return true }

// ForwardOnly only lets an order move forward through the fulfillment
// path. Cancellation is reachable from any non-terminal status and both
// delivered and cancelled are terminal. Re-applying the current status
// is a no-op and always allowed.
type ForwardOnly struct{}

var forwardTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
}

func (ForwardOnly) Allow(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return ForwardOnly{}
	}
	return Permissive{}
}

// TrackingStatusFor maps an order status to the tracking entry recorded
// alongside a status change. Pending and cancelled have no counterpart.
func TrackingStatusFor(s Status) (TrackingStatus, bool) {
	switch s {
	case StatusConfirmed:
		return TrackingConfirmed, true
	case StatusShipped:
		return TrackingShipped, true
	case StatusDelivered:
		return TrackingDelivered, true
	}
	return "", false
}
