package job

// JobQueueBuilderOption is a functional option for configuring a JobQueue.
type JobQueueBuilderOption func(*jobQueue)

// WithCoalescePredicate sets the predicate deciding whether a pushed job replaces the
// pending tail job. Passing nil disables coalescing.
//
// Parameters:
//   - p: the coalesce predicate (default DefaultCoalescePredicate)
//
// Returns:
//   - JobQueueBuilderOption: option function to apply
func WithCoalescePredicate(p CoalescePredicate) JobQueueBuilderOption {
	return func(q *jobQueue) {
		q.coalesce = p
	}
}

// WithBackCapacity pre-allocates room in the back buffer.
//
// Parameters:
//   - n: initial back buffer capacity
//
// Returns:
//   - JobQueueBuilderOption: option function to apply
func WithBackCapacity(n int) JobQueueBuilderOption {
	return func(q *jobQueue) {
		if n > 0 {
			q.back = make([]Job, 0, n)
		}
	}
}
