// Package demo implements the lifecycle controller every fetchlab page
// shares: one state machine (idle, loading, success, error) combining a
// real network call with a timed cosmetic narration.
//
// The two activities are deliberately not causally linked. Narration steps
// are pure presentation pacing and can finish before or after the real
// response; the only reconciliation is that a success is surfaced once the
// narration window has elapsed. Timer callbacks carry the generation they
// were scheduled under and are discarded on mismatch, which is the one
// correctness-sensitive rule here: after a Reset, nothing from the old run
// may touch the new one.
package demo
