// Package pool provides the fixed-size worker pool used to race rule matchers.
//
// Submission never blocks: Go hands a task to an idle worker, or runs it on
// the calling goroutine when every worker is busy or the pool has been
// closed. Nested fork-join work (a group evaluation spawned from inside a
// pooled task) therefore always makes progress on a bounded pool.
//
// Dispatch is the asynchronous form used for racing: it also prefers an
// idle worker but overflows onto a fresh goroutine, so no submitted task
// waits behind another one on the caller.
//
// A task submitted with a context that is cancelled by the time the task is
// picked up is skipped.
package pool
