// Package loop decides what happens each time the agent goes idle.
//
// The decision itself is the pure function Transition, which maps the
// persisted LoopState and a Snapshot of the task backend to the next
// LoopState and a Decision. Controller wraps it with the side effects:
// loading and saving state, querying the backend only as far as the policy
// needs, logging to the host, notifying on completion, and dispatching the
// next instruction.
//
// Policy, evaluated in order while the loop is active:
//  1. backend missing: deactivate with blocked_reason
//  2. iteration ceiling reached: deactivate
//  3. nothing ready or in progress: complete when every epic is closed,
//     otherwise stop if anything is blocked, otherwise keep going
//  4. nothing ready: wait
//  5. dispatch the first ready task
//
// Invocations are assumed to be serialized per working directory by the
// host; there is no locking.
package loop
