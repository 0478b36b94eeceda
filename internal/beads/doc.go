// Package beads is the read side of the Beads task tracker as seen by the
// loop controller.
//
// Every query runs the bd CLI in the working directory and decodes its JSON
// output. Queries are best-effort: a failed command, a non-zero exit or
// unparseable output is captured as a *BackendError inside a Result and then
// collapsed to a default value (empty list, placeholder text, nil issue) at
// the Gateway boundary. Callers never see backend errors; the worst case is
// an extra no-op iteration on the next idle signal.
package beads
