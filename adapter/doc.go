// Package adapter wraps periph.io bus and pin handles (and a go.bug.st
// serial port) so they satisfy the gossip package's capability interfaces.
//
// The interpreter's contracts are deliberately infallible: Transfer returns
// a byte, not an error. A real bus can fail, so every adapter here swallows
// the underlying error and logs it, matching the posture the interpreter
// itself expects of its collaborators. Adapters hold whatever mutex or
// exclusivity state the underlying handle requires; the interpreter itself
// is never locked, since the wire protocol has no concurrency of its own.
package adapter
