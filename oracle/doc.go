// Package oracle talks to the service that hides the door graph.
//
// The Oracle interface has three calls, all JSON over HTTP in the remote
// form:
//
//   - Select picks a problem and tells the caller how many rooms it has.
//   - Explore walks a batch of plans from the starting room and returns one
//     label sequence per plan.
//   - Guess submits a complete map and reports whether it is correct.
//
// Client is the remote implementation. Local wraps a graph.Graph in the same
// interface for tests, benchmarks and offline runs.
package oracle
