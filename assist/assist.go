// Package assist implements the study-helper engines: heuristic
// recommendation scoring, schedule slotting, budget insight text, task
// prioritization, and the generative-text endpoints backed by Gemini.
//
// The heuristic engines are pure functions over a snapshot of the caller's
// tracker data; everything that talks to the network lives behind the
// TextGenerator interface so the handlers can be exercised without a key.
package assist
