// Package session orchestrates one conversation turn against the completion
// service.
//
// Invariant:
//   - the user turn is appended to the transcript before the service call,
//     so a failed call never loses what the user said; the generic apology
//     becomes the recorded assistant turn.
//
// Flow:
//
//	user(text) -> slot extraction -> system prompt + window -> completion -> persist
package session
