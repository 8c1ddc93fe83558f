// Package tips manages learned-tip submissions: an append-only JSON
// lines queue of observations recorded during scripting sessions, and a
// curated store that reviewed submissions are promoted into.
//
// Submissions accumulate in the queue file without coordination; a
// human reviews them in batches and approves, skips, or rejects each
// one. Approved submissions become curated entries with stable slug
// IDs. Skipped and malformed lines stay in the queue untouched.
package tips
