// Package session drives an interactive package search. A Controller turns
// edits of the search term and filters into registry searches, keeps only
// the outcome of the most recent one, and exposes the resulting state to
// whatever renders it.
package session
