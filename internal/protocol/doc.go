// Package protocol is the registry protocol client. It speaks the NuGet V3
// JSON API: it reads a feed's service index to discover the search and
// package content resources, runs searches, and lists the published versions
// of a package. Failures that only concern one feed are reported as
// *FeedError so callers can skip that feed and move on.
package protocol
