// Package registry searches package registries. It keeps one live Endpoint
// per configured Source in an EndpointCache, walks the sources in priority
// order, returns the hits of the first source that yields any, and resolves
// every hit's sibling versions before handing results back.
package registry
