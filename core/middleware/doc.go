// Package middleware contains HTTP middleware for the status endpoint.
//
// # Components
//
//   - Auth: API key validation. Run progress exposes page cursors and totals,
//     so the endpoint can be protected when bound to a shared interface.
//   - RayID: generates a request id for every incoming request, injecting it
//     into the context and the response headers for tracing.
package middleware
