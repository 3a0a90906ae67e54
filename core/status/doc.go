// Package status serves the progress of a running reconciliation.
//
// A Tracker receives a snapshot from the pagination driver after every page
// and the Server exposes the latest one as JSON on GET /status. The server is
// optional and only started when a listen address is configured.
package status
