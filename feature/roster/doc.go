// Package roster checks roster role resolution for a list of users.
//
// The input is a CSV export with a username column, typically a dump of the
// user pool. It is consumed in chunks through core/batch so very large
// exports never sit in memory at once, and each user's roles are written to
// the outcome report in the same format as a sync run. No directory call is
// made, which makes the check a safe preview of what sync would assign.
package roster
