// Package groupsync maps roster roles onto directory group memberships.
//
// Resolver looks a user up in the four role tables (student, teacher,
// school_admin, district_admin) and Synchronizer adds the user to the
// directory group named after each role. Together they implement the
// reconcile.RoleResolver and reconcile.MembershipSyncer collaborators of the
// pagination driver.
//
// # Failure Policy
//
// Resolution fails open: a lookup error is logged and the role is treated as
// absent. Assignment failures are recorded in the report with their error and
// do not affect the user's other roles. Nothing is retried.
package groupsync
