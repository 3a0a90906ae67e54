// Package directory abstracts the identity directory that owns users and
// group memberships.
//
// The Directory interface has two operations: ListUsers, which serves the user
// collection one page at a time behind an opaque cursor, and AddUserToGroup.
//
// # Implementations
//
//   - Cognito: an AWS Cognito user pool (aws-sdk-go-v2). Group names equal
//     role labels verbatim.
//   - Google: a Google Workspace domain (Admin Directory API). A role maps to
//     the group <role>@<group_domain>.
//
// Both wrap their SDK client behind a small unexported interface so tests can
// substitute it.
package directory
