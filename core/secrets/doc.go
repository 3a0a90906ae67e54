// Package secrets resolves the keyed secret bundle that configures a run.
//
// A bundle carries the roster database credentials and the directory pool id.
// Two providers are available:
//   - AWSProvider reads a JSON object from AWS Secrets Manager.
//   - KeeperProvider reads custom fields of a Keeper Secrets Manager record.
//
// Both return a *Bundle produced by NewBundle, which fails fast with
// ErrMissingKey when a required key is absent or blank.
package secrets
