// Package report records the outcome of every group assignment attempt.
//
// A run writes one CSV row per attempt with the columns username, roles and
// error. Roles are an ordered, comma-joined list in a single field; error is
// empty on success.
//
// # Lifecycle
//
// Open returns a CSVRecorder when reporting is enabled and Nop otherwise. The
// caller defers Finalize so the file is flushed and closed on every exit path.
// Finalizing a recorder that is not open logs a warning and is not an error.
//
// # Archiving
//
// Uploader copies a finished report to an S3/MinIO bucket under
// <prefix>/<run id>.csv.
package report
