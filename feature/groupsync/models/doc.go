// Package models defines the GORM models of the roster role tables.
//
// Each role has its own table with the same columns. DeletedAt uses
// gorm.DeletedAt, so every query through these models carries the
// "deleted_at IS NULL" condition.
package models
