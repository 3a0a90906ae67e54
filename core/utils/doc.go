// Package utils provides small helpers shared by the adapters.
// ToString flattens loosely typed secret values into strings.
package utils
