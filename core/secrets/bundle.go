package secrets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Keys of the account-management secret bundle.
const (
	KeyDBHost     = "DB__ROSTER__HOST"
	KeyDBName     = "DB__ROSTER__DATABASE"
	KeyDBUser     = "DB__ROSTER__USERNAME"
	KeyDBPassword = "DB__ROSTER__PASSWORD"
	KeyUserPoolID = "AWS_NEW_USER_POOL_ID"
)

var requiredKeys = []string{KeyDBHost, KeyDBName, KeyDBUser, KeyDBPassword, KeyUserPoolID}

// ErrMissingKey is returned when the bundle lacks a required key.
var ErrMissingKey = errors.New("secret bundle is missing required keys")

// Provider resolves a named secret bundle.
type Provider interface {
	Fetch(ctx context.Context, secretID string) (*Bundle, error)
}

// Bundle is the validated content of a secret bundle.
type Bundle struct {
	DBHost     string
	DBName     string
	DBUser     string
	DBPassword string
	UserPoolID string
}

// NewBundle validates raw key/value pairs and builds a Bundle.
// Every required key must be present and non-blank.
func NewBundle(values map[string]string) (*Bundle, error) {
	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
	}

	return &Bundle{
		DBHost:     values[KeyDBHost],
		DBName:     values[KeyDBName],
		DBUser:     values[KeyDBUser],
		DBPassword: values[KeyDBPassword],
		UserPoolID: values[KeyUserPoolID],
	}, nil
}
