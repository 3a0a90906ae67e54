package secrets

import (
	"context"
	"fmt"

	"group-sync/core/utils"

	ksm "github.com/keeper-security/secrets-manager-go/core"
)

// keeperAPI is the subset of the Keeper Secrets Manager client in use.
type keeperAPI interface {
	GetSecrets(uids []string) ([]*ksm.Record, error)
}

// KeeperProvider reads bundles from a Keeper record whose title is the
// secret id. Each bundle key is a custom field labelled with the key name.
type KeeperProvider struct {
	client keeperAPI
}

// NewKeeperProvider creates a provider from a base64 KSM application config.
func NewKeeperProvider(configBase64 string) *KeeperProvider {
	storage := ksm.NewMemoryKeyValueStorage(configBase64)
	return &KeeperProvider{
		client: ksm.NewSecretsManager(&ksm.ClientOptions{Config: storage}),
	}
}

// Fetch retrieves the record titled secretID and validates its fields.
func (p *KeeperProvider) Fetch(_ context.Context, secretID string) (*Bundle, error) {
	records, err := p.client.GetSecrets(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list keeper records: %w", err)
	}

	var record *ksm.Record
	for _, r := range records {
		if r.Title() == secretID {
			record = r
			break
		}
	}
	if record == nil {
		return nil, fmt.Errorf("keeper record %q was not found. Make sure it is shared to the KSM application", secretID)
	}

	values := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		if v, ok := firstFieldValue(record.GetCustomFieldsByLabel(key)); ok {
			values[key] = v
		}
	}
	return NewBundle(values)
}

// firstFieldValue returns the first value of the first field as a string.
// Keeper stores field values as a list even for single-valued fields.
func firstFieldValue(fields []map[string]any) (string, bool) {
	for _, field := range fields {
		switch vt := field["value"].(type) {
		case string:
			return vt, true
		case []any:
			for _, v := range vt {
				if v != nil {
					return utils.ToString(v), true
				}
			}
		}
	}
	return "", false
}
