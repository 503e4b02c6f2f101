package secrets

import "context"

// Provider is a secrets backend. Secrets are flat JSON objects of strings.
type Provider interface {
	// GetSecret retrieves a secret by name and returns its key-value map.
	GetSecret(ctx context.Context, name string) (map[string]string, error)

	// ListSecrets returns the names of all secrets whose name starts with prefix.
	ListSecrets(ctx context.Context, prefix string) ([]string, error)
}
