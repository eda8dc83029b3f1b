// internal/vault/vault.go
//
// HashiCorp Vault secret resolver.
//
// Context
// -------
// Implements config.SecretResolver over the Vault KV-v2 engine.  A
// reference has the form `<mount>/<path>#<key>`, e.g.
// `secret/db/prod#password`.  The client is read-only and performs one
// lookup per reference; it holds no cache because dbpool resolves
// secrets exactly once, at load time.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"fmt"
	"os"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// Client resolves KV-v2 secret references.  Safe for concurrent use.
type Client struct {
	api *vault.Client
}

// New constructs a client from the standard VAULT_* environment.
func New() (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{api: apiCli}, nil
}

// Lookup fetches one key from a KV-v2 secret.  The ref grammar is
// `<mount>/<path>#<key>`.
func (c *Client) Lookup(ctx context.Context, ref string) (string, error) {
	loc, key, ok := strings.Cut(ref, "#")
	if !ok || key == "" {
		return "", fmt.Errorf("vault ref %q: want <mount>/<path>#<key>", ref)
	}
	mount, secretPath, ok := strings.Cut(loc, "/")
	if !ok || mount == "" || secretPath == "" {
		return "", fmt.Errorf("vault ref %q: want <mount>/<path>#<key>", ref)
	}

	sec, err := c.api.KVv2(mount).Get(ctx, secretPath)
	if err != nil {
		return "", fmt.Errorf("vault read %s/%s: %w", mount, secretPath, err)
	}
	val, ok := sec.Data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault secret %s/%s: key %q missing or not a string", mount, secretPath, key)
	}
	return val, nil
}
