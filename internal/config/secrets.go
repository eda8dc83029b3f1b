// internal/config/secrets.go
//
// Secret-reference resolution.
//
// Context
// -------
// A password value of the form `vault:<mount>/<path>#<key>` is a
// reference, not a credential.  `ResolveSecrets` swaps the reference
// for the real value through a SecretResolver before the config is
// handed to the pool bootstrap.  `internal/vault` provides the live
// resolver; tests inject fakes.
//
// Plain password values pass through untouched, so deployments without
// Vault need no resolver at all.

package config

import (
	"context"
	"errors"
	"strings"
)

// VaultPrefix marks a config value as a secret reference.
const VaultPrefix = "vault:"

// SecretResolver turns a reference (the part after the prefix) into the
// secret value.
type SecretResolver interface {
	Lookup(ctx context.Context, ref string) (string, error)
}

// ResolveSecrets replaces vault-prefixed values in cfg, in place.  It
// is a no-op when the config carries no references.
func ResolveSecrets(ctx context.Context, cfg *AppConfig, r SecretResolver) error {
	pw := cfg.Database.Password
	if !strings.HasPrefix(pw, VaultPrefix) {
		return nil
	}
	if r == nil {
		return errors.New("config: password is a vault reference but no resolver is configured")
	}
	val, err := r.Lookup(ctx, strings.TrimPrefix(pw, VaultPrefix))
	if err != nil {
		return err
	}
	cfg.Database.Password = val
	return nil
}
