// internal/config/secrets_test.go
//
// Unit-tests for vault-reference resolution with a fake resolver.

package config

import (
	"context"
	"errors"
	"testing"
)

type fakeResolver struct {
	secrets map[string]string
}

func (f *fakeResolver) Lookup(_ context.Context, ref string) (string, error) {
	if v, ok := f.secrets[ref]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestResolveSecretsReplacesReference(t *testing.T) {
	cfg := &AppConfig{Database: DatabaseConfig{Password: "vault:secret/db/prod#password"}}
	r := &fakeResolver{secrets: map[string]string{"secret/db/prod#password": "s3cret"}}

	if err := ResolveSecrets(context.Background(), cfg, r); err != nil {
		t.Fatalf("ResolveSecrets: %v", err)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("Password = %q, want resolved secret", cfg.Database.Password)
	}
}

func TestResolveSecretsPassthrough(t *testing.T) {
	cfg := &AppConfig{Database: DatabaseConfig{Password: "plain"}}
	if err := ResolveSecrets(context.Background(), cfg, nil); err != nil {
		t.Fatalf("ResolveSecrets: %v", err)
	}
	if cfg.Database.Password != "plain" {
		t.Errorf("Password = %q, want untouched", cfg.Database.Password)
	}
}

func TestResolveSecretsNoResolver(t *testing.T) {
	cfg := &AppConfig{Database: DatabaseConfig{Password: "vault:secret/db#k"}}
	if err := ResolveSecrets(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error when reference present but resolver nil")
	}
}

func TestResolveSecretsLookupError(t *testing.T) {
	cfg := &AppConfig{Database: DatabaseConfig{Password: "vault:secret/db#missing"}}
	r := &fakeResolver{secrets: map[string]string{}}
	if err := ResolveSecrets(context.Background(), cfg, r); err == nil {
		t.Fatal("expected lookup error to propagate")
	}
}
