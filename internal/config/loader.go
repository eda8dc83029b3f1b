// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load(path)` builds one immutable `AppConfig` from three layers
(highest precedence last):

  1. Optional `.env` file next to the config file.
  2. The YAML document at `path`.
  3. Environment variables prefixed `DBPOOL_`, where `__` maps to “.”
     and snake segments convert to the camelCase key space
     (e.g., `DBPOOL_DATABASE__DATABASE_NAME → database.databaseName`).

After merging, the tree is unmarshalled into strongly-typed structs
through a TextUnmarshaller decode hook (so duration fields accept unit
strings), validated, and cached in an `atomic.Pointer` for lock-free
reads.  `Reload()` re-runs `Load` on the last path and swaps the
pointer.  `Decode(raw)` runs the same unmarshal-and-validate pipeline
on an in-memory YAML document, for callers that source config text
themselves.

Instrumentation
---------------
  • ERROR spans — YAML read, env overlay, unmarshal, validation.
  • INFO  span  — final “config loaded” with the derived endpoint
    (never the credentials).
  • Logs use the global *sugared* logger (`zap.S()`) so early boot
    issues surface even before the file logger is installed.
*/
package config

import (
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const envPrefix = "DBPOOL_"

var (
	current  atomic.Pointer[AppConfig]
	lastPath atomic.Pointer[string]
)

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, and env overrides, validates, and caches the
// resulting AppConfig.
func Load(path string) (*AppConfig, error) {
	// .env beside the config file (optional, no error if missing).
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", path, "err", err)
		return nil, err
	}

	// Env overrides: DBPOOL_DATABASE__POOL_OPTIONS__MAX_CONNECTIONS →
	// database.poolOptions.maxConnections.
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	current.Store(cfg)
	lastPath.Store(&path)
	zap.S().Infow("config loaded",
		"endpoint", cfg.Database.Address(),
		"database", cfg.Database.DatabaseName,
	)
	return cfg, nil
}

// Decode unmarshals and validates an in-memory YAML document.  Used by
// callers that load config text through their own channels, and by
// tests.
func Decode(raw []byte) (*AppConfig, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

// unmarshal decodes the merged tree over pre-filled defaults, then
// validates.  Missing required fields fail here, never silently
// default.
func unmarshal(k *koanf.Koanf) (*AppConfig, error) {
	cfg := AppConfig{Database: DatabaseConfig{PoolOptions: DefaultPoolOptions()}}

	dc := &mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "koanf",
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", DecoderConfig: dc}); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}
	return &cfg, nil
}

/*──────────────────────────── env key mapping ──────────────────────────────*/

// envKey maps DBPOOL_DATABASE__DATABASE_NAME to database.databaseName:
// the prefix is stripped, "__" becomes the path separator, and each
// snake_case segment becomes a camelCase key.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	parts := strings.Split(strings.ToLower(s), "__")
	for i, p := range parts {
		parts[i] = snakeToCamel(p)
	}
	return strings.Join(parts, ".")
}

func snakeToCamel(s string) string {
	words := strings.Split(s, "_")
	for i := 1; i < len(words); i++ {
		if words[i] != "" {
			words[i] = strings.ToUpper(words[i][:1]) + words[i][1:]
		}
	}
	return strings.Join(words, "")
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last loaded config, or nil before the first Load.
func Get() *AppConfig { return current.Load() }

// Reload re-reads the file given to the previous Load.
func Reload() error {
	p := lastPath.Load()
	if p == nil {
		return nil
	}
	_, err := Load(*p)
	return err
}
