// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `unmarshal` in loader.go calls `validateStruct` immediately after it
// decodes the merged tree into an `AppConfig`.  Any missing required
// field (host, username, password, databaseName) aborts the load with a
// descriptive error instead of silently substituting a default.
//
// The only built-in rule in use is `required`.  Custom rules—e.g., a
// host-format check or a CA-path existence check—can be registered here
// as the configuration surface grows.

package config

import "github.com/go-playground/validator/v10"

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *AppConfig) error {
	return v.Struct(c)
}
