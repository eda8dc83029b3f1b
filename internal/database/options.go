// internal/database/options.go
//
// Connection-descriptor construction.
//
// Context
// -------
// Translates a config.DatabaseConfig into the DSN and resolved pool
// tunables the bootstrap hands to the driver.  The go-sql-driver DSN
// grammar reserves a handful of characters in the credential and
// address positions; values that cannot be represented fail here, as
// InvalidEndpointError, before any dial.
//
// When sslCa is set, the CA bundle is parsed and registered with the
// driver under a per-endpoint key so concurrent bootstraps of different
// endpoints never clobber each other's TLS config.

package database

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/yanizio/dbpool/internal/config"
)

// connectOptions is the fully resolved input to the pool establishment
// step.  The DSN is the only field carrying credentials; it is never
// logged.
type connectOptions struct {
	endpoint string
	dsn      string
	pool     config.PoolOptions
}

// buildConnectOptions derives the DSN and pool tunables from cfg.
func buildConnectOptions(cfg *config.DatabaseConfig) (*connectOptions, error) {
	endpoint := cfg.Address()

	if err := checkEncodable(endpoint, cfg); err != nil {
		return nil, err
	}

	my := mysql.NewConfig()
	my.User = cfg.Username
	my.Passwd = cfg.Password
	my.Net = "tcp"
	my.Addr = endpoint // driver supplies :3306 when the port is absent
	my.DBName = cfg.DatabaseName
	my.Timeout = time.Duration(cfg.PoolOptions.AcquireTimeout)
	my.ParseTime = true

	if cfg.SSLCA != "" {
		key, err := registerTLS(endpoint, cfg.SSLCA)
		if err != nil {
			return nil, err
		}
		my.TLSConfig = key
	}

	return &connectOptions{
		endpoint: endpoint,
		dsn:      my.FormatDSN(),
		pool:     cfg.PoolOptions,
	}, nil
}

// checkEncodable rejects values the DSN grammar cannot carry.  Reasons
// name the offending field, never its value.
func checkEncodable(endpoint string, cfg *config.DatabaseConfig) error {
	if strings.ContainsAny(cfg.Username, ":@/") {
		return &InvalidEndpointError{Endpoint: endpoint, Reason: "username contains characters not representable in a DSN"}
	}
	if strings.ContainsAny(cfg.Password, "@/") {
		return &InvalidEndpointError{Endpoint: endpoint, Reason: "password contains characters not representable in a DSN"}
	}
	if strings.ContainsAny(cfg.Host, "@/?") {
		return &InvalidEndpointError{Endpoint: endpoint, Reason: "host contains characters not representable in a DSN"}
	}
	if strings.ContainsAny(cfg.DatabaseName, "/?") {
		return &InvalidEndpointError{Endpoint: endpoint, Reason: "database name contains characters not representable in a DSN"}
	}
	return nil
}

// registerTLS loads the CA bundle and registers it with the driver,
// returning the registration key referenced from the DSN.
func registerTLS(endpoint, caPath string) (string, error) {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return "", &InvalidEndpointError{Endpoint: endpoint, Reason: "ssl ca bundle unreadable: " + err.Error()}
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return "", &InvalidEndpointError{Endpoint: endpoint, Reason: "ssl ca bundle contains no PEM certificates"}
	}

	key := "dbpool:" + endpoint
	if err := mysql.RegisterTLSConfig(key, &tls.Config{RootCAs: pool}); err != nil {
		return "", &InvalidEndpointError{Endpoint: endpoint, Reason: "tls registration: " + err.Error()}
	}
	return key, nil
}
