package bridge

import (
	"crypto/tls"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/lutronctl/internal/logging"
)

// NewTLSConfig loads a PEM certificate and key for serving the relay over
// HTTPS and WSS.
func NewTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	logging.Info("TLS configuration created from files",
		zap.String("cert", certPath),
		zap.String("key", keyPath),
	)

	return buildTLSConfig(cert), nil
}

// NewTLSConfigFromPEM builds a TLS configuration from in-memory PEM data.
func NewTLSConfigFromPEM(certPEM, keyPEM []byte) (*tls.Config, error) {
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate from memory: %w", err)
	}
	return buildTLSConfig(cert), nil
}

func buildTLSConfig(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		VerifyConnection: func(cs tls.ConnectionState) error {
			logging.Debug("TLS handshake completed",
				zap.String("version", tls.VersionName(cs.Version)),
				zap.String("cipher_suite", tls.CipherSuiteName(cs.CipherSuite)),
				zap.String("server_name", cs.ServerName),
			)
			return nil
		},
	}
}

// TLSInfo returns a human-readable summary of config.
func TLSInfo(config *tls.Config) map[string]string {
	if config == nil {
		return map[string]string{"enabled": "false"}
	}
	return map[string]string{
		"enabled":     "true",
		"min_version": tls.VersionName(config.MinVersion),
		"num_certs":   fmt.Sprint(len(config.Certificates)),
	}
}
