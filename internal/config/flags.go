package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured host and port data and implements the
// flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags shared by the server and client
// binaries.
//
// Flags:
//
//	-a server listen address in [host]:[port] form
//	-d database DSN
//	-s server base URL used by the client
//	-cache client vault cache file path
//	-c/-config JSON config file path
//	-credential-hash-key HMAC key for stored credentials
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token lifetime (e.g. "1h", "30m")
//	-request-timeout request timeout (e.g. "30s", "1m")
//	-log-path client log file path
//	-sync-interval background sync period
//	-autolock-timeout inactivity window before the vault locks
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var serverURL string
	var cachePath string
	var jsonConfigPath string
	var credentialHashKey string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var logPath string
	var syncInterval time.Duration
	var autolockTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&serverURL, "s", "", "Server base URL")
	flag.StringVar(&cachePath, "cache", "", "Client vault cache path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&credentialHashKey, "credential-hash-key", "", "Credential hash key")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&logPath, "log-path", "", "Client log file path")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync period")
	flag.DurationVar(&autolockTimeout, "autolock-timeout", 0, "Inactivity window before autolock")

	flag.Parse()

	return &StructuredConfig{
		Auth: Auth{
			CredentialHashKey: credentialHashKey,
			TokenSignKey:      tokenSignKey,
			TokenIssuer:       tokenIssuer,
			TokenDuration:     tokenDuration,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Cache: Cache{Path: cachePath},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Client: Client{
			ServerURL:      serverURL,
			RequestTimeout: requestTimeout,
			LogPath:        logPath,
		},
		Sync: Sync{
			Interval:        syncInterval,
			AutolockTimeout: autolockTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns the canonical host:port string, or "" when the address was
// never set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses a host:port string into the NetAddress. It validates the port
// range and checks IP correctness unless host is "localhost".
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
