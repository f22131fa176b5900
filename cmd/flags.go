package cmd

import (
	"github.com/spf13/pflag"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/client"
)

// dialCfg is filled by the flags of dialFlags.
var dialCfg = client.DialConfig{Address: "127.0.0.1:9090"}

// dialFlags are shared by every command that talks to the gRPC server.
func dialFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("dial", pflag.ContinueOnError)

	fs.StringVarP(&dialCfg.Address,
		"addr", "a", dialCfg.Address, "Server address")

	fs.BoolVar(&dialCfg.Insecure,
		"insecure", false, "Use insecure gRPC (no TLS)")

	fs.StringVar(&dialCfg.RootCA,
		"tls-ca", "", "Path to root CA certificate")

	fs.StringVar(&dialCfg.ClientCert,
		"tls-cert", "", "Path to client certificate for mTLS")

	fs.StringVar(&dialCfg.ClientKey,
		"tls-key", "", "Path to client private key for mTLS")

	return fs
}

// storeFlags select and configure the storage backend.
func storeFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("store", pflag.ContinueOnError)

	fs.StringVarP(&cfg.Backend,
		"backend", "b", cfg.Backend, "Storage backend (memory, redis, postgres)")

	fs.StringVar(&cfg.DatabaseURL,
		"database-url", cfg.DatabaseURL, "Postgres connection string")

	fs.StringVarP(&cfg.RedisAddr,
		"redis-address", "r", cfg.RedisAddr, "Redis address")

	fs.StringVarP(&cfg.RedisPassword,
		"redis-password", "p", cfg.RedisPassword, "Redis password")

	return fs
}

func getClient() (*client.GRPCClient, error) {
	return client.NewClient(dialCfg)
}
