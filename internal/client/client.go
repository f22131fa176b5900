package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
)

func dial(cfg DialConfig) (*grpc.ClientConn, error) {
	creds, err := transportCredentials(cfg)
	if err != nil {
		return nil, err
	}
	return grpc.NewClient(cfg.Address,
		grpc.WithTransportCredentials(creds),
		grpc.WithUnaryInterceptor(requestIDInterceptor),
	)
}

// transportCredentials picks plaintext, TLS or mTLS.  mTLS is used when
// both a client certificate and key are configured.
func transportCredentials(cfg DialConfig) (credentials.TransportCredentials, error) {
	if cfg.Insecure {
		return insecure.NewCredentials(), nil
	}
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.RootCA != "" {
		caPEM, err := os.ReadFile(cfg.RootCA)
		if err != nil {
			return nil, fmt.Errorf("read root ca: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.RootCA)
		}
		tlsCfg.RootCAs = pool
	}
	switch {
	case cfg.ClientCert != "" && cfg.ClientKey != "":
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client key pair: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	case cfg.ClientCert != "" || cfg.ClientKey != "":
		return nil, fmt.Errorf("mtls requires both --tls-cert and --tls-key")
	}
	return credentials.NewTLS(tlsCfg), nil
}

// requestIDInterceptor tags every outgoing call with a fresh request id
// unless the caller already set one.
func requestIDInterceptor(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	if md, ok := metadata.FromOutgoingContext(ctx); !ok || len(md.Get(api.RequestIDKey)) == 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, api.RequestIDKey, uuid.NewString())
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}
