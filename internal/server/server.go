package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
)

// New builds a gRPC server with the user, todo and post namespaces
// registered against s.  Every call is logged and validated.
func New(s store.Store, log *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		loggingInterceptor(log),
		validationInterceptor(newValidator()),
	))
	grpcServer := grpc.NewServer(opts...)
	api.RegisterUserServer(grpcServer, NewUserServer(s))
	api.RegisterTodoServer(grpcServer, NewTodoServer(s))
	api.RegisterPostServer(grpcServer, NewPostServer())
	return grpcServer
}

// Run starts a gRPC server listening on addr using the provided store.
// It blocks until the server stops serving.  Cancelling ctx stops the
// server gracefully, letting in-flight calls finish, and Run then
// returns nil.  Any error encountered while starting or serving will be
// returned.
func Run(ctx context.Context, addr string, s store.Store, log *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serve(ctx, lis, New(s, log), log)
}

// RunTLS is Run with mutual TLS.  Clients must present a certificate
// signed by the CA in caFile.
func RunTLS(ctx context.Context, addr, certFile, keyFile, caFile string, s store.Store, log *zap.Logger) error {
	creds, err := serverTLS(certFile, keyFile, caFile)
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serve(ctx, lis, New(s, log, grpc.Creds(creds)), log)
}

func serve(ctx context.Context, lis net.Listener, srv *grpc.Server, log *zap.Logger) error {
	stop := context.AfterFunc(ctx, func() {
		log.Info("stopping gRPC server", zap.String("addr", lis.Addr().String()))
		srv.GracefulStop()
	})
	defer stop()
	err := srv.Serve(lis)
	if errors.Is(err, grpc.ErrServerStopped) && ctx.Err() != nil {
		return nil
	}
	return err
}

func serverTLS(certFile, keyFile, caFile string) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load server key pair: %w", err)
	}
	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in %s", caFile)
	}
	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    pool,
		MinVersion:   tls.VersionTLS12,
	}), nil
}
