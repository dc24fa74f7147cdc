package xtrace

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

func TestGRPCUnaryServerInterceptor_Direct(t *testing.T) {
	interceptor := GRPCUnaryServerInterceptor()

	var seen string
	handler := func(ctx context.Context, _ any) (any, error) {
		seen = RequestID(ctx)
		return "ok", nil
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(MetadataRequestID, "grpc-req"))
	resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/M"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "grpc-req", seen)

	_, err = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "grpc-req", seen)
}

func TestExtractFromIncomingContext(t *testing.T) {
	assert.Empty(t, ExtractFromIncomingContext(context.Background()))
	assert.Empty(t, ExtractFromIncomingContext(metadata.NewIncomingContext(context.Background(), metadata.MD{})))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(MetadataRequestID, " r1 "))
	assert.Equal(t, "r1", ExtractFromIncomingContext(ctx))
}

func TestInjectToOutgoingContext(t *testing.T) {
	assert.Equal(t, context.Background(), InjectToOutgoingContext(context.Background()))

	ctx := injectRequestID(context.Background(), "r-out", false)
	md, ok := metadata.FromOutgoingContext(InjectToOutgoingContext(ctx))
	require.True(t, ok)
	assert.Equal(t, []string{"r-out"}, md.Get(MetadataRequestID))
}

func TestGRPCInterceptors_RoundTrip(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(GRPCUnaryServerInterceptor()))
	healthpb.RegisterHealthServer(srv, health.NewServer())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(GRPCUnaryClientInterceptor()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := injectRequestID(context.Background(), "round-trip", false)
	var header metadata.MD
	_, err = healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{}, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"round-trip"}, header.Get(MetadataRequestID))
}
