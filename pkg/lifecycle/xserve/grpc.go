package xserve

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/omeyang/xboot/pkg/lifecycle/xrun"
	"github.com/omeyang/xboot/pkg/observability/xlog"
)

// GRPCUnit 将 *grpc.Server 作为 xapp 组件运行，并维护健康检查状态。
type GRPCUnit struct {
	name   string
	srv    *grpc.Server
	health *health.Server
	opts   *options
	ep     *endpoint
}

// RegisterHealth 在 srv 上注册标准健康检查服务并返回它。
func RegisterHealth(srv *grpc.Server) *health.Server {
	h := health.NewServer()
	healthpb.RegisterHealthServer(srv, h)
	return h
}

// GRPC 创建 gRPC 组件，必须在 srv 开始服务前调用。
// 未通过 WithHealthServer 指定健康服务时会调用 RegisterHealth。
// 监听地址依次取 WithListener、WithAddr，都为空时使用 ":50051"。
func GRPC(name string, srv *grpc.Server, opts ...Option) *GRPCUnit {
	o := applyOptions(opts)
	if o.addr == "" {
		o.addr = ":50051"
	}
	h := o.health
	if h == nil && srv != nil {
		h = RegisterHealth(srv)
	}
	return &GRPCUnit{name: name, srv: srv, health: h, opts: o, ep: newEndpoint()}
}

func (u *GRPCUnit) Name() string {
	return u.name
}

// Addr 返回实际监听地址，绑定前为空。
func (u *GRPCUnit) Addr() string {
	return u.ep.String()
}

// Ready 返回在绑定完成后关闭的 channel。
func (u *GRPCUnit) Ready() <-chan struct{} {
	return u.ep.ready
}

// Health 返回组件维护的健康检查服务。
func (u *GRPCUnit) Health() *health.Server {
	return u.health
}

// Serve 绑定并服务。取消请求后先将健康状态置为 NOT_SERVING，
// 再 GracefulStop，超过关闭上限则 Stop 强制断开。
func (u *GRPCUnit) Serve(g xrun.Guard) error {
	if u.srv == nil {
		return ErrNilServer
	}
	ctx := g.Context()
	logger := u.opts.logger

	l := u.opts.listener
	if l == nil {
		var err error
		if l, err = listen(ctx, u.opts.retryer, u.opts.addr); err != nil {
			if g.IsCancelled() {
				return nil
			}
			return err
		}
	}
	u.ep.set(l.Addr())
	u.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	logger.Info(ctx, "grpc listening", xlog.Addr(u.Addr()))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- u.srv.Serve(l)
	}()

	select {
	case err := <-serveErr:
		u.health.Shutdown()
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("xserve: grpc serve: %w", err)
	case <-g.Done():
	}

	logger.Info(ctx, "grpc stopping", xlog.Addr(u.Addr()))
	// Shutdown 将所有服务置为 NOT_SERVING，并忽略之后的状态更新。
	u.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		u.srv.GracefulStop()
		close(stopped)
	}()
	timer := time.NewTimer(u.opts.shutdownTimeout)
	defer timer.Stop()
	select {
	case <-stopped:
	case <-timer.C:
		logger.Warn(ctx, "grpc graceful stop timed out, forcing", xlog.Duration(u.opts.shutdownTimeout))
		u.srv.Stop()
		<-stopped
	}

	if err := <-serveErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("xserve: grpc serve: %w", err)
	}
	return nil
}
