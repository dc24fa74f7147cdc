package xserve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/omeyang/xboot/pkg/lifecycle/xrun"
	"github.com/omeyang/xboot/pkg/observability/xlog"
)

// HTTPServer 是 HTTPUnit 托管的服务器，*http.Server 满足该接口。
type HTTPServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPUnit 将 HTTPServer 作为 xapp 组件运行。
type HTTPUnit struct {
	name string
	srv  HTTPServer
	opts *options
	ep   *endpoint
}

// HTTP 创建 HTTP 组件。
//
// 监听地址依次取 WithListener、WithAddr、(*http.Server).Addr，都为空时使用 ":http"。
func HTTP(name string, srv HTTPServer, opts ...Option) *HTTPUnit {
	o := applyOptions(opts)
	if o.addr == "" {
		if hs, ok := srv.(*http.Server); ok {
			o.addr = hs.Addr
		}
	}
	if o.addr == "" {
		o.addr = ":http"
	}
	return &HTTPUnit{name: name, srv: srv, opts: o, ep: newEndpoint()}
}

func (u *HTTPUnit) Name() string {
	return u.name
}

// Addr 返回实际监听地址，绑定前为空。
func (u *HTTPUnit) Addr() string {
	return u.ep.String()
}

// Ready 返回在绑定完成后关闭的 channel。
func (u *HTTPUnit) Ready() <-chan struct{} {
	return u.ep.ready
}

// Serve 绑定并服务，直到取消请求后优雅关闭。http.ErrServerClosed 视为正常退出。
func (u *HTTPUnit) Serve(g xrun.Guard) error {
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
	logger.Info(ctx, "http listening", xlog.Addr(u.Addr()))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- u.srv.Serve(l)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("xserve: http serve: %w", err)
	case <-g.Done():
	}

	logger.Info(ctx, "http stopping", xlog.Addr(u.Addr()))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.opts.shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := u.srv.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("xserve: http shutdown: %w", err)
		logger.Warn(ctx, "http shutdown incomplete, closing", xlog.Err(err))
		if c, ok := u.srv.(io.Closer); ok {
			shutdownErr = errors.Join(shutdownErr, c.Close())
		}
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(shutdownErr, fmt.Errorf("xserve: http serve: %w", err))
	}
	return shutdownErr
}
