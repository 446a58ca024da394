// Package tcp receives binary command frames over TCP.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/command"
	"github.com/robotalks/toyctl/pkg/controller"
	fx "github.com/robotalks/toyctl/pkg/framework"
)

// DefaultAddr is the listen address of the command port.
const DefaultAddr = ":8080"

// acceptRetryDelay is the pause after a failed Accept.
const acceptRetryDelay = 100 * time.Millisecond

// Server accepts one client at a time. Every frame of 3 bytes is
// executed and answered with a 2-byte ack.
type Server struct {
	listener net.Listener
}

// Listen creates a Server listening on addr.
func Listen(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	glog.Infof("command port listening on %s", ln.Addr())
	return &Server{listener: ln}, nil
}

// Addr is the listening address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Name implements Named.
func (s *Server) Name() string {
	return "tcp:" + s.listener.Addr().String()
}

// Close stops listening.
func (s *Server) Close() error {
	return s.listener.Close()
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(l *fx.Loop) {
	l.AddRunnable(s)
}

// Run implements Runnable. Accept failures are logged and retried
// until the listener is closed.
func (s *Server) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.listener, func() error {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return err
				}
				glog.Warningf("%s: accept: %v", s.Name(), err)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(acceptRetryDelay):
				}
				continue
			}
			s.serve(ctx, conn)
		}
	})
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	source := "tcp:" + conn.RemoteAddr().String()
	glog.Infof("%s: connected", source)
	err := fx.RunWithContextCloser(ctx, conn, func() error {
		for {
			frame := make([]byte, command.FrameSize)
			if _, err := io.ReadFull(conn, frame); err != nil {
				return err
			}
			res := controller.Submit(ctx, controller.NewFrameInput(source, frame))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err := conn.Write(command.Ack(res.OK())); err != nil {
				return err
			}
		}
	})
	if err != nil && err != io.EOF && err != context.Canceled {
		glog.Warningf("%s: %v", source, err)
	}
	glog.Infof("%s: disconnected", source)
}
