// Package websocket receives commands over websocket connections.
// A binary message carries a frame, a text message carries a line.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/toyctl/pkg/command"
	"github.com/robotalks/toyctl/pkg/controller"
	fx "github.com/robotalks/toyctl/pkg/framework"
)

// Path is where the websocket endpoint is served.
const Path = "/ws"

type message struct {
	binary bool
	data   []byte
}

// codec keeps the payload type, which websocket.Message drops.
var codec = websocket.Codec{
	Marshal: func(v interface{}) ([]byte, byte, error) {
		msg, ok := v.(*message)
		if !ok {
			return nil, 0, websocket.ErrNotSupported
		}
		if msg.binary {
			return msg.data, websocket.BinaryFrame, nil
		}
		return msg.data, websocket.TextFrame, nil
	},
	Unmarshal: func(data []byte, payloadType byte, v interface{}) error {
		msg, ok := v.(*message)
		if !ok {
			return websocket.ErrNotSupported
		}
		msg.binary = payloadType == websocket.BinaryFrame
		msg.data = append(msg.data[:0], data...)
		return nil
	},
}

// Server serves the websocket endpoint.
type Server struct {
	listener net.Listener
}

// Listen creates a Server listening on addr.
func Listen(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	glog.Infof("websocket listening on %s%s", ln.Addr(), Path)
	return &Server{listener: ln}, nil
}

// Addr is the listening address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops listening.
func (s *Server) Close() error {
	return s.listener.Close()
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(l *fx.Loop) {
	l.AddRunnable(s)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(Path, websocket.Handler(func(conn *websocket.Conn) {
		s.serve(ctx, conn)
	}))
	srv := &http.Server{Handler: mux}
	err := fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		return srv.Serve(s.listener)
	})
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn) {
	source := "ws:" + conn.Request().RemoteAddr
	glog.Infof("%s: connected", source)
	err := fx.RunWithContextCloser(ctx, conn, func() error {
		for {
			var msg message
			if err := codec.Receive(conn, &msg); err != nil {
				return err
			}
			var in *controller.Input
			if msg.binary {
				in = controller.NewFrameInput(source, msg.data)
			} else {
				in = controller.NewTextInput(source, string(msg.data))
			}
			res := controller.Submit(ctx, in)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := codec.Send(conn, &message{data: command.Ack(res.OK())}); err != nil {
				return err
			}
		}
	})
	if err != nil && err != io.EOF && err != context.Canceled {
		glog.Warningf("%s: %v", source, err)
	}
	glog.Infof("%s: disconnected", source)
}
