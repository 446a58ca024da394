package tcp

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/toyctl/pkg/controller"
	fx "github.com/robotalks/toyctl/pkg/framework"
	"github.com/robotalks/toyctl/pkg/servo"
	"github.com/robotalks/toyctl/pkg/servo/dryrun"
)

func startServer(t *testing.T) (*Server, *servo.Bank, func()) {
	srv, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	bank, stop := runServer(t, srv)
	return srv, bank, stop
}

func runServer(t *testing.T, srv *Server) (*servo.Bank, func()) {
	act := dryrun.New()
	bank, err := servo.NewBank(servo.DefaultLayout(), act)
	require.NoError(t, err)
	require.NoError(t, bank.Init())

	loop := fx.NewLoop()
	loop.Interval = 0
	loop.Add(controller.New(bank), srv)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	return bank, func() {
		cancel()
		<-done
	}
}

func sendFrame(t *testing.T, conn net.Conn, frame ...byte) string {
	conn.SetDeadline(time.Now().Add(time.Second))
	_, err := conn.Write(frame)
	require.NoError(t, err)
	ack := make([]byte, 2)
	_, err = io.ReadFull(conn, ack)
	require.NoError(t, err)
	return string(ack)
}

func TestServerAcks(t *testing.T) {
	srv, bank, stop := startServer(t)
	defer stop()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	testCases := []struct {
		name  string
		frame []byte
		ack   string
	}{
		{name: "trigger", frame: []byte{0, 0, 150}, ack: "OK"},
		{name: "weave", frame: []byte{1, 2, 65}, ack: "OK"},
		{name: "clamped", frame: []byte{1, 0, 255}, ack: "OK"},
		{name: "unknown toy", frame: []byte{5, 0, 90}, ack: "NO"},
		{name: "unknown role", frame: []byte{0, 9, 90}, ack: "NO"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.ack, sendFrame(t, conn, tc.frame...))
		})
	}

	// frames may be split across writes
	conn.SetDeadline(time.Now().Add(time.Second))
	_, err = conn.Write([]byte{0})
	require.NoError(t, err)
	require.Equal(t, "OK", sendFrame(t, conn, 1, 45))

	conn.Close()
	stop()
	require.Equal(t, 150, bank.Angle(0))
	require.Equal(t, 45, bank.Angle(1))
	require.Equal(t, 180, bank.Angle(3))
	require.Equal(t, 65, bank.Angle(5))
}

func TestServerNextClient(t *testing.T) {
	srv, _, stop := startServer(t)
	defer stop()

	first, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	require.Equal(t, "OK", sendFrame(t, first, 0, 2, 90))
	first.Close()

	second, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer second.Close()
	require.Equal(t, "OK", sendFrame(t, second, 1, 2, 90))
}

// failingListener fails the first Accept.
type failingListener struct {
	net.Listener
	failed bool
}

func (l *failingListener) Accept() (net.Conn, error) {
	if !l.failed {
		l.failed = true
		return nil, errors.New("too many open files")
	}
	return l.Listener.Accept()
}

func TestServerSurvivesAcceptError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &Server{listener: &failingListener{Listener: ln}}
	bank, stop := runServer(t, srv)
	defer stop()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.Equal(t, "OK", sendFrame(t, conn, 0, 2, 120))
	require.Equal(t, 120, bank.Angle(2))
}
