package dispatch

import (
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestForwardTCPCopiesBothDirections(t *testing.T) {
	upstreamLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	defer upstreamLn.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		conn, err := upstreamLn.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 5)
		io.ReadFull(conn, buf)
		conn.Write([]byte("pong"))
	}()

	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()

	d := &Dispatcher{log: testLogger()}

	done := make(chan struct{})
	go func() {
		forwardTCP(d, serverSide, upstreamLn.Addr().String())
		close(done)
	}()

	if _, err := clientSide.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 4)
	clientSide.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := io.ReadFull(clientSide, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "pong" {
		t.Fatalf("got %q, want %q", buf, "pong")
	}

	wg.Wait()
}

func TestForwardTCPDialFailureReturns(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()

	d := &Dispatcher{log: testLogger()}
	done := make(chan struct{})
	go func() {
		forwardTCP(d, serverSide, "127.0.0.1:1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("forwardTCP did not return after a dial failure")
	}
}
