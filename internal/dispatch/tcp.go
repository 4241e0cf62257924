package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/weavehq/weave/internal/werr"
)

func (d *Dispatcher) runTCP(ctx context.Context, grp *group) error {
	ln, err := net.Listen("tcp", grp.addr)
	if err != nil {
		msg := fmt.Sprintf("could not bind tcp listener on %s", grp.addr)
		return werr.New(werr.KindListenBind, msg, fmt.Errorf("listening on %s: %w", grp.addr, err))
	}

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	upstream := grp.tcp.Dest.Socket
	d.log.Info("tcp listener starting", "addr", grp.addr, "upstream", upstream)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			d.log.Warn("accept failed", "addr", grp.addr, "error", err)
			continue
		}
		go forwardTCP(d, conn, upstream)
	}
}

func forwardTCP(d *Dispatcher, client net.Conn, upstream string) {
	defer client.Close()

	remote, err := net.Dial("tcp", upstream)
	if err != nil {
		d.log.Warn("dialing upstream failed", "upstream", upstream, "error", err)
		return
	}
	defer remote.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go pump(d, &wg, remote, client)
	go pump(d, &wg, client, remote)
	wg.Wait()
}

func pump(d *Dispatcher, wg *sync.WaitGroup, dst, src net.Conn) {
	defer wg.Done()
	if _, err := io.Copy(dst, src); err != nil {
		d.log.Warn("copying tcp stream failed", "error", err)
	}
	if tcp, ok := dst.(*net.TCPConn); ok {
		tcp.CloseWrite()
	}
}
