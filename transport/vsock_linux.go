//go:build linux

package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/mdlayher/vsock"
)

const vsockDialAttempts = 10

// dialVsock retries with a growing pause: a guest agent is often not
// listening yet when the host starts dialing.
func dialVsock(ctx context.Context, cid, port uint32) (net.Conn, error) {
	var lastErr error
	for i := range vsockDialAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		conn, err := vsock.Dial(cid, port, nil)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(100*(i+1)) * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("dial vsock://%d:%d after %d attempts: %w", cid, port, vsockDialAttempts, lastErr)
}

func listenVsock(cid, port uint32) (net.Listener, error) {
	ln, err := vsock.ListenContextID(cid, port, nil)
	if err != nil {
		return nil, fmt.Errorf("listen vsock://%d:%d: %w", cid, port, err)
	}
	return ln, nil
}
