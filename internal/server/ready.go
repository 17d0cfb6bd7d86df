package server

import (
	"net"
	"sync"

	"github.com/dtroode/ipgeo-server/internal/model"
)

var _ model.SecurityLayer = (*ReadyListener)(nil)

// ReadyListener wraps a security layer and calls onReady once the expected
// number of listeners have been opened successfully.
type ReadyListener struct {
	next    model.SecurityLayer
	onReady func()

	mu      sync.Mutex
	pending int
}

func NewReadyListener(next model.SecurityLayer, expected int, onReady func()) *ReadyListener {
	return &ReadyListener{
		next:    next,
		onReady: onReady,
		pending: expected,
	}
}

func (l *ReadyListener) Listen(protocol, addr string) (net.Listener, error) {
	ln, err := l.next.Listen(protocol, addr)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.pending--
	ready := l.pending == 0
	l.mu.Unlock()

	if ready {
		l.onReady()
	}
	return ln, nil
}
