// Package lifecycle runs shutdown handlers when the process is interrupted.
package lifecycle

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler receives the signal that interrupted the run.
type Handler func(os.Signal)

// HandlerID identifies a registered handler. Zero is never issued.
type HandlerID int64

type Manager struct {
	signals []os.Signal
	notify  func(chan<- os.Signal, ...os.Signal)
	stop    func(chan<- os.Signal)
	exit    func(int)

	mu       sync.Mutex
	started  bool
	channel  chan os.Signal
	nextID   HandlerID
	handlers []registration
}

type registration struct {
	id      HandlerID
	handler Handler
}

func NewManager() *Manager {
	return &Manager{
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		notify:  signal.Notify,
		stop:    signal.Stop,
		exit:    os.Exit,
	}
}

var defaultManager = NewManager()

// Register adds a handler to the default manager.
func Register(handler Handler) HandlerID {
	return defaultManager.Register(handler)
}

// Unregister removes a handler from the default manager.
func Unregister(id HandlerID) {
	defaultManager.Unregister(id)
}

// Register adds a handler and starts listening for signals on first use.
// Handlers run newest first, then the process exits with the signal's
// conventional exit code.
func (m *Manager) Register(handler Handler) HandlerID {
	if handler == nil {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		m.listen()
	}

	m.nextID++
	m.handlers = append(m.handlers, registration{id: m.nextID, handler: handler})
	return m.nextID
}

func (m *Manager) Unregister(id HandlerID) {
	if id == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.handlers {
		if existing.id == id {
			m.handlers = append(m.handlers[:i], m.handlers[i+1:]...)
			return
		}
	}
}

// Close stops listening and forgets every handler.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.channel != nil {
		m.stop(m.channel)
		close(m.channel)
	}
	m.channel = nil
	m.started = false
	m.handlers = nil
}

// listen must be called with mu held.
func (m *Manager) listen() {
	m.started = true
	m.channel = make(chan os.Signal, 1)
	m.notify(m.channel, m.signals...)

	go func(ch chan os.Signal) {
		sig, ok := <-ch
		if !ok {
			return
		}
		m.run(sig)
		m.exit(exitCode(sig))
	}(m.channel)
}

func (m *Manager) run(sig os.Signal) {
	m.mu.Lock()
	snapshot := make([]registration, len(m.handlers))
	copy(snapshot, m.handlers)
	m.mu.Unlock()

	for i := len(snapshot) - 1; i >= 0; i-- {
		callHandler(snapshot[i].handler, sig)
	}
}

func callHandler(handler Handler, sig os.Signal) {
	defer func() {
		// a failing handler must not stop the rest from running
		_ = recover()
	}()
	handler(sig)
}

func exitCode(sig os.Signal) int {
	switch sig {
	case os.Interrupt:
		return 130
	case syscall.SIGTERM:
		return 143
	default:
		return 1
	}
}
