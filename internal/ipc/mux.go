package ipc

import (
	"sync"
)

// Handler answers method calls on a channel.
type Handler interface {
	HandleMethodCall(req *Request) *Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req *Request) *Response

func (f HandlerFunc) HandleMethodCall(req *Request) *Response {
	return f(req)
}

// Mux routes requests to the handler registered for their channel.
// Requests for an unregistered channel get a not_implemented reply.
type Mux struct {
	mu             sync.RWMutex
	handlers       map[string]Handler
	defaultChannel string
}

// NewMux creates a Mux. Requests with an empty channel are routed to
// defaultChannel.
func NewMux(defaultChannel string) *Mux {
	return &Mux{
		handlers:       make(map[string]Handler),
		defaultChannel: defaultChannel,
	}
}

// Handle registers h for channel, replacing any previous handler.
func (m *Mux) Handle(channel string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[channel] = h
}

// HandleMethodCall implements Handler.
func (m *Mux) HandleMethodCall(req *Request) *Response {
	channel := req.Channel
	if channel == "" {
		channel = m.defaultChannel
	}

	m.mu.RLock()
	h, ok := m.handlers[channel]
	m.mu.RUnlock()

	if !ok {
		return NotImplemented()
	}
	resp := h.HandleMethodCall(req)
	if resp == nil {
		return Success(nil)
	}
	return resp
}
