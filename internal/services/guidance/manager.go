// Package guidance runs the decorative LED blink sessions that walk staff to
// a slot. No real hardware is driven: frames go to connected display clients
// and the console.
package guidance

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// blinkInterval is the on/off half-period of the simulated LEDs
const blinkInterval = 500 * time.Millisecond

// Broadcaster fans a frame out to display clients. Satisfied by the
// websocket hub.
type Broadcaster interface {
	Broadcast(message interface{})
}

// Frame is one LED state change pushed to displays
type Frame struct {
	Type      string   `json:"type"` // always "led"
	SessionID string   `json:"session_id"`
	GroupKey  int64    `json:"group_key"`
	Labels    []string `json:"labels"`
	Color     string   `json:"color"`
	On        bool     `json:"on"`
}

type session struct {
	id     string
	key    int64
	labels []string
	color  string

	mu     sync.Mutex
	paused bool
	stop   chan struct{}
}

// Manager owns the active blink sessions, keyed by the first slot id of the
// guided group. Starting a group that is already blinking replaces the old
// session. Sessions carry no data dependency on the allocator or ledger and
// can be stopped at any time with no cleanup beyond ending the loop.
type Manager struct {
	broadcaster Broadcaster

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewManager creates a guidance manager
func NewManager(b Broadcaster) *Manager {
	return &Manager{
		broadcaster: b,
		sessions:    make(map[int64]*session),
	}
}

// Start begins blinking the given slot group. The group key is the first
// slot id; the returned session id identifies this particular run.
func (m *Manager) Start(slotIDs []int64, labels []string, color string) (key int64, sessionID string) {
	if len(slotIDs) == 0 {
		return 0, ""
	}
	if color == "" {
		color = "yellow"
	}
	key = slotIDs[0]
	m.Stop(key)

	s := &session{
		id:     uuid.New().String(),
		key:    key,
		labels: labels,
		color:  color,
		stop:   make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[key] = s
	m.mu.Unlock()

	go m.run(s)
	return key, s.id
}

// PauseToggle flips the pause state of a session. Returns the new paused
// state, or false if the session is gone.
func (m *Manager) PauseToggle(key int64) bool {
	m.mu.Lock()
	s, ok := m.sessions[key]
	m.mu.Unlock()
	if !ok {
		return false
	}
	s.mu.Lock()
	s.paused = !s.paused
	paused := s.paused
	s.mu.Unlock()
	if paused {
		log.Printf("[LED] pause %s", strings.Join(s.labels, ", "))
	} else {
		log.Printf("[LED] resume %s", strings.Join(s.labels, ", "))
	}
	return paused
}

// Stop ends the session for a group key, if one is running
func (m *Manager) Stop(key int64) {
	m.mu.Lock()
	s, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
	}
	m.mu.Unlock()
	if ok {
		close(s.stop)
	}
}

// StopAll ends every active session, used on shutdown
func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[int64]*session)
	m.mu.Unlock()
	for _, s := range sessions {
		close(s.stop)
	}
}

// ActiveCount returns the number of running sessions
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) run(s *session) {
	ticker := time.NewTicker(blinkInterval)
	defer ticker.Stop()

	on := true
	for {
		select {
		case <-s.stop:
			m.emit(s, false)
			return
		case <-ticker.C:
			s.mu.Lock()
			paused := s.paused
			s.mu.Unlock()
			if paused {
				continue
			}
			m.emit(s, on)
			on = !on
		}
	}
}

func (m *Manager) emit(s *session, on bool) {
	state := "OFF"
	if on {
		state = "ON"
	}
	log.Printf("[LED] %s %s (%s)", state, strings.Join(s.labels, ", "), s.color)
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(Frame{
			Type:      "led",
			SessionID: s.id,
			GroupKey:  s.key,
			Labels:    s.labels,
			Color:     s.color,
			On:        on,
		})
	}
}
