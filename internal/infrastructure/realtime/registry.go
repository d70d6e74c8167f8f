package realtime

import (
	"sync"

	"github.com/rs/zerolog"
)

// Subscriber is the handle the Registry keeps per live socket. Connection
// satisfies it; tests substitute mocks.
type Subscriber interface {
	ID() string
	Send(payload []byte) error
}

// Registry maps conversation room keys to the set of currently connected
// subscribers. It is the single shared mutable structure on the chat path:
// every connection joins on open, leaves on close, and message fan-out reads
// the membership under the same lock. Constructed at service start and passed
// down explicitly so tests can run isolated instances.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Subscriber // roomKey -> subscriberID -> subscriber
	log   zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]map[string]Subscriber),
		log:   log,
	}
}

// Join adds sub to the room's subscriber set. Re-joining a room the
// subscriber is already in is a no-op.
func (r *Registry) Join(roomKey string, sub Subscriber) {
	r.mu.Lock()
	room := r.rooms[roomKey]
	if room == nil {
		room = make(map[string]Subscriber)
		r.rooms[roomKey] = room
	}
	room[sub.ID()] = sub
	count := len(room)
	r.mu.Unlock()

	r.log.Info().Str("room", roomKey).Str("subscriber", sub.ID()).Int("members", count).Msg("subscriber joined")
}

// Leave removes sub from the room. Removing an absent subscriber is a no-op;
// the last leave prunes the empty room entry.
func (r *Registry) Leave(roomKey string, sub Subscriber) {
	r.mu.Lock()
	room := r.rooms[roomKey]
	if room == nil {
		r.mu.Unlock()
		return
	}
	if _, ok := room[sub.ID()]; !ok {
		r.mu.Unlock()
		return
	}
	delete(room, sub.ID())
	count := len(room)
	if count == 0 {
		delete(r.rooms, roomKey)
	}
	r.mu.Unlock()

	r.log.Info().Str("room", roomKey).Str("subscriber", sub.ID()).Int("members", count).Msg("subscriber left")
}

// MembersOf returns the current subscribers of the room.
func (r *Registry) MembersOf(roomKey string) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomKey]
	if len(room) == 0 {
		return nil
	}
	members := make([]Subscriber, 0, len(room))
	for _, sub := range room {
		members = append(members, sub)
	}
	return members
}

// Broadcast pushes payload to every subscriber of the room and reports how
// many deliveries succeeded. Delivery is fire-and-forget per member: a
// failing subscriber never blocks the rest of the room or the sender.
func (r *Registry) Broadcast(roomKey string, payload []byte) int {
	delivered := 0
	for _, sub := range r.MembersOf(roomKey) {
		if err := sub.Send(payload); err != nil {
			r.log.Debug().Str("room", roomKey).Str("subscriber", sub.ID()).Err(err).Msg("dropped delivery")
			continue
		}
		delivered++
	}
	return delivered
}

// Stats reports the current number of rooms and subscribers.
func (r *Registry) Stats() (rooms, subscribers int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms = len(r.rooms)
	for _, room := range r.rooms {
		subscribers += len(room)
	}
	return rooms, subscribers
}

// Close clears all membership state. Sockets themselves are owned by their
// handlers and shut down with the HTTP server.
func (r *Registry) Close() {
	r.mu.Lock()
	r.rooms = make(map[string]map[string]Subscriber)
	r.mu.Unlock()
}
