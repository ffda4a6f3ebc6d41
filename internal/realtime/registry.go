package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Channel is an open outbound connection to one user.
type Channel interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Registry maps user IDs to their single live channel. A new connection for a
// user replaces the previous one. Writes never happen under the lock.
type Registry struct {
	mu       sync.Mutex
	channels map[uint64]Channel
	log      logrus.FieldLogger
}

func NewRegistry(log logrus.FieldLogger) *Registry {
	return &Registry{
		channels: make(map[uint64]Channel),
		log:      log,
	}
}

// Connect registers ch for userID, closing any channel it replaces.
func (r *Registry) Connect(userID uint64, ch Channel) {
	r.mu.Lock()
	prev := r.channels[userID]
	r.channels[userID] = ch
	total := len(r.channels)
	r.mu.Unlock()

	if prev != nil && prev != ch {
		_ = prev.Close()
		r.log.WithField("user_id", userID).Info("Replaced existing realtime connection")
	}
	r.log.WithFields(logrus.Fields{"user_id": userID, "connections": total}).Info("Realtime client connected")
}

// Disconnect drops the channel of userID, if any, and closes it.
func (r *Registry) Disconnect(userID uint64) {
	r.mu.Lock()
	ch, ok := r.channels[userID]
	delete(r.channels, userID)
	r.mu.Unlock()

	if ok {
		_ = ch.Close()
		r.log.WithField("user_id", userID).Info("Realtime client disconnected")
	}
}

// release removes the entry for userID only while it still points at ch, so a
// connection that has been replaced cannot evict its successor.
func (r *Registry) release(userID uint64, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.channels[userID]; ok && current == ch {
		delete(r.channels, userID)
		return true
	}
	return false
}

func (r *Registry) lookup(userID uint64) (Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.channels[userID]
	return ch, ok
}

// SendTo pushes event to userID. Absent users are skipped silently; a failed
// write evicts the broken channel. It reports whether the event was written.
func (r *Registry) SendTo(userID uint64, event Event) bool {
	ch, ok := r.lookup(userID)
	if !ok {
		return false
	}

	if err := ch.WriteJSON(event); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"event":   event.Type,
		}).Warn("Failed to push realtime event")
		if r.release(userID, ch) {
			_ = ch.Close()
		}
		return false
	}
	return true
}

// Broadcast sends event to every listed user independently. It returns how many
// deliveries succeeded.
func (r *Registry) Broadcast(userIDs []uint64, event Event) int {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)

	seen := make(map[uint64]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			if r.SendTo(userID, event) {
				mu.Lock()
				delivered++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	return delivered
}

// Count returns the number of live channels.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// IsConnected reports whether userID has a live channel.
func (r *Registry) IsConnected(userID uint64) bool {
	_, ok := r.lookup(userID)
	return ok
}

// CloseAll drops and closes every channel.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	channels := r.channels
	r.channels = make(map[uint64]Channel)
	r.mu.Unlock()

	for _, ch := range channels {
		_ = ch.Close()
	}
	r.log.WithField("connections", len(channels)).Info("Closed all realtime connections")
}
