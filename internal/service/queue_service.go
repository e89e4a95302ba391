package service

import (
	"log/slog"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// QueueService holds the user's FIFO play queue.
// Tracks are appended at the tail and consumed from the head; duplicates are allowed.
//
// The queue is owned by the session loop and is not safe for concurrent use.
type QueueService struct {
	logger *slog.Logger
	bus    ports.EventBus
	tracks []domain.Track
}

// NewQueueService creates an empty queue.
func NewQueueService(logger *slog.Logger, bus ports.EventBus) *QueueService {
	return &QueueService{logger: logger, bus: bus}
}

// Enqueue appends track and returns the new length.
func (q *QueueService) Enqueue(track domain.Track) int {
	q.tracks = append(q.tracks, track)
	q.changed("enqueue")
	return len(q.tracks)
}

// Peek returns the head without removing it.
func (q *QueueService) Peek() (domain.Track, bool) {
	if len(q.tracks) == 0 {
		return domain.Track{}, false
	}
	return q.tracks[0], true
}

// DequeueFront removes and returns the head.
func (q *QueueService) DequeueFront() (domain.Track, bool) {
	head, ok := q.Peek()
	if !ok {
		return domain.Track{}, false
	}
	q.tracks[0] = domain.Track{}
	q.tracks = q.tracks[1:]
	q.changed("dequeue")
	return head, true
}

// RemoveFront drops the head without playing it. Returns false on an empty queue.
func (q *QueueService) RemoveFront() bool {
	_, ok := q.DequeueFront()
	return ok
}

// Clear empties the queue.
func (q *QueueService) Clear() {
	if len(q.tracks) == 0 {
		return
	}
	q.tracks = nil
	q.changed("clear")
}

// Len returns the number of queued tracks.
func (q *QueueService) Len() int {
	return len(q.tracks)
}

// Tracks returns a copy of the queue, head first.
func (q *QueueService) Tracks() []domain.Track {
	out := make([]domain.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

func (q *QueueService) changed(op string) {
	q.logger.Debug("queue changed", slog.String("op", op), slog.Int("length", len(q.tracks)))
	q.bus.Publish(domain.NewQueueChangedEvent(len(q.tracks)))
}
