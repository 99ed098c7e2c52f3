package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"vibetracker/internal/domain"
	"vibetracker/internal/metrics"
)

// ErrClosed is returned when scheduling on a closed Notifier.
var ErrClosed = errors.New("notifier closed")

// Sink receives delivered notifications.
type Sink interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

type Config struct {
	Clock clockwork.Clock
	// DeliverTimeout bounds sink delivery for deferred jobs, which have no
	// caller context of their own.
	DeliverTimeout time.Duration
	Metrics        *metrics.Metrics
}

// Notifier delivers notifications right away or after a delay. Deferred
// notifications are Jobs that can be cancelled until they fire.
type Notifier struct {
	clock          clockwork.Clock
	sinks          []Sink
	deliverTimeout time.Duration
	metrics        *metrics.Metrics
	logger         *slog.Logger

	mu     sync.Mutex
	jobs   map[uint64]*Job
	nextID uint64
	closed bool
}

func New(cfg Config, logger *slog.Logger, sinks ...Sink) *Notifier {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.DeliverTimeout == 0 {
		cfg.DeliverTimeout = 10 * time.Second
	}

	return &Notifier{
		clock:          cfg.Clock,
		sinks:          sinks,
		deliverTimeout: cfg.DeliverTimeout,
		metrics:        cfg.Metrics,
		logger:         logger.With("component", "notifier"),
		jobs:           make(map[uint64]*Job),
	}
}

// Notify delivers n to every sink. Sink failures are joined; a failing sink
// does not stop delivery to the others.
func (n *Notifier) Notify(ctx context.Context, msg domain.Notification) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = n.clock.Now()
	}
	if msg.Variant == "" {
		msg.Variant = domain.VariantDefault
	}

	var errs []error
	for _, sink := range n.sinks {
		if err := sink.Deliver(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("deliver %s: %w", msg.Kind, err))
		}
	}

	n.metrics.IncNotification(string(msg.Kind))

	return errors.Join(errs...)
}

// NotifyAfter schedules msg for delivery after delay. key groups jobs for
// CancelKey; it may be empty.
func (n *Notifier) NotifyAfter(delay time.Duration, key string, msg domain.Notification) (*Job, error) {
	return n.Schedule(delay, key, msg, nil)
}

// Schedule is NotifyAfter with a hook that runs exactly once when the job
// settles: on fire, before the notification is delivered, or on cancel.
// A closed Notifier returns ErrClosed and never runs the hook.
func (n *Notifier) Schedule(delay time.Duration, key string, msg domain.Notification, onDone func()) (*Job, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, ErrClosed
	}

	n.nextID++
	job := &Job{
		id:           n.nextID,
		key:          key,
		notification: msg,
		onDone:       onDone,
		notifier:     n,
	}

	n.jobs[job.id] = job
	job.timer = n.clock.AfterFunc(delay, func() { n.fire(job) })
	n.metrics.IncJob("scheduled")

	n.logger.Debug("scheduled notification",
		"kind", msg.Kind,
		"key", key,
		"delay", delay,
	)

	return job, nil
}

// CancelKey cancels every pending job scheduled under key and returns how
// many were cancelled.
func (n *Notifier) CancelKey(key string) int {
	n.mu.Lock()
	var matched []*Job
	for _, job := range n.jobs {
		if job.key == key {
			matched = append(matched, job)
		}
	}
	n.mu.Unlock()

	cancelled := 0
	for _, job := range matched {
		if job.Cancel() {
			cancelled++
		}
	}
	return cancelled
}

// Pending returns the number of jobs that have neither fired nor been cancelled.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.jobs)
}

// Close cancels all pending jobs, running their hooks. Scheduling afterwards
// fails with ErrClosed.
func (n *Notifier) Close() {
	n.mu.Lock()
	n.closed = true
	jobs := make([]*Job, 0, len(n.jobs))
	for _, job := range n.jobs {
		jobs = append(jobs, job)
	}
	n.mu.Unlock()

	for _, job := range jobs {
		job.Cancel()
	}
}

func (n *Notifier) fire(job *Job) {
	if !n.claim(job) {
		return
	}
	n.metrics.IncJob("fired")

	job.done()

	ctx, cancel := context.WithTimeout(context.Background(), n.deliverTimeout)
	defer cancel()

	if err := n.Notify(ctx, job.notification); err != nil {
		n.logger.Error("deferred notification failed",
			"kind", job.notification.Kind,
			"key", job.key,
			"error", err,
		)
	}
}

// claim removes job from the pending set. Exactly one of fire and Cancel
// wins the claim.
func (n *Notifier) claim(job *Job) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.jobs[job.id]; !ok {
		return false
	}
	delete(n.jobs, job.id)
	return true
}

// Job is a one-shot deferred notification.
type Job struct {
	id           uint64
	key          string
	notification domain.Notification
	onDone       func()
	timer        clockwork.Timer
	notifier     *Notifier
}

func (j *Job) Key() string {
	return j.key
}

// Notification returns the content captured when the job was scheduled.
func (j *Job) Notification() domain.Notification {
	return j.notification
}

// Cancel stops the job. It reports false if the job already fired or was
// cancelled.
func (j *Job) Cancel() bool {
	if j == nil || !j.notifier.claim(j) {
		return false
	}
	if j.timer != nil {
		j.timer.Stop()
	}
	j.notifier.metrics.IncJob("cancelled")
	j.done()
	return true
}

func (j *Job) done() {
	if j.onDone != nil {
		j.onDone()
	}
}
