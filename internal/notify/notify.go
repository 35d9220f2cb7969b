package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Kind string

const (
	KindPlaySound          Kind = "play-sound"
	KindBellHistoryUpdated Kind = "bell-history-updated"
	KindDataUpdated        Kind = "data-updated"
)

// Domain names the data set a data-updated event refers to.
type Domain string

const (
	DomainEmployees     Domain = "employees"
	DomainPunchRecords  Domain = "punchRecords"
	DomainAutomationLog Domain = "automationLog"
)

type Event struct {
	Kind Kind

	// play-sound
	Sound    string
	Duration int
	Title    string

	// data-updated
	Domain Domain
}

func PlaySound(title, sound string, duration int) Event {
	return Event{Kind: KindPlaySound, Title: title, Sound: sound, Duration: duration}
}

func BellHistoryUpdated() Event {
	return Event{Kind: KindBellHistoryUpdated}
}

func DataUpdated(domain Domain) Event {
	return Event{Kind: KindDataUpdated, Domain: domain}
}

// Notifier carries events from the core to whatever UI is attached.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Channel is a Notifier backed by a buffered channel that the UI drains.
// Notify blocks while the buffer is full so no event is lost; it gives up
// only when ctx is done.
type Channel struct {
	ch chan Event
}

func NewChannel(buffer int) *Channel {
	return &Channel{ch: make(chan Event, buffer)}
}

func (c *Channel) Notify(ctx context.Context, ev Event) {
	select {
	case c.ch <- ev:
	case <-ctx.Done():
	}
}

func (c *Channel) Events() <-chan Event {
	return c.ch
}

// Log writes events to the process log. Used when no UI is attached.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(_ context.Context, ev Event) {
	fields := []zap.Field{zap.String("kind", string(ev.Kind))}
	switch ev.Kind {
	case KindPlaySound:
		fields = append(fields, zap.String("title", ev.Title), zap.String("sound", ev.Sound), zap.Int("duration", ev.Duration))
	case KindDataUpdated:
		fields = append(fields, zap.String("domain", string(ev.Domain)))
	}
	l.logger.Info("notification", fields...)
}

// Recorder keeps every event in memory. Handy for tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Notify(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
}

func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
