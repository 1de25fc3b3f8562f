package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
)

var (
	// errURLRequired is returned when the bus URL is missing.
	errURLRequired = errors.New("bus URL must be provided")
	// errSubjectRequired is returned when the subject is missing.
	errSubjectRequired = errors.New("subject must be provided")
)

// Event is the state change payload published to the bus.
type Event struct {
	// Name is the configured display name of the bridged panel.
	Name string `json:"name"`
	// ArmingState is the current arming mode.
	ArmingState string `json:"armingState"`
	// FaultStatus is the current fault condition.
	FaultStatus string `json:"faultStatus"`
	// SirenActive indicates an alarm is currently sounding.
	SirenActive bool `json:"sirenActive"`
	// OpenSensors lists the contact sensors currently open, sorted by id.
	OpenSensors []string `json:"openSensors,omitempty"`
	// FetchedAt is when the snapshot was retrieved from the vendor cloud.
	FetchedAt time.Time `json:"fetchedAt"`
	// PublishedAt is when the event was put on the bus.
	PublishedAt time.Time `json:"publishedAt"`
}

// Publisher pushes panel snapshots to NATS.
type Publisher struct {
	// conn is the underlying bus connection.
	conn *nats.Conn
	// subject is where state changes are published.
	subject string
	// name is the configured panel display name carried in every event.
	name string
}

// NewPublisher connects to the bus and returns a ready publisher.
func NewPublisher(url, subject, name string) (*Publisher, error) {
	if url == "" {
		return nil, errURLRequired
	}

	if subject == "" {
		return nil, errSubjectRequired
	}

	conn, err := nats.Connect(url, nats.Name("sentra-bridge"))
	if err != nil {
		return nil, fmt.Errorf("connect to bus: %w", err)
	}

	return &Publisher{
		conn:    conn,
		subject: subject,
		name:    name,
	}, nil
}

// Publish sends one snapshot to the bus.
// A nil publisher is a no-op so callers need no enabled check.
func (p *Publisher) Publish(state *panel.State) error {
	if p == nil || p.conn == nil || state == nil {
		return nil
	}

	data, err := json.Marshal(eventFromState(p.name, state))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// Close releases the bus connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}

	p.conn.Close()
}

// eventFromState maps a domain snapshot into the bus payload.
func eventFromState(name string, state *panel.State) Event {
	var open []string

	for id, position := range state.ContactSensors {
		if position == panel.SensorStateOpen {
			open = append(open, id)
		}
	}

	sort.Strings(open)

	event := Event{
		Name:        name,
		OpenSensors: open,
		FetchedAt:   state.FetchedAt,
		PublishedAt: time.Now(),
	}

	if state.Alarm != nil {
		event.ArmingState = string(state.Alarm.ArmingState)
		event.FaultStatus = string(state.Alarm.FaultStatus)
		event.SirenActive = state.Alarm.SirenActive
	}

	return event
}
