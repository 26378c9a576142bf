package publisher

import (
	"encoding/json"
	"log"
	"strings"

	"route-diary/internal/trips"

	"github.com/nats-io/nats.go"
)

// NATSPublisher pushes detected-trip events onto a NATS subject per user,
// for downstream consumers (analytics, notifications). A nil publisher is
// valid and publishes nothing, so the server runs fine without NATS.
type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	if url == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url,
		nats.Name("route-diary"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats reconnected")
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	_ = p.nc.Drain()
	p.nc.Close()
}

// PublishTrip emits one detected trip under trips.detected.<user>.
func (p *NATSPublisher) PublishTrip(userID string, trip trips.DetectedTrip) {
	if p == nil || p.nc == nil {
		return
	}
	b, err := json.Marshal(trip)
	if err != nil {
		return
	}
	subject := "trips.detected." + subjectToken(userID)
	if err := p.nc.Publish(subject, b); err != nil {
		log.Printf("nats publish %s: %v", subject, err)
	}
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
