package database

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// ConnectNATS establishes the activity bus connection. As with Redis, a nil
// connection downstream means publishing is disabled, not broken.
func ConnectNATS(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name("gradebook-api"))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
