package redisclient

import (
	"context"
	"testing"
	"time"
)

func TestPingFailsWithoutServer(t *testing.T) {
	c, err := New(Config{Addr: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping against a closed port to fail")
	}
	if c.Raw() == nil {
		t.Fatalf("Raw must expose the underlying client")
	}
}
