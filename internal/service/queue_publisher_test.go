package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rally-club/email-parser/internal/config"
	"github.com/rally-club/email-parser/internal/model"
	"github.com/rally-club/email-parser/internal/queue"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan struct{})
	go func() {
		var conns []net.Conn
		defer func() {
			for _, c := range conns {
				_ = c.Close()
			}
		}()
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, c)
			select {
			case <-done:
				return
			default:
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		_ = ln.Close()
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

// closedPort returns an address nothing listens on.
func closedPort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return "amqp://guest:guest@" + addr + "/"
}

func testEvent() queue.ReservationParsedEvent {
	court := "North"
	res := model.ReservationResult{IsReservation: true, Court: &court}
	return queue.NewReservationParsedEvent(res, "Rally Club Reservation", "req-1", time.Now())
}

func TestAMQPPublisher_UnreachableBroker(t *testing.T) {
	tests := []struct {
		name string
		url  func(t *testing.T) string
	}{
		{name: "broker never answers handshake", url: silentBroker},
		{name: "connection refused", url: closedPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewAMQPPublisher(config.QueueConfig{
				Enabled:        true,
				URL:            tt.url(t),
				Name:           "reservations.parsed",
				PublishTimeout: 200 * time.Millisecond,
			})

			start := time.Now()
			err := p.PublishReservationParsed(context.Background(), testEvent())
			elapsed := time.Since(start)

			if err == nil {
				t.Fatal("PublishReservationParsed() error = nil, want dial failure")
			}
			if elapsed > 2*time.Second {
				t.Errorf("publish took %v, want it bounded by the 200ms timeout", elapsed)
			}
		})
	}
}

func TestAMQPPublisher_CancelledContext(t *testing.T) {
	p := NewAMQPPublisher(config.QueueConfig{URL: silentBroker(t), Name: "q", PublishTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := p.PublishReservationParsed(ctx, testEvent()); err == nil {
		t.Fatal("PublishReservationParsed() error = nil, want context error")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("publish took %v on a cancelled context", elapsed)
	}
}

func TestEmailParser_Parse_BrokerDown(t *testing.T) {
	pub := NewAMQPPublisher(config.QueueConfig{
		Enabled:        true,
		URL:            silentBroker(t),
		Name:           "reservations.parsed",
		PublishTimeout: 200 * time.Millisecond,
	})
	ex := &MockExtractor{reply: fullReply}
	p := NewEmailParser(ex, pub)

	start := time.Now()
	res, err := p.Parse(context.Background(), ParseRequest{
		Subject:   "Rally Club Reservation",
		Body:      "John Smith's Reservation",
		RequestID: "req-9",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !res.IsReservation || res.Court == nil || *res.Court != "North" {
		t.Errorf("result = %+v, want the parsed reservation", res)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Parse() took %v with the broker down", elapsed)
	}
}
