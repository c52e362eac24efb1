package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rally-club/email-parser/internal/llm"
	"github.com/rally-club/email-parser/internal/queue"
)

// MockExtractor returns a canned model reply and counts calls.
type MockExtractor struct {
	calls   int
	subject string
	body    string
	reply   string
	err     error
}

func (m *MockExtractor) ExtractReservation(ctx context.Context, subject, body string) (string, error) {
	m.calls++
	m.subject = subject
	m.body = body
	return m.reply, m.err
}

// MockPublisher records published events.
type MockPublisher struct {
	events []queue.ReservationParsedEvent
	err    error
}

func (m *MockPublisher) PublishReservationParsed(ctx context.Context, ev queue.ReservationParsedEvent) error {
	m.events = append(m.events, ev)
	return m.err
}

const fullReply = `{"is_reservation": true, "date": "2024-12-23", "court": "North", "organizer": "John Smith", "players": ["John Smith","Jane Doe"]}`

func TestEmailParser_Parse(t *testing.T) {
	tests := []struct {
		name          string
		req           ParseRequest
		reply         string
		wantCalls     int
		wantRes       bool
		wantErrPrefix string
	}{
		{
			name:      "pre-filter rejects without model call",
			req:       ParseRequest{Subject: "Pickleball", Body: "Hey, want to play pickleball sometime?"},
			reply:     fullReply,
			wantCalls: 0,
		},
		{
			name:      "reservation",
			req:       ParseRequest{Subject: "Rally Club Reservation", Body: "John Smith's Reservation"},
			reply:     fullReply,
			wantCalls: 1,
			wantRes:   true,
		},
		{
			name:      "model says not a reservation",
			req:       ParseRequest{Subject: "Rally Club newsletter", Body: "Holiday hours"},
			reply:     `{"is_reservation": false}`,
			wantCalls: 1,
		},
		{
			name:          "model reply is not json",
			req:           ParseRequest{Subject: "Test", Body: "Rally Club"},
			reply:         "not valid json",
			wantCalls:     1,
			wantErrPrefix: "Failed to parse AI response: ",
		},
		{
			name:          "model reply misses is_reservation",
			req:           ParseRequest{Subject: "Rally Club", Body: "x"},
			reply:         `{"date": "2024-12-23"}`,
			wantCalls:     1,
			wantErrPrefix: "Failed to parse AI response: reservation.is_reservation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &MockExtractor{reply: tt.reply}
			p := NewEmailParser(ex, nil)

			res, err := p.Parse(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if ex.calls != tt.wantCalls {
				t.Errorf("extractor calls = %d, want %d", ex.calls, tt.wantCalls)
			}
			if res.IsReservation != tt.wantRes {
				t.Errorf("IsReservation = %v, want %v", res.IsReservation, tt.wantRes)
			}
			switch {
			case tt.wantErrPrefix == "" && res.Error != nil:
				t.Errorf("Error = %q, want none", *res.Error)
			case tt.wantErrPrefix != "" && (res.Error == nil || !strings.HasPrefix(*res.Error, tt.wantErrPrefix)):
				t.Errorf("Error = %v, want prefix %q", res.Error, tt.wantErrPrefix)
			}
		})
	}
}

func TestEmailParser_ForwardsEmail(t *testing.T) {
	ex := &MockExtractor{reply: fullReply}
	p := NewEmailParser(ex, nil)

	_, err := p.Parse(context.Background(), ParseRequest{Subject: "Rally Club Reservation", Body: "body text"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if ex.subject != "Rally Club Reservation" || ex.body != "body text" {
		t.Errorf("extractor got subject=%q body=%q", ex.subject, ex.body)
	}
}

func TestEmailParser_UpstreamError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "plain error is wrapped", err: errors.New("API error")},
		{name: "upstream error passes through", err: &llm.UpstreamError{Err: errors.New("API error")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewEmailParser(&MockExtractor{err: tt.err}, nil)
			_, err := p.Parse(context.Background(), ParseRequest{Subject: "Rally Club", Body: "x"})
			var ue *llm.UpstreamError
			if !errors.As(err, &ue) {
				t.Fatalf("Parse() error = %v, want *llm.UpstreamError", err)
			}
			if err.Error() != "API error" {
				t.Errorf("error = %q, want %q", err.Error(), "API error")
			}
		})
	}
}

func TestEmailParser_PublishesReservations(t *testing.T) {
	pub := &MockPublisher{}
	p := NewEmailParser(&MockExtractor{reply: fullReply}, pub)
	p.Now = func() time.Time { return time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC) }

	_, err := p.Parse(context.Background(), ParseRequest{Subject: "Rally Club Reservation", Body: "x", RequestID: "req-42"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Organizer != "John Smith" || ev.RequestID != "req-42" || ev.ParsedAt != "2024-12-20T12:00:00Z" {
		t.Errorf("event = %+v", ev)
	}
	if len(ev.Players) != 2 || ev.Players[0] != "John Smith" || ev.Players[1] != "Jane Doe" {
		t.Errorf("Players = %v", ev.Players)
	}
}

func TestEmailParser_PublishSkippedAndFailures(t *testing.T) {
	tests := []struct {
		name       string
		subject    string
		reply      string
		pubErr     error
		wantEvents int
		wantRes    bool
	}{
		{name: "not a reservation", subject: "Rally Club", reply: `{"is_reservation": false}`, wantEvents: 0},
		{name: "unparseable reply", subject: "Rally Club", reply: "nope", wantEvents: 0},
		{name: "pre-filter rejected", subject: "Hello", reply: fullReply, wantEvents: 0},
		{name: "broker down does not fail parse", subject: "Rally Club", reply: fullReply, pubErr: errors.New("dial tcp: refused"), wantEvents: 1, wantRes: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &MockPublisher{err: tt.pubErr}
			p := NewEmailParser(&MockExtractor{reply: tt.reply}, pub)
			res, err := p.Parse(context.Background(), ParseRequest{Subject: tt.subject, Body: "x"})
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(pub.events) != tt.wantEvents {
				t.Errorf("published %d events, want %d", len(pub.events), tt.wantEvents)
			}
			if res.IsReservation != tt.wantRes {
				t.Errorf("IsReservation = %v, want %v", res.IsReservation, tt.wantRes)
			}
		})
	}
}
