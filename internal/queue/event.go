// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/rally-club/email-parser/internal/model"
)

// ReservationParsedEvent is published when an email was recognised as a
// court reservation.  It carries the extracted fields so downstream consumers
// (calendar sync, notifications) never need to call the model again.
type ReservationParsedEvent struct {
    EventID      string   `json:"event_id"`
    RequestID    string   `json:"request_id,omitempty"`
    EmailSubject string   `json:"email_subject"`
    Date         string   `json:"date,omitempty"`
    StartTime    string   `json:"start_time,omitempty"`
    EndTime      string   `json:"end_time,omitempty"`
    Court        string   `json:"court,omitempty"`
    Organizer    string   `json:"organizer,omitempty"`
    Players      []string `json:"players"`
    ParsedAt     string   `json:"parsed_at"`
}

// NewReservationParsedEvent copies a validated reservation into an event with
// a fresh event id.  Absent optional fields become empty strings.
func NewReservationParsedEvent(res model.ReservationResult, subject, requestID string, now time.Time) ReservationParsedEvent {
    players := res.Players
    if players == nil {
        players = []string{}
    }
    return ReservationParsedEvent{
        EventID:      uuid.NewString(),
        RequestID:    requestID,
        EmailSubject: subject,
        Date:         deref(res.Date),
        StartTime:    deref(res.StartTime),
        EndTime:      deref(res.EndTime),
        Court:        deref(res.Court),
        Organizer:    deref(res.Organizer),
        Players:      players,
        ParsedAt:     now.UTC().Format(time.RFC3339),
    }
}

func deref(s *string) string {
    if s == nil {
        return ""
    }
    return *s
}
