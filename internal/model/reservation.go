package model

import (
	"encoding/json"
	"fmt"
)

// ReservationResult is the structured answer for one parsed email.  Optional
// fields are nil when the model did not provide them; a nil field is omitted
// from the JSON output, which keeps "absent" distinct from "".
//
// Fields:
//  IsReservation – whether the email is a court reservation confirmation.
//  Date          – reservation date, YYYY-MM-DD.
//  StartTime     – free-form start time, e.g. "5:30pm".
//  EndTime       – free-form end time, e.g. "7:00pm".
//  Court         – court name or comma-joined names, e.g. "North, South".
//  Organizer     – owner of the reservation.
//  Players       – player names in the order the model emitted them.
//  Error         – diagnostic, only set on fallback paths.
type ReservationResult struct {
	IsReservation bool     `json:"is_reservation"`
	Date          *string  `json:"date,omitzero"`
	StartTime     *string  `json:"start_time,omitzero"`
	EndTime       *string  `json:"end_time,omitzero"`
	Court         *string  `json:"court,omitzero"`
	Organizer     *string  `json:"organizer,omitzero"`
	Players       []string `json:"players,omitzero"`
	Error         *string  `json:"error,omitzero"`

	fallback bool
}

// IsFallback reports whether r was built by Unparseable rather than decoded
// from a model reply.  An "error" key sent by the model does not count.
func (r ReservationResult) IsFallback() bool { return r.fallback }

// NotReservation is the short-circuit answer used when an email is skipped.
func NotReservation() ReservationResult {
	return ReservationResult{IsReservation: false}
}

// Unparseable builds the fallback answer for a model reply that could not be
// turned into a ReservationResult.
func Unparseable(cause error) ReservationResult {
	msg := "Failed to parse AI response: " + cause.Error()
	return ReservationResult{IsReservation: false, Error: &msg, fallback: true}
}

// ShapeError reports a JSON value that does not match the reservation schema.
type ShapeError struct {
	Field  string // empty when the top-level value is at fault
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Field == "" {
		return "reservation: " + e.Reason
	}
	return fmt.Sprintf("reservation.%s: %s", e.Field, e.Reason)
}

// ParseReservation decodes raw model output and validates it.  A JSON syntax
// failure is returned as-is; a schema failure is a *ShapeError.
func ParseReservation(raw string) (ReservationResult, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return ReservationResult{}, err
	}
	return ValidateReservation(v)
}

// ValidateReservation checks an already decoded JSON value (as produced by
// encoding/json into an any) against the reservation schema.  Unknown keys are
// ignored and JSON null counts as an absent optional field.
func ValidateReservation(v any) (ReservationResult, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return ReservationResult{}, &ShapeError{Reason: fmt.Sprintf("expected object, got %s", jsonType(v))}
	}

	raw, ok := obj["is_reservation"]
	if !ok {
		return ReservationResult{}, &ShapeError{Field: "is_reservation", Reason: "field required"}
	}
	isRes, ok := raw.(bool)
	if !ok {
		return ReservationResult{}, &ShapeError{Field: "is_reservation", Reason: fmt.Sprintf("expected boolean, got %s", jsonType(raw))}
	}

	out := ReservationResult{IsReservation: isRes}
	strFields := []struct {
		key string
		dst **string
	}{
		{"date", &out.Date},
		{"start_time", &out.StartTime},
		{"end_time", &out.EndTime},
		{"court", &out.Court},
		{"organizer", &out.Organizer},
		{"error", &out.Error},
	}
	for _, f := range strFields {
		s, err := optionalString(obj, f.key)
		if err != nil {
			return ReservationResult{}, err
		}
		*f.dst = s
	}

	players, err := optionalStrings(obj, "players")
	if err != nil {
		return ReservationResult{}, err
	}
	out.Players = players
	return out, nil
}

func optionalString(obj map[string]any, key string) (*string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &ShapeError{Field: key, Reason: fmt.Sprintf("expected string, got %s", jsonType(v))}
	}
	return &s, nil
}

func optionalStrings(obj map[string]any, key string) ([]string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &ShapeError{Field: key, Reason: fmt.Sprintf("expected array of strings, got %s", jsonType(v))}
	}
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, &ShapeError{Field: fmt.Sprintf("%s[%d]", key, i), Reason: fmt.Sprintf("expected string, got %s", jsonType(item))}
		}
		out = append(out, s)
	}
	return out, nil
}

// jsonType names the JSON kind of a value decoded by encoding/json.
func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
