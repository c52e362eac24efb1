package service

import "strings"

// ReservationMarker must appear in every genuine confirmation email.
const ReservationMarker = "Rally Club"

// LooksLikeReservation is a cheap gate in front of the model.  It is
// conservative: it may pass unrelated mail that mentions the marker, but it
// never rejects a confirmation that carries it.  Matching is case-sensitive.
func LooksLikeReservation(subject, body string) bool {
	return strings.Contains(subject, ReservationMarker) || strings.Contains(body, ReservationMarker)
}
