package service

import "testing"

func TestLooksLikeReservation(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    bool
	}{
		{name: "marker in subject", subject: "Rally Club Reservation", body: "see you there", want: true},
		{name: "marker in body", subject: "Fwd: court", body: "Your Rally Club booking is confirmed", want: true},
		{name: "marker in both", subject: "Rally Club", body: "Rally Club", want: true},
		{name: "neither", subject: "Pickleball", body: "Hey, want to play pickleball sometime?", want: false},
		{name: "lower case is not the marker", subject: "rally club", body: "RALLY CLUB", want: false},
		{name: "split across fields", subject: "Rally", body: "Club", want: false},
		{name: "empty", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeReservation(tt.subject, tt.body); got != tt.want {
				t.Errorf("LooksLikeReservation(%q, %q) = %v, want %v", tt.subject, tt.body, got, tt.want)
			}
		})
	}
}
