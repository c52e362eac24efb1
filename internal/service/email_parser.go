package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/rally-club/email-parser/internal/llm"
	"github.com/rally-club/email-parser/internal/model"
	"github.com/rally-club/email-parser/internal/queue"
)

// ReservationExtractor returns the model's raw reply for one email.
type ReservationExtractor interface {
	ExtractReservation(ctx context.Context, subject, body string) (string, error)
}

// EventPublisher receives every email recognised as a reservation.
type EventPublisher interface {
	PublishReservationParsed(ctx context.Context, ev queue.ReservationParsedEvent) error
}

// ParseRequest is one email as received by the HTTP layer.
type ParseRequest struct {
	Subject   string
	Body      string
	RequestID string
}

// EmailParser runs pre-filter, model call and reply validation for one email.
// It holds no per-request state and is safe for concurrent use.
type EmailParser struct {
	Extractor ReservationExtractor
	Publisher EventPublisher // nil disables publishing
	Now       func() time.Time
}

func NewEmailParser(ex ReservationExtractor, pub EventPublisher) *EmailParser {
	if ex == nil {
		panic("nil extractor passed to NewEmailParser")
	}
	return &EmailParser{Extractor: ex, Publisher: pub, Now: time.Now}
}

// Parse returns the reservation found in req.  Mail without the marker is
// answered without calling the model.  A model reply that is not valid JSON or
// does not match the schema yields a non-reservation carrying an Error, not a
// Go error: only provider failures are returned, always as *llm.UpstreamError.
func (p *EmailParser) Parse(ctx context.Context, req ParseRequest) (model.ReservationResult, error) {
	if !LooksLikeReservation(req.Subject, req.Body) {
		return model.NotReservation(), nil
	}

	raw, err := p.Extractor.ExtractReservation(ctx, req.Subject, req.Body)
	if err != nil {
		var ue *llm.UpstreamError
		if !errors.As(err, &ue) {
			ue = &llm.UpstreamError{Err: err}
		}
		return model.ReservationResult{}, ue
	}

	res, err := model.ParseReservation(raw)
	if err != nil {
		return model.Unparseable(err), nil
	}

	if res.IsReservation && p.Publisher != nil {
		ev := queue.NewReservationParsedEvent(res, req.Subject, req.RequestID, p.now())
		// detached from the request so a client hang-up does not drop the event
		if err := p.Publisher.PublishReservationParsed(context.WithoutCancel(ctx), ev); err != nil {
			log.Printf("email-parser: publish reservation event %s failed: %v", ev.EventID, err)
		}
	}
	return res, nil
}

func (p *EmailParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
