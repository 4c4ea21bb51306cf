// Package notify delivers best-effort absence notices. Publishing happens on
// the request path and must never fail a mark; delivery happens in the
// worker.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"classtrack/internal/queue"
)

// MessageType tags absence notices on the queue.
const MessageType = "absence"

// QueueName is the redis list the notices travel on.
const QueueName = "classtrack:notices"

// Absence is the queue payload for one Absent mark.
type Absence struct {
	Student string    `json:"student"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
}

// Publisher puts absence notices on the queue.
type Publisher struct {
	q queue.Queue
}

// NewPublisher creates a publisher.
func NewPublisher(q queue.Queue) *Publisher {
	return &Publisher{q: q}
}

// NotifyAbsence enqueues a notice for later delivery.
func (p *Publisher) NotifyAbsence(ctx context.Context, student, subject string, day time.Time) error {
	body, err := json.Marshal(Absence{Student: student, Subject: subject, Date: day})
	if err != nil {
		return err
	}
	return p.q.Publish(ctx, queue.Message{Type: MessageType, Body: body})
}

// Sender delivers one notice to its recipient.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// ConsoleSender logs notices instead of sending them; the dev-mode sink.
type ConsoleSender struct{}

// Send writes the notice to the process log.
func (ConsoleSender) Send(_ context.Context, phone, text string) error {
	log.Printf("notice to %s: %s", phone, text)
	return nil
}

// PhoneLookup resolves a student's contact number; empty means no contact on
// file.
type PhoneLookup interface {
	StudentPhone(ctx context.Context, username string) (string, error)
}

// Deliver formats and sends one absence notice. Errors are returned for the
// worker to log; nothing retries.
func Deliver(ctx context.Context, msg queue.Message, phones PhoneLookup, sender Sender) error {
	var a Absence
	if err := json.Unmarshal(msg.Body, &a); err != nil {
		return fmt.Errorf("decode absence notice: %w", err)
	}
	phone, err := phones.StudentPhone(ctx, a.Student)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", a.Student, err)
	}
	if phone == "" {
		log.Printf("no contact on file for %s, dropping notice", a.Student)
		return nil
	}
	text := fmt.Sprintf("%s was marked absent in %s on %s", a.Student, a.Subject, a.Date.Format("2006-01-02"))
	return sender.Send(ctx, phone, text)
}
