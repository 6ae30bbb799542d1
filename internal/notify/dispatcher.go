// Package notify sends order-status emails. Sends are queued and handled by
// a worker goroutine: a failed or dropped notification never reaches back
// into the order mutation that triggered it.
package notify

import (
	"log"

	"github.com/google/uuid"
)

// Mailer is the outbound transport. SMTPMailer is the production
// implementation.
type Mailer interface {
	Send(to, subject, html string) error
}

// OrderEmail is everything the status template embeds.
type OrderEmail struct {
	To            string
	Name          string
	OrderID       string
	Status        string
	Quantity      int
	PaymentMethod string
	Amount        float64
	OrderDate     string
}

type job struct {
	id      string
	subject string
	email   OrderEmail
}

type Dispatcher struct {
	mailer Mailer
	queue  chan job
	done   chan struct{}
}

// NewDispatcher starts the worker. size bounds the queue; when it is full
// new notifications are dropped with a log line rather than blocking the
// request that produced them.
func NewDispatcher(m Mailer, size int) *Dispatcher {
	d := &Dispatcher{
		mailer: m,
		queue:  make(chan job, size),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch enqueues a notification. Fire-and-forget: it never blocks and
// never reports an error.
func (d *Dispatcher) Dispatch(subject string, e OrderEmail) {
	j := job{id: uuid.NewString(), subject: subject, email: e}
	select {
	case d.queue <- j:
	default:
		log.Printf("⚠️ Notification queue full, dropping job %s (order %s)", j.id, e.OrderID)
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) run() {
	for j := range d.queue {
		if err := d.mailer.Send(j.email.To, j.subject, OrderStatusHTML(j.email)); err != nil {
			log.Printf("❌ Email job %s failed (order %s): %v", j.id, j.email.OrderID, err)
			continue
		}
		log.Printf("📧 Email job %s sent to %s (order %s)", j.id, j.email.To, j.email.OrderID)
	}
	close(d.done)
}
