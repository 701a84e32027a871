package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Husnain-278/EventHub/internal/model"
)

// DefaultQueue is the durable queue booking notifications travel on.
const DefaultQueue = "booking.notifications"

// Consumer reads BookingEvents from a queue and appends one
// confirmation line per event to LogPath.
type Consumer struct {
	URL     string
	Queue   string
	LogPath string
	Logger  *log.Logger
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes
// until ctx is cancelled.  Lost connections are retried with
// exponential backoff capped at 30s.  Messages that cannot be handled
// are rejected without requeue so a bad payload cannot spin the loop.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Logger.Warnj(log.JSON{"msg": "booking-consumer: dial failed", "error": err.Error(), "retry_in": backoff.String()})
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.loopEnded(err)
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Logger.Warnj(log.JSON{"msg": "booking-consumer: set QoS failed", "error": err.Error()})
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.Logger.Errorj(log.JSON{"msg": "booking-consumer: handle message failed", "error": err.Error(), "message_id": d.MessageId})
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == 0 {
		return errors.New("event without booking id")
	}
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as the single confirmation line written by the
// consumer, newline included.
func FormatLine(ev BookingEvent) string {
	what := "Booking received"
	if ev.Kind == string(model.EventStatusChanged) {
		what = "Booking status changed"
	}
	return fmt.Sprintf("[%s] %s | booking_id=%d | to=%q <%s> | venue=%q | event=%q | when=%s %s | guests=%d | chairs=%s | food=%s | event_cost=%s | total=%s | status=%s | menu=[%s]\n",
		ev.OccurredAt, what, ev.BookingID, ev.CustomerName, ev.CustomerEmail, ev.VenueName, ev.EventTypeName,
		ev.EventDate, ev.EventTime, ev.GuestsCount, ev.ChairsCost, ev.FoodCost, ev.EventCost, ev.TotalCost,
		ev.Status, strings.Join(ev.MenuItems, ","))
}

// loopEnded logs a consume loop that returned while ctx is still live.
// err may be nil.
func (c *Consumer) loopEnded(err error) {
	c.Logger.Warnj(log.JSON{"msg": "booking-consumer: consume loop ended, reconnecting", "error": fmt.Sprint(err)})
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
