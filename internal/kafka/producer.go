package kafka

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/segmentio/kafka-go"
)

// AppointmentEventProducer — interface so handlers can be tested with a mock.
type AppointmentEventProducer interface {
	ProduceAppointmentEvent(ctx context.Context, event string, appt *model.Appointment)
}

// Producer writes appointment events to a Kafka topic (best-effort, never
// blocks the API). Events: cita.created, cita.status_changed, cita.confirmed.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates the producer. With no brokers or topic the methods
// are no-ops.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *Producer) ProduceAppointmentEvent(ctx context.Context, event string, appt *model.Appointment) {
	if p.writer == nil || appt == nil {
		return
	}
	msg := map[string]interface{}{
		"event":                 event,
		"appointment_id":        appt.ID,
		"tenant_id":             appt.TenantID,
		"scheduled_at":          appt.ScheduledAt,
		"status":                string(appt.Status),
		"requires_confirmation": appt.RequiresConfirmation,
	}
	if appt.CarrierID != nil {
		msg["carrier_id"] = *appt.CarrierID
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("kafka: marshal appointment event: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("kafka: write appointment event: %v", err)
	}
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers splits "host1:9092,host2:9092" into a slice.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
