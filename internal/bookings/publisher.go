package bookings

import (
	"encoding/json"

	"voice-of-rajkot/internal/config"
	"voice-of-rajkot/internal/kafka"
	"voice-of-rajkot/internal/models"
)

// Publisher streams booking lifecycle events to Kafka.
type Publisher struct {
	Producer *kafka.Producer
	Topics   config.TopicConfig
}

// NewPublisher wraps a producer. A nil producer turns every publish
// into a no-op, which lets the service run without a broker.
func NewPublisher(producer *kafka.Producer, topics config.TopicConfig) *Publisher {
	return &Publisher{Producer: producer, Topics: topics}
}

func (p *Publisher) publish(topic string, key string, payload interface{}) error {
	if p.Producer == nil {
		return nil
	}
	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Producer.Publish(topic, key, msgBytes)
}

func (p *Publisher) PublishBookingCreated(booking models.EventBooking) error {
	return p.publish(p.Topics.BookingCreated, booking.ID, booking)
}

func (p *Publisher) PublishBookingCancelled(booking models.EventBooking) error {
	return p.publish(p.Topics.BookingCancelled, booking.ID, booking)
}

func (p *Publisher) PublishPaymentStatus(booking models.EventBooking) error {
	return p.publish(p.Topics.PaymentStatus, booking.ID, booking)
}
