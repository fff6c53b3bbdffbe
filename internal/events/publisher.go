package events

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/models"
)

// Publisher wraps the go-shared events publisher for catalog events
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewPublisher creates a new catalog events publisher
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "brickstore-service"

	publisher, err := events.NewPublisher(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create events publisher: %w", err)
	}

	// Ensure the products stream exists
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.EnsureStream(ctx, events.StreamProducts, []string{"product.>", "order.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure products stream (may already exist)")
	}

	return &Publisher{
		publisher: publisher,
		logger:    logger.WithField("component", "brickstore-events"),
	}, nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.publisher != nil {
		p.publisher.Close()
	}
}

// PublishProductEvent publishes a catalog event. product may be nil for
// order-level events that carry no product payload.
func (p *Publisher) PublishProductEvent(ctx context.Context, eventType string, product *models.Product) {
	event := events.NewProductEvent(eventType, "brickstore")
	event.SourceID = uuid.New().String()
	if product != nil {
		event.ProductID = product.ID.String()
		event.ProductName = product.Name
		event.Price = product.Price
		event.CategoryID = product.CategoryID.String()
		if product.IsActive {
			event.Status = "ACTIVE"
		} else {
			event.Status = "INACTIVE"
		}
	}
	p.publish(event)
}

// publish sends events asynchronously so broker hiccups never block a request
func (p *Publisher) publish(event *events.ProductEvent) {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.publisher.PublishProduct(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"productID": event.ProductID,
			}).WithError(err).Error("Failed to publish event")
		} else {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"productID": event.ProductID,
			}).Info("Event published")
		}
	}()
}
