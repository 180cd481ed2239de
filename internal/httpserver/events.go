package httpserver

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/logging"
	"github.com/jpcardenas/tienda/internal/mykafka"
)

const (
	topicUserEvents  = "user_events"
	topicCartEvents  = "cart_events"
	topicOrderEvents = "order_events"
)

// publish sends a domain event best-effort after the database work committed.
// A nil producer (tests, dev without kafka) and publish failures only log;
// they never fail the request.
func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
