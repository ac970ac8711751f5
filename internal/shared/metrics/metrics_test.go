package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesAssistantMetrics(t *testing.T) {
	reg := NewRegistry()

	app := fiber.New()
	app.Use(Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", Handler(reg))

	AssistantSessions.WithLabelValues("opened").Inc()
	AssistantDirectives.WithLabelValues("appointment").Inc()

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `church_assistant_sessions_total{event="opened"}`)
	assert.Contains(t, text, `church_assistant_directives_total{kind="appointment"}`)
	assert.Contains(t, text, `church_api_request_duration_seconds_count{method="GET",path="/ping",status="200"}`)
}
