package handler_test

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/handler"
	"github.com/edumark/gradebook-go-api/internal/service"
)

func TestPrivacyTickerStreamsCountdown(t *testing.T) {
	logger := zerolog.New(io.Discard)
	privacy := service.NewPrivacySessionService(time.Hour, nil, logger)
	t.Cleanup(privacy.Shutdown)

	app := fiber.New()
	privacyHandler := handler.NewPrivacyHandler(privacy, 10*time.Millisecond, logger)
	privacyHandler.Register(app.Group("/api/v1/privacy"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/privacy/ticker"
	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	conn, resp, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	var first dto.PrivacySessionResponse
	require.NoError(t, conn.ReadJSON(&first))
	require.True(t, first.Active)
	require.Equal(t, time.Hour.Milliseconds(), first.DurationMS)
	require.Greater(t, first.RemainingMS, int64(0))

	var second dto.PrivacySessionResponse
	require.NoError(t, conn.ReadJSON(&second))
	require.True(t, second.Active)
	require.LessOrEqual(t, second.RemainingMS, first.RemainingMS)
}

func TestPrivacyTickerRejectsPlainHTTP(t *testing.T) {
	logger := zerolog.New(io.Discard)
	privacy := service.NewPrivacySessionService(time.Hour, nil, logger)
	t.Cleanup(privacy.Shutdown)

	app := fiber.New()
	privacyHandler := handler.NewPrivacyHandler(privacy, time.Second, logger)
	privacyHandler.Register(app.Group("/api/v1/privacy"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	resp, err := http.Get(baseURL + "/api/v1/privacy/ticker")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}
