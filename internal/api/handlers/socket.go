package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/sambhav874/WingHeights/internal/api/models"
	"github.com/sambhav874/WingHeights/internal/chat"
	"github.com/sambhav874/WingHeights/internal/session"
)

// SocketHandler serves the real-time bidirectional chat variant. Each
// connection owns exactly one session, created on connect and released on
// disconnect. Frames are read in a loop, so turns for one session are
// naturally serialized.
type SocketHandler struct {
	store  *session.Store
	router *chat.Router
}

// NewSocketHandler creates a new socket handler
func NewSocketHandler(store *session.Store, router *chat.Router) *SocketHandler {
	return &SocketHandler{
		store:  store,
		router: router,
	}
}

// Handle runs the connection lifecycle for WebSocket /ws
func (h *SocketHandler) Handle(c *websocket.Conn) {
	sess := h.store.Create()
	defer h.store.Delete(sess.ID)
	defer c.Close()

	log := logrus.WithField("session_id", sess.ID)
	log.Info("Client connected")

	if err := c.WriteJSON(models.SocketResponse{
		Event:     models.EventSessionCreated,
		SessionID: sess.ID,
	}); err != nil {
		log.WithError(err).Warn("Failed to send session id")
		return
	}
	if err := c.WriteJSON(models.SocketResponse{
		Event:    models.EventMessage,
		Response: chat.GreetingMessage,
	}); err != nil {
		return
	}

	for {
		var event models.SocketEvent
		if err := c.ReadJSON(&event); err != nil {
			log.Info("Client disconnected")
			return
		}

		resp := h.dispatch(context.Background(), sess, event)
		if err := c.WriteJSON(resp); err != nil {
			log.WithError(err).Warn("Failed to write response")
			return
		}
	}
}

func (h *SocketHandler) dispatch(ctx context.Context, sess *session.Session, event models.SocketEvent) models.SocketResponse {
	switch event.Event {
	case models.EventMessage:
		return h.handleMessage(ctx, sess, event.Message)
	case models.EventSubmitAppointment:
		return h.handleSubmission(ctx, sess, event)
	default:
		return models.SocketResponse{
			Event: models.EventError,
			Error: "Unknown event",
		}
	}
}

func (h *SocketHandler) handleMessage(ctx context.Context, sess *session.Session, message string) models.SocketResponse {
	if strings.TrimSpace(message) == "" {
		logrus.WithField("session_id", sess.ID).Warn("Empty message received")
		return models.SocketResponse{
			Event: models.EventError,
			Error: "No message provided",
		}
	}

	sess.Lock()
	reply := h.router.HandleTurn(ctx, sess, message)
	sess.Unlock()

	return models.SocketResponse{
		Event:         models.EventResponse,
		Response:      reply.Response,
		RequiresInput: reply.RequiresInput,
		TokenCount:    reply.TokenCount,
		MaxTokens:     reply.MaxTokens,
	}
}

func (h *SocketHandler) handleSubmission(ctx context.Context, sess *session.Session, event models.SocketEvent) models.SocketResponse {
	if event.Details == nil {
		return models.SocketResponse{
			Event: models.EventError,
			Error: "Please fill in all required fields",
		}
	}

	sess.Lock()
	reply, err := h.router.FinalizeAppointment(ctx, sess, *event.Details)
	sess.Unlock()

	if err != nil {
		if errors.Is(err, chat.ErrMalformedInput) {
			return models.SocketResponse{
				Event: models.EventError,
				Error: "Please fill in all required fields",
			}
		}
		return models.SocketResponse{
			Event: models.EventError,
			Error: "Sorry, there was an error processing your appointment. Please try again.",
		}
	}

	return models.SocketResponse{
		Event:         models.EventResponse,
		Response:      reply.Response,
		RequiresInput: reply.RequiresInput,
		TokenCount:    reply.TokenCount,
		MaxTokens:     reply.MaxTokens,
	}
}
