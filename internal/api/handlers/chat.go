package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/sambhav874/WingHeights/internal/api/models"
	"github.com/sambhav874/WingHeights/internal/chat"
	"github.com/sambhav874/WingHeights/internal/session"
)

// ChatHandler serves the request/response chat variant and session
// management endpoints.
type ChatHandler struct {
	store  *session.Store
	router *chat.Router
}

// NewChatHandler creates a new chat handler
func NewChatHandler(store *session.Store, router *chat.Router) *ChatHandler {
	return &ChatHandler{
		store:  store,
		router: router,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req models.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Message) == "" {
		logrus.Warn("Chat request without message body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No message provided",
		})
	}

	// A missing session id allocates a fresh session, so every HTTP client
	// gets isolated per-session state.
	var sess *session.Session
	if req.SessionID == "" {
		sess = h.store.Create()
	} else {
		sess = h.store.Get(req.SessionID)
		if sess == nil {
			logrus.WithField("session_id", req.SessionID).Warn("Chat request for unknown session")
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Invalid session",
			})
		}
	}

	sess.Lock()
	reply := h.router.HandleTurn(c.Context(), sess, req.Message)
	sess.Unlock()

	return c.JSON(models.MessageResponse{
		SessionID:     sess.ID,
		Response:      reply.Response,
		RequiresInput: reply.RequiresInput,
		TokenCount:    reply.TokenCount,
		MaxTokens:     reply.MaxTokens,
	})
}

// SubmitAppointment handles POST /api/v1/appointments
func (h *ChatHandler) SubmitAppointment(c *fiber.Ctx) error {
	var req models.AppointmentSubmission
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.SessionID == "" || req.Details == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please fill in all required fields",
		})
	}

	sess := h.store.Get(req.SessionID)
	if sess == nil {
		logrus.WithField("session_id", req.SessionID).Warn("Appointment submission for unknown session")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invalid session",
		})
	}

	sess.Lock()
	reply, err := h.router.FinalizeAppointment(c.Context(), sess, *req.Details)
	sess.Unlock()

	if err != nil {
		if errors.Is(err, chat.ErrMalformedInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Please fill in all required fields",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.MessageResponse{
		SessionID:     sess.ID,
		Response:      reply.Response,
		RequiresInput: reply.RequiresInput,
		TokenCount:    reply.TokenCount,
		MaxTokens:     reply.MaxTokens,
	})
}

// CreateSession handles POST /api/v1/sessions
func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	sess := h.store.Create()
	logrus.WithField("session_id", sess.ID).Info("Session created")

	return c.JSON(models.MessageResponse{
		SessionID: sess.ID,
		Response:  chat.GreetingMessage,
	})
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *ChatHandler) DeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if h.store.Get(id) == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invalid session",
		})
	}

	h.store.Delete(id)
	logrus.WithField("session_id", id).Info("Session deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
