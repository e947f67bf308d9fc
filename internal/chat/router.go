// Package chat implements the per-turn conversation state machine: quota
// enforcement, appointment intake, confirmation handling and general Q&A
// against the language-model collaborator.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/sambhav874/WingHeights/internal/config"
	"github.com/sambhav874/WingHeights/internal/intake"
	"github.com/sambhav874/WingHeights/internal/meter"
	"github.com/sambhav874/WingHeights/internal/providers"
	"github.com/sambhav874/WingHeights/internal/retrieval"
	"github.com/sambhav874/WingHeights/internal/session"
	"github.com/sambhav874/WingHeights/internal/storage"
)

// Sentinel errors for the transport layer to map onto rejection responses.
var (
	ErrInvalidSession = errors.New("invalid session")
	ErrMalformedInput = errors.New("malformed input")
)

const (
	answerTemperature = 0.7
	answerMaxTokens   = 300
	farewellMaxTokens = 200
)

// Reply is the structured outbound message for one turn.
type Reply struct {
	Response      string `json:"response"`
	RequiresInput bool   `json:"requires_input"`
	TokenCount    int    `json:"token_count"`
	MaxTokens     int    `json:"max_tokens"`
}

// Router drives one conversation turn at a time. It is not safe for
// concurrent turns on the same session: callers must hold the session lock
// for the duration of the turn.
type Router struct {
	chatCfg    config.ChatConfig
	ragEnabled bool

	provider  providers.Provider
	retriever retrieval.Retriever
	sink      storage.Sink

	meter     *meter.Meter
	collector *intake.Collector
	strategy  TriggerStrategy
	validate  *validator.Validate
}

// NewRouter wires the router from configuration and its collaborators.
func NewRouter(cfg *config.Config, provider providers.Provider, retriever retrieval.Retriever, sink storage.Sink) (*Router, error) {
	strategy, err := NewStrategy(cfg.Chat.BookingTrigger)
	if err != nil {
		return nil, err
	}

	return &Router{
		chatCfg:    cfg.Chat,
		ragEnabled: cfg.Retrieval.Enabled,
		provider:   provider,
		retriever:  retriever,
		sink:       sink,
		meter:      meter.New(cfg.Chat.MaxTokens),
		collector:  intake.New(cfg.Chat.SplitDateTime, sink),
		strategy:   strategy,
		validate:   validator.New(),
	}, nil
}

// Meter exposes the token meter (used by transport handlers for metrics).
func (r *Router) Meter() *meter.Meter {
	return r.meter
}

// HandleTurn processes one inbound message for a session and returns the
// outbound reply. The caller must hold the session lock.
//
// The charge-then-check ordering is deliberate: the turn that crosses the
// ceiling is still charged, and the check runs against the post-charge
// total, so that turn already receives the quota message.
func (r *Router) HandleTurn(ctx context.Context, sess *session.Session, message string) Reply {
	if sess.State == session.StateClosed {
		return r.reply(sess, QuotaExceededMessage, false)
	}

	r.meter.Charge(sess, r.meter.Measure(message))
	if r.meter.OverBudget(sess) {
		sess.State = session.StateClosed
		logrus.WithField("session_id", sess.ID).Info("Session token budget exhausted")
		return r.reply(sess, QuotaExceededMessage, false)
	}

	switch sess.State {
	case session.StateCollecting:
		return r.continueIntake(ctx, sess, message)
	case session.StateAwaitingConfirmation:
		return r.handleConfirmation(sess, message)
	default:
		return r.answerQuestion(ctx, sess, message)
	}
}

// continueIntake feeds the message into the field collector. On the final
// field the collector's summary is extended with a model-generated farewell;
// farewell generation is best-effort since the record is already persisted.
func (r *Router) continueIntake(ctx context.Context, sess *session.Session, message string) Reply {
	r.recordUser(sess, message)

	response, rec := r.collector.Submit(sess, message)
	if rec != nil {
		farewell, err := r.generateFarewell(ctx, sess, *rec)
		if err != nil {
			logrus.WithError(err).WithField("session_id", sess.ID).Error("Farewell generation failed, sending summary only")
		} else {
			response = response + "\n\n" + farewell
		}
	}

	r.recordBot(sess, response)
	return r.reply(sess, response, rec == nil)
}

func (r *Router) handleConfirmation(sess *session.Session, message string) Reply {
	r.recordUser(sess, message)

	var response string
	switch strings.ToLower(strings.TrimSpace(message)) {
	case "yes":
		response = r.collector.Start(sess)
	case "no":
		sess.State = session.StateIdle
		sess.ResetDraft()
		response = DeclineMessage
	default:
		// Stay in confirmation and ask again.
		response = ReaskMessage
	}

	r.recordBot(sess, response)
	return r.reply(sess, response, sess.State != session.StateIdle)
}

// answerQuestion forwards the message (plus retrieved context) to the model.
// Collaborator failures become the fixed apology and leave the session's
// conversational state exactly as it was.
func (r *Router) answerQuestion(ctx context.Context, sess *session.Session, message string) Reply {
	contextText, err := r.retriever.Retrieve(ctx, message)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sess.ID).Error("Retrieval failed")
		return r.reply(sess, ApologyMessage, false)
	}

	resp, err := r.provider.Complete(ctx, r.questionRequest(contextText, message))
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"session_id": sess.ID,
			"provider":   r.provider.Name(),
		}).Error("Completion failed")
		return r.reply(sess, ApologyMessage, false)
	}

	response := strings.TrimSpace(resp.Content)
	if r.strategy.ShouldOfferBooking(message, response) {
		response += ConfirmPrompt
		sess.State = session.StateAwaitingConfirmation
	}

	r.recordUser(sess, message)
	r.recordBot(sess, response)
	return r.reply(sess, response, sess.State == session.StateAwaitingConfirmation)
}

// FinalizeAppointment is the direct path for a complete structured payload,
// bypassing the field-by-field collector. The payload is validated for all
// six fields before anything is persisted or mutated.
func (r *Router) FinalizeAppointment(ctx context.Context, sess *session.Session, rec storage.AppointmentRecord) (Reply, error) {
	if err := r.validate.Struct(rec); err != nil {
		return Reply{}, fmt.Errorf("%w: missing appointment fields", ErrMalformedInput)
	}

	// Persistence is best-effort and never blocks the confirmation.
	log := logrus.WithField("session_id", sess.ID)
	if err := r.sink.AppendAppointment(rec); err != nil {
		log.WithError(err).Error("Failed to persist appointment record")
	}
	if err := r.sink.AppendUserContact(rec.Name, rec.ContactNumber, rec.Email); err != nil {
		log.WithError(err).Error("Failed to persist user contact")
	}
	if err := r.sink.AppendInteraction(sess.ID, rec.Name, "appointment_scheduled"); err != nil {
		log.WithError(err).Error("Failed to persist interaction record")
	}

	response, err := r.generateFarewell(ctx, sess, rec)
	if err != nil {
		log.WithError(err).Error("Farewell generation failed, sending fixed confirmation")
		response = FallbackConfirmation
	}

	r.recordBot(sess, response)
	return r.reply(sess, response, false), nil
}

func (r *Router) questionRequest(contextText, question string) providers.CompletionRequest {
	var system string
	if r.ragEnabled {
		system = strings.ReplaceAll(ragSystemPromptTemplate, "{context}", contextText)
		system = strings.ReplaceAll(system, "{question}", question)
	} else {
		system = directSystemPrompt
	}

	temp := float32(answerTemperature)
	maxTokens := answerMaxTokens

	return providers.CompletionRequest{
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: system},
			{Role: providers.RoleUser, Content: question},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}
}

func (r *Router) generateFarewell(ctx context.Context, sess *session.Session, rec storage.AppointmentRecord) (string, error) {
	var history strings.Builder
	for _, msg := range sess.Messages {
		fmt.Fprintf(&history, "%s: %s\n", msg.Role, msg.Content)
	}

	prompt := strings.NewReplacer(
		"{history}", history.String(),
		"{name}", rec.Name,
		"{date}", rec.Date,
		"{time}", rec.Time,
		"{contact}", rec.ContactNumber,
		"{insurance}", rec.InsuranceType,
		"{email}", rec.Email,
	).Replace(farewellUserPromptTemplate)

	temp := float32(answerTemperature)
	maxTokens := farewellMaxTokens

	resp, err := r.provider.Complete(ctx, providers.CompletionRequest{
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: farewellSystemPrompt},
			{Role: providers.RoleUser, Content: prompt},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("farewell completion: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}

func (r *Router) recordUser(sess *session.Session, text string) {
	msg := sess.Append("user", text)
	if err := r.sink.AppendChatMessage(sess.ID, msg.Role, msg.Content, msg.Timestamp); err != nil {
		logrus.WithError(err).WithField("session_id", sess.ID).Error("Failed to persist chat history row")
	}
}

func (r *Router) recordBot(sess *session.Session, text string) {
	r.meter.Charge(sess, r.meter.Measure(text))

	msg := sess.Append("bot", text)
	if err := r.sink.AppendChatMessage(sess.ID, msg.Role, msg.Content, msg.Timestamp); err != nil {
		logrus.WithError(err).WithField("session_id", sess.ID).Error("Failed to persist chat history row")
	}
}

func (r *Router) reply(sess *session.Session, response string, requiresInput bool) Reply {
	return Reply{
		Response:      response,
		RequiresInput: requiresInput,
		TokenCount:    sess.TotalTokens,
		MaxTokens:     r.meter.Budget(),
	}
}
