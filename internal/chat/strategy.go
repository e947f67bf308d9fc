package chat

import (
	"fmt"
	"strings"
)

// TriggerStrategy decides, on an idle turn, whether the response should end
// with an offer to book an appointment. Two strategies exist in production
// and both are kept selectable.
type TriggerStrategy interface {
	// ShouldOfferBooking inspects the user's message and the model reply
	// for booking intent.
	ShouldOfferBooking(userMessage, botReply string) bool
}

// MarkerStrategy triggers when the model's own reply contains the
// booking-offer phrase. Used with the retrieval-augmented prompt, which
// instructs the model to emit that phrase for out-of-scope questions.
type MarkerStrategy struct{}

func (MarkerStrategy) ShouldOfferBooking(_, botReply string) bool {
	return strings.Contains(strings.ToLower(botReply), bookingMarker)
}

// KeywordStrategy triggers on booking keywords in the user's own message,
// regardless of what the model replied.
type KeywordStrategy struct{}

var bookingKeywords = []string{"yes", "proceed", "book", "schedule"}

func (KeywordStrategy) ShouldOfferBooking(userMessage, _ string) bool {
	msg := strings.ToLower(userMessage)
	for _, kw := range bookingKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// NewStrategy resolves a configured strategy name.
func NewStrategy(name string) (TriggerStrategy, error) {
	switch name {
	case "marker":
		return MarkerStrategy{}, nil
	case "keyword":
		return KeywordStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown booking trigger strategy: %s", name)
	}
}
