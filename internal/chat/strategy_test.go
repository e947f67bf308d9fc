package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerStrategy(t *testing.T) {
	s := MarkerStrategy{}

	assert.True(t, s.ShouldOfferBooking("anything", "Would you like to book an appointment with us?"))
	assert.True(t, s.ShouldOfferBooking("anything", "Please BOOK AN APPOINTMENT to proceed."))
	assert.False(t, s.ShouldOfferBooking("I want to book an appointment", "Here is some pricing info."))
	assert.False(t, s.ShouldOfferBooking("anything", ""))
}

func TestKeywordStrategy(t *testing.T) {
	s := KeywordStrategy{}

	tests := []struct {
		message string
		want    bool
	}{
		{message: "yes please", want: true},
		{message: "let's proceed", want: true},
		{message: "can I book something", want: true},
		{message: "SCHEDULE me in", want: true},
		{message: "tell me about health insurance", want: false},
		{message: "", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.ShouldOfferBooking(tt.message, "irrelevant"), "message %q", tt.message)
	}
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("marker")
	require.NoError(t, err)
	assert.IsType(t, MarkerStrategy{}, s)

	s, err = NewStrategy("keyword")
	require.NoError(t, err)
	assert.IsType(t, KeywordStrategy{}, s)

	_, err = NewStrategy("majority-vote")
	assert.Error(t, err)
}
