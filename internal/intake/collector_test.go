package intake

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambhav874/WingHeights/internal/session"
	"github.com/sambhav874/WingHeights/internal/storage"
)

type fakeSink struct {
	appointments []storage.AppointmentRecord
	failAppend   bool
}

func (f *fakeSink) AppendAppointment(rec storage.AppointmentRecord) error {
	if f.failAppend {
		return fmt.Errorf("disk full")
	}
	f.appointments = append(f.appointments, rec)
	return nil
}

func (f *fakeSink) AppendUserContact(name, contact, email string) error { return nil }

func (f *fakeSink) AppendInteraction(sessionID, name, event string) error { return nil }

func (f *fakeSink) AppendChatMessage(sessionID, role, text string, at time.Time) error { return nil }

func TestStartMovesSessionIntoCollection(t *testing.T) {
	c := New(false, &fakeSink{})
	sess := &session.Session{State: session.StateAwaitingConfirmation}

	reply := c.Start(sess)

	assert.Equal(t, session.StateCollecting, sess.State)
	assert.Equal(t, 0, sess.FieldIndex)
	assert.Empty(t, sess.Draft)
	assert.Equal(t, "Great! Let's book an appointment. Please provide your Name:", reply)
}

func TestStartDiscardsStaleDraft(t *testing.T) {
	c := New(false, &fakeSink{})
	sess := &session.Session{
		Draft:      map[string]string{FieldName: "old value"},
		FieldIndex: 3,
	}

	c.Start(sess)

	assert.Empty(t, sess.Draft)
	assert.Equal(t, 0, sess.FieldIndex)
}

func TestFieldOrder(t *testing.T) {
	assert.Equal(t, []string{
		FieldName, FieldContactNumber, FieldEmail, FieldDate, FieldInsuranceType,
	}, New(false, &fakeSink{}).Fields())

	assert.Equal(t, []string{
		FieldName, FieldContactNumber, FieldEmail, FieldDate, FieldTime, FieldInsuranceType,
	}, New(true, &fakeSink{}).Fields())
}

func TestSubmitWalksFieldsInOrder(t *testing.T) {
	sink := &fakeSink{}
	c := New(false, sink)
	sess := &session.Session{}
	c.Start(sess)

	values := []string{"Ravi Kumar", "9876543210", "ravi@example.com", "2026-09-15", "Health"}
	prompts := []string{
		"Thank you. Now, please provide your Contact Number:",
		"Thank you. Now, please provide your Email:",
		"Thank you. Now, please provide your Appointment Date:",
		"Thank you. Now, please provide your Insurance Type:",
	}

	for i, value := range values[:4] {
		reply, rec := c.Submit(sess, value)
		assert.Equal(t, prompts[i], reply)
		assert.Nil(t, rec)
		assert.Equal(t, i+1, sess.FieldIndex)
		// No value is ever stored beyond the current position.
		assert.Len(t, sess.Draft, i+1)
	}

	summary, rec := c.Submit(sess, values[4])
	require.NotNil(t, rec)
	assert.Equal(t, "Ravi Kumar", rec.Name)
	assert.Equal(t, "9876543210", rec.ContactNumber)
	assert.Equal(t, "ravi@example.com", rec.Email)
	assert.Equal(t, "2026-09-15", rec.Date)
	assert.Equal(t, "Health", rec.InsuranceType)
	assert.Empty(t, rec.Time)

	for _, want := range []string{
		"Thank you for providing all the details.",
		"Name: Ravi Kumar",
		"Contact Number: 9876543210",
		"Email: ravi@example.com",
		"Appointment Date: 2026-09-15",
		"Insurance Type: Health",
		"We look forward to assisting you!",
	} {
		assert.Contains(t, summary, want)
	}

	assert.Equal(t, session.StateIdle, sess.State)
	assert.Empty(t, sess.Draft)
	assert.Equal(t, 0, sess.FieldIndex)
}

func TestSubmitPersistsExactlyOneRecord(t *testing.T) {
	sink := &fakeSink{}
	c := New(true, sink)
	sess := &session.Session{}
	c.Start(sess)

	for _, v := range []string{"A", "B", "C", "D", "E", "F"} {
		c.Submit(sess, v)
	}

	require.Len(t, sink.appointments, 1)
	assert.Equal(t, "D", sink.appointments[0].Date)
	assert.Equal(t, "E", sink.appointments[0].Time)
	assert.Equal(t, "F", sink.appointments[0].InsuranceType)
}

// Persistence failure must not break the dialogue: the user still gets the
// summary and the session returns to idle.
func TestSubmitSinkFailureStillCompletes(t *testing.T) {
	sink := &fakeSink{failAppend: true}
	c := New(false, sink)
	sess := &session.Session{}
	c.Start(sess)

	var summary string
	var rec *storage.AppointmentRecord
	for _, v := range []string{"A", "B", "C", "D", "E"} {
		summary, rec = c.Submit(sess, v)
	}

	require.NotNil(t, rec)
	assert.Contains(t, summary, "We look forward to assisting you!")
	assert.Equal(t, session.StateIdle, sess.State)
	assert.Empty(t, sink.appointments)
}

func TestSummaryMarksEmptyValues(t *testing.T) {
	c := New(false, &fakeSink{})
	sess := &session.Session{}
	c.Start(sess)

	var summary string
	for _, v := range []string{"Ravi", "", "ravi@example.com", "", "Life"} {
		summary, _ = c.Submit(sess, v)
	}

	assert.Contains(t, summary, "Contact Number: Not provided")
	assert.Contains(t, summary, "Appointment Date: Not provided")
}
