// Package intake drives the fixed-order, field-by-field appointment dialogue.
package intake

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sambhav874/WingHeights/internal/session"
	"github.com/sambhav874/WingHeights/internal/storage"
)

// Field names in collection order. Values are accepted as free text; there
// is deliberately no content validation on any of them.
const (
	FieldName          = "Name"
	FieldContactNumber = "Contact Number"
	FieldEmail         = "Email"
	FieldDate          = "Appointment Date"
	FieldTime          = "Appointment Time"
	FieldInsuranceType = "Insurance Type"
)

// Collector walks a session through the required appointment fields, one
// prompt per turn, in a fixed declared order.
type Collector struct {
	fields []string
	sink   storage.Sink
}

// New creates a collector. With splitDateTime the date and time are asked
// as two separate fields, otherwise a single date field is used.
func New(splitDateTime bool, sink storage.Sink) *Collector {
	fields := []string{FieldName, FieldContactNumber, FieldEmail, FieldDate, FieldInsuranceType}
	if splitDateTime {
		fields = []string{FieldName, FieldContactNumber, FieldEmail, FieldDate, FieldTime, FieldInsuranceType}
	}

	return &Collector{
		fields: fields,
		sink:   sink,
	}
}

// Fields returns the collection order.
func (c *Collector) Fields() []string {
	return c.fields
}

// Start resets the draft and moves the session into collection. The reply
// asks for the first field.
func (c *Collector) Start(sess *session.Session) string {
	sess.ResetDraft()
	sess.State = session.StateCollecting

	return fmt.Sprintf("Great! Let's book an appointment. Please provide your %s:", c.fields[0])
}

// Submit stores value under the field currently being collected and
// advances. While fields remain it returns the prompt for the next one.
// On the final field it returns the full summary, appends exactly one
// appointment record to the sink and returns the session to idle.
func (c *Collector) Submit(sess *session.Session, value string) (string, *storage.AppointmentRecord) {
	sess.Draft[c.fields[sess.FieldIndex]] = value
	sess.FieldIndex++

	if sess.FieldIndex < len(c.fields) {
		next := c.fields[sess.FieldIndex]
		return fmt.Sprintf("Thank you. Now, please provide your %s:", next), nil
	}

	rec := c.record(sess.Draft)
	summary := c.summary(sess.Draft)

	if err := c.sink.AppendAppointment(rec); err != nil {
		// Best-effort: the user still gets their confirmation.
		logrus.WithError(err).WithField("session_id", sess.ID).Error("Failed to persist appointment record")
	}

	sess.ResetDraft()
	sess.State = session.StateIdle

	return summary, &rec
}

func (c *Collector) summary(draft map[string]string) string {
	var b strings.Builder
	b.WriteString("Thank you for providing all the details. Here's a summary of your appointment:\n\n")
	for _, field := range c.fields {
		v := draft[field]
		if v == "" {
			v = "Not provided"
		}
		fmt.Fprintf(&b, "%s: %s\n", field, v)
	}
	b.WriteString("\nWe look forward to assisting you!")
	return b.String()
}

func (c *Collector) record(draft map[string]string) storage.AppointmentRecord {
	return storage.AppointmentRecord{
		Name:          draft[FieldName],
		ContactNumber: draft[FieldContactNumber],
		Email:         draft[FieldEmail],
		Date:          draft[FieldDate],
		Time:          draft[FieldTime],
		InsuranceType: draft[FieldInsuranceType],
	}
}
