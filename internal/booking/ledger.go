// Package booking owns the appointment lifecycle: the scheduled /
// completed / cancelled state machine and the conditional writes that
// keep a slot from being sold twice.
package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/klougaris/smartclinic/internal/availability"
	"github.com/klougaris/smartclinic/pkg/interfaces"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/monitoring"
	"github.com/klougaris/smartclinic/pkg/types"
)

// Ledger is the booking service. State lives in the stores; the ledger
// enforces the transition rules and ownership before every write.
type Ledger struct {
	doctors       interfaces.DoctorStore
	patients      interfaces.PatientStore
	appointments  interfaces.AppointmentStore
	prescriptions interfaces.PrescriptionStore
	engine        *availability.Engine
	metrics       *monitoring.Collector
	logger        *logger.Logger
}

// NewLedger creates a booking ledger.
func NewLedger(doctors interfaces.DoctorStore, patients interfaces.PatientStore, appointments interfaces.AppointmentStore, prescriptions interfaces.PrescriptionStore, engine *availability.Engine, metrics *monitoring.Collector, log *logger.Logger) *Ledger {
	return &Ledger{
		doctors:       doctors,
		patients:      patients,
		appointments:  appointments,
		prescriptions: prescriptions,
		engine:        engine,
		metrics:       metrics,
		logger:        log,
	}
}

// Book places a scheduled appointment on a free slot. The free-slot check
// is advisory; the scheduled-slot unique index is what actually decides a
// race, so a concurrent winner surfaces as slot-unavailable even after
// the check passed.
func (l *Ledger) Book(ctx context.Context, doctorID, patientID string, start time.Time) (*types.Appointment, error) {
	doctor, err := l.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if _, err := l.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	open, err := l.engine.HasSlot(ctx, doctorID, start)
	if err != nil {
		return nil, err
	}
	if !open {
		l.metrics.RecordBooking("rejected")
		return nil, types.NewSlotUnavailableError("requested start is not an open slot")
	}

	now := time.Now()
	apt := &types.Appointment{
		ID:        uuid.New().String(),
		DoctorID:  doctorID,
		PatientID: patientID,
		StartTime: start,
		EndTime:   start.Add(doctor.SlotDuration()),
		Status:    types.StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := l.appointments.Insert(ctx, apt); err != nil {
		if types.IsSlotUnavailable(err) {
			l.metrics.RecordBooking("conflict")
			l.logger.Infof("Lost booking race for doctor %s at %s", doctorID, start.Format(time.RFC3339))
		} else {
			l.metrics.RecordBooking("error")
		}
		return nil, err
	}

	l.metrics.RecordBooking("booked")
	l.logger.Infof("Booked appointment %s: doctor %s, patient %s, %s", apt.ID, doctorID, patientID, start.Format(time.RFC3339))
	return apt, nil
}

// Reschedule moves a scheduled appointment to a new start time. Only the
// owning patient may move it; the appointment's own slot is excluded from
// the conflict set so moving within the same day never collides with
// itself.
func (l *Ledger) Reschedule(ctx context.Context, id string, newStart time.Time, caller *types.Principal) error {
	apt, err := l.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if caller.Role != types.RolePatient || caller.SubjectID != apt.PatientID {
		return types.NewForbiddenError("only the owning patient may reschedule")
	}
	if apt.Status != types.StatusScheduled {
		return types.NewInvalidTransitionError("only scheduled appointments can be rescheduled")
	}

	doctor, err := l.doctors.GetByID(ctx, apt.DoctorID)
	if err != nil {
		return err
	}

	open, err := l.engine.HasSlotExcluding(ctx, apt.DoctorID, newStart, apt.ID)
	if err != nil {
		return err
	}
	if !open {
		l.metrics.RecordBooking("rejected")
		return types.NewSlotUnavailableError("requested start is not an open slot")
	}

	if err := l.appointments.UpdateStart(ctx, id, newStart, newStart.Add(doctor.SlotDuration())); err != nil {
		if types.IsSlotUnavailable(err) {
			l.metrics.RecordBooking("conflict")
		}
		return err
	}

	l.logger.Infof("Rescheduled appointment %s to %s", id, newStart.Format(time.RFC3339))
	return nil
}

// Cancel marks a scheduled appointment cancelled. The owning patient, the
// assigned doctor and admins may cancel. The row is kept: cancellation is
// part of the history, not a delete.
func (l *Ledger) Cancel(ctx context.Context, id string, caller *types.Principal) error {
	apt, err := l.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canTouch(caller, apt) {
		return types.NewForbiddenError("appointment belongs to another patient")
	}
	return l.transition(ctx, id, types.StatusScheduled, types.StatusCancelled)
}

// Complete marks a scheduled appointment completed. Only the assigned
// doctor or an admin may complete; patients cannot.
func (l *Ledger) Complete(ctx context.Context, id string, caller *types.Principal) error {
	apt, err := l.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case caller.Role == types.RoleAdmin:
	case caller.Role == types.RoleDoctor && caller.SubjectID == apt.DoctorID:
	default:
		return types.NewForbiddenError("only the assigned doctor may complete")
	}
	return l.transition(ctx, id, types.StatusScheduled, types.StatusCompleted)
}

// transition applies from -> to through the guarded update. An unmatched
// update means the row left the from status between read and write, which
// is a transition violation, not a retry case.
func (l *Ledger) transition(ctx context.Context, id string, from, to types.AppointmentStatus) error {
	matched, err := l.appointments.Transition(ctx, id, from, to)
	if err != nil {
		return err
	}
	if !matched {
		return types.NewInvalidTransitionError("appointment is not " + string(from))
	}
	l.logger.Infof("Appointment %s: %s -> %s", id, from, to)
	return nil
}

// canTouch reports whether the caller may act on the appointment as owner:
// the owning patient, the assigned doctor, or any admin.
func canTouch(caller *types.Principal, apt *types.Appointment) bool {
	switch caller.Role {
	case types.RoleAdmin:
		return true
	case types.RoleDoctor:
		return caller.SubjectID == apt.DoctorID
	case types.RolePatient:
		return caller.SubjectID == apt.PatientID
	}
	return false
}
