package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/klougaris/smartclinic/pkg/types"
)

// WritePrescription records the medication for an appointment. Only the
// assigned doctor may write one, and an appointment takes at most one
// prescription: the lookup catches the common duplicate and the unique
// constraint catches the race.
func (l *Ledger) WritePrescription(ctx context.Context, caller *types.Principal, rx *types.Prescription) (*types.Prescription, error) {
	if caller.Role != types.RoleDoctor {
		return nil, types.NewForbiddenError("only doctors may write prescriptions")
	}
	if rx.Medication == "" || rx.Dosage == "" {
		return nil, types.NewValidationError(types.CodeInvalidInput, "medication and dosage are required")
	}
	if len(rx.DoctorNotes) > 200 {
		return nil, types.NewValidationError(types.CodeInvalidInput, "doctor notes must not exceed 200 characters")
	}

	apt, err := l.appointments.GetByID(ctx, rx.AppointmentID)
	if err != nil {
		return nil, err
	}
	if caller.SubjectID != apt.DoctorID {
		return nil, types.NewForbiddenError("appointment belongs to another doctor")
	}

	if rx.PatientName == "" {
		patient, err := l.patients.GetByID(ctx, apt.PatientID)
		if err != nil {
			return nil, err
		}
		rx.PatientName = patient.Name
	}

	if _, err := l.prescriptions.GetByAppointment(ctx, rx.AppointmentID); err == nil {
		return nil, types.NewConflictError(types.CodeDuplicateRx, "appointment already has a prescription")
	} else if !types.IsNotFound(err) {
		return nil, err
	}

	now := time.Now()
	rx.ID = uuid.New().String()
	rx.CreatedAt = now
	rx.UpdatedAt = now

	if err := l.prescriptions.Create(ctx, rx); err != nil {
		return nil, err
	}

	l.logger.Infof("Prescription %s written for appointment %s", rx.ID, rx.AppointmentID)
	return rx, nil
}

// PrescriptionByAppointment returns the prescription written against an
// appointment. The assigned doctor, the owning patient and admins may read.
func (l *Ledger) PrescriptionByAppointment(ctx context.Context, caller *types.Principal, appointmentID string) (*types.Prescription, error) {
	apt, err := l.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !canTouch(caller, apt) {
		return nil, types.NewForbiddenError("appointment belongs to another caller")
	}
	return l.prescriptions.GetByAppointment(ctx, appointmentID)
}
