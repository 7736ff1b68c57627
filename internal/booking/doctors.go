package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/klougaris/smartclinic/internal/auth"
	"github.com/klougaris/smartclinic/pkg/types"
)

// CreateDoctor registers a doctor with a hashed password and the default
// working-hours profile where none was given. Admin only.
func (l *Ledger) CreateDoctor(ctx context.Context, caller *types.Principal, doctor *types.Doctor, password string) (*types.Doctor, error) {
	if caller.Role != types.RoleAdmin {
		return nil, types.NewForbiddenError("only admins may create doctors")
	}
	if doctor.Name == "" || doctor.Email == "" {
		return nil, types.NewValidationError(types.CodeInvalidInput, "doctor name and email are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doctor.ID = uuid.New().String()
	doctor.PasswordHash = hash
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	doctor.ApplyProfileDefaults()

	if err := l.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}

	l.logger.Infof("Created doctor %s (%s)", doctor.ID, doctor.Specialty)
	return doctor, nil
}

// UpdateDoctor rewrites a doctor's profile. Admin only; the password hash
// and creation time are carried over from the stored row.
func (l *Ledger) UpdateDoctor(ctx context.Context, caller *types.Principal, doctor *types.Doctor) error {
	if caller.Role != types.RoleAdmin {
		return types.NewForbiddenError("only admins may update doctors")
	}

	current, err := l.doctors.GetByID(ctx, doctor.ID)
	if err != nil {
		return err
	}

	doctor.PasswordHash = current.PasswordHash
	doctor.CreatedAt = current.CreatedAt
	doctor.UpdatedAt = time.Now()
	doctor.ApplyProfileDefaults()

	return l.doctors.Update(ctx, doctor)
}

// DeleteDoctor removes a doctor after cancelling their future scheduled
// appointments, so no patient is left holding a slot against a doctor who
// no longer exists.
func (l *Ledger) DeleteDoctor(ctx context.Context, caller *types.Principal, id string) error {
	if caller.Role != types.RoleAdmin {
		return types.NewForbiddenError("only admins may delete doctors")
	}

	if _, err := l.doctors.GetByID(ctx, id); err != nil {
		return err
	}

	cancelled, err := l.appointments.CancelScheduledByDoctor(ctx, id, time.Now())
	if err != nil {
		return err
	}
	if cancelled > 0 {
		l.logger.Warnf("Cancelled %d scheduled appointments for departing doctor %s", cancelled, id)
	}

	return l.doctors.Delete(ctx, id)
}

// DoctorDay returns the doctor's own calendar for a day, optionally
// narrowed by a patient-name substring. Doctors see only their own day;
// admins may see any doctor's.
func (l *Ledger) DoctorDay(ctx context.Context, caller *types.Principal, doctorID string, day time.Time, patientName string) ([]*types.Appointment, error) {
	switch {
	case caller.Role == types.RoleAdmin:
	case caller.Role == types.RoleDoctor && caller.SubjectID == doctorID:
	default:
		return nil, types.NewForbiddenError("calendar belongs to another doctor")
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return l.appointments.ByDoctorDay(ctx, doctorID, dayStart, dayStart.Add(24*time.Hour), patientName)
}
