package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/klougaris/smartclinic/internal/auth"
	"github.com/klougaris/smartclinic/pkg/types"
)

// RegisterPatient creates a patient account. Registration is open, but a
// reused email or phone is a conflict: the lookup catches the common case
// and the unique constraints catch the race.
func (l *Ledger) RegisterPatient(ctx context.Context, patient *types.Patient, password string) (*types.Patient, error) {
	if patient.Name == "" || patient.Email == "" || password == "" {
		return nil, types.NewValidationError(types.CodeInvalidInput, "patient name, email and password are required")
	}

	if _, err := l.patients.GetByEmailOrPhone(ctx, patient.Email, patient.Phone); err == nil {
		return nil, types.NewConflictError(types.CodeDuplicateContact, "email or phone already registered")
	} else if !types.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patient.ID = uuid.New().String()
	patient.PasswordHash = hash
	patient.CreatedAt = now
	patient.UpdatedAt = now

	if err := l.patients.Create(ctx, patient); err != nil {
		return nil, err
	}

	l.logger.Infof("Registered patient %s", patient.ID)
	return patient, nil
}

// UpdatePatient rewrites a patient's own profile. Patients may only touch
// themselves; there is no admin override on patient records.
func (l *Ledger) UpdatePatient(ctx context.Context, caller *types.Principal, patient *types.Patient) error {
	if caller.Role != types.RolePatient || caller.SubjectID != patient.ID {
		return types.NewForbiddenError("patients may only update their own profile")
	}

	current, err := l.patients.GetByID(ctx, patient.ID)
	if err != nil {
		return err
	}

	patient.PasswordHash = current.PasswordHash
	patient.CreatedAt = current.CreatedAt
	patient.UpdatedAt = time.Now()

	return l.patients.Update(ctx, patient)
}

// GetPatient returns a patient's own record, password hash stripped.
func (l *Ledger) GetPatient(ctx context.Context, caller *types.Principal, id string) (*types.Patient, error) {
	if caller.Role != types.RolePatient || caller.SubjectID != id {
		return nil, types.NewForbiddenError("patients may only read their own profile")
	}
	patient, err := l.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patient.PasswordHash = ""
	return patient, nil
}
