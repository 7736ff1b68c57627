package store

import (
	"context"
	"database/sql"

	"github.com/klougaris/smartclinic/pkg/database"
	"github.com/klougaris/smartclinic/pkg/interfaces"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/types"
)

const prescriptionColumns = `id, appointment_id, patient_name, medication, dosage, doctor_notes, created_at, updated_at`

// Prescriptions persists prescription rows. The unique constraint on
// appointment_id makes Create a conditional write: at most one
// prescription exists per appointment.
type Prescriptions struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPrescriptions creates the prescription store.
func NewPrescriptions(db *database.DB, log *logger.Logger) interfaces.PrescriptionStore {
	return &Prescriptions{db: db, logger: log}
}

// Create inserts a prescription row. A second prescription for the same
// appointment surfaces as a conflict.
func (s *Prescriptions) Create(ctx context.Context, rx *types.Prescription) error {
	query := `
		INSERT INTO prescriptions (id, appointment_id, patient_name, medication, dosage, doctor_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	_, err := s.db.ExecContext(ctx, query,
		rx.ID,
		rx.AppointmentID,
		rx.PatientName,
		rx.Medication,
		rx.Dosage,
		rx.DoctorNotes,
		rx.CreatedAt,
		rx.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return types.NewConflictError(types.CodeDuplicateRx, "appointment already has a prescription")
		}
		s.logger.Errorf("Failed to insert prescription: %v", err)
		return storageError("insert prescription", err)
	}

	s.logger.Infof("Created prescription %s for appointment %s", rx.ID, rx.AppointmentID)
	return nil
}

// GetByAppointment retrieves the prescription written against an appointment.
func (s *Prescriptions) GetByAppointment(ctx context.Context, appointmentID string) (*types.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE appointment_id = $1`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	rx := &types.Prescription{}
	err := s.db.QueryRowContext(ctx, query, appointmentID).Scan(
		&rx.ID,
		&rx.AppointmentID,
		&rx.PatientName,
		&rx.Medication,
		&rx.Dosage,
		&rx.DoctorNotes,
		&rx.CreatedAt,
		&rx.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.CodeRxNotFound, "no prescription for appointment")
		}
		s.logger.Errorf("Failed to get prescription for appointment %s: %v", appointmentID, err)
		return nil, storageError("get prescription", err)
	}

	return rx, nil
}
