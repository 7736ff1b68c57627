package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/klougaris/smartclinic/pkg/database"
	"github.com/klougaris/smartclinic/pkg/interfaces"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/types"
)

const appointmentColumns = `id, doctor_id, patient_id, start_time, end_time, status, created_at, updated_at`

// Appointments persists appointment rows. The partial unique index on
// (doctor_id, start_time) WHERE status = 'scheduled' turns Insert and
// UpdateStart into conditional writes: the row that loses a concurrent
// booking race fails with a unique violation instead of double-booking.
type Appointments struct {
	db     *database.DB
	logger *logger.Logger
}

// NewAppointments creates the appointment store.
func NewAppointments(db *database.DB, log *logger.Logger) interfaces.AppointmentStore {
	return &Appointments{db: db, logger: log}
}

// Insert creates a new appointment row. A concurrent booking of the same
// slot surfaces as a slot-unavailable error.
func (s *Appointments) Insert(ctx context.Context, apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (id, doctor_id, patient_id, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	_, err := s.db.ExecContext(ctx, query,
		apt.ID,
		apt.DoctorID,
		apt.PatientID,
		apt.StartTime,
		apt.EndTime,
		apt.Status,
		apt.CreatedAt,
		apt.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return types.NewSlotUnavailableError("slot already held by a scheduled appointment")
		}
		s.logger.Errorf("Failed to insert appointment: %v", err)
		return storageError("insert appointment", err)
	}

	s.logger.Infof("Created appointment %s for patient %s with doctor %s", apt.ID, apt.PatientID, apt.DoctorID)
	return nil
}

// GetByID retrieves an appointment by id.
func (s *Appointments) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	apt := &types.Appointment{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&apt.ID,
		&apt.DoctorID,
		&apt.PatientID,
		&apt.StartTime,
		&apt.EndTime,
		&apt.Status,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.CodeNotFound, "appointment not found")
		}
		s.logger.Errorf("Failed to get appointment %s: %v", id, err)
		return nil, storageError("get appointment", err)
	}

	return apt, nil
}

// ScheduledByDoctorAndRange returns scheduled appointments for the doctor
// with start_time in [start, end), ordered ascending.
func (s *Appointments) ScheduledByDoctorAndRange(ctx context.Context, doctorID string, start, end time.Time) ([]*types.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		  AND status = 'scheduled'
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time ASC`

	return s.queryMany(ctx, query, doctorID, start, end)
}

// ByDoctorDay returns the doctor's appointments in [start, end), optionally
// narrowed by a case-insensitive patient-name substring.
func (s *Appointments) ByDoctorDay(ctx context.Context, doctorID string, start, end time.Time, patientName string) ([]*types.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.doctor_id = $1
		  AND a.start_time >= $2
		  AND a.start_time < $3
		  AND ($4 = '' OR EXISTS (
		        SELECT 1 FROM patients p
		        WHERE p.id = a.patient_id
		          AND LOWER(p.name) LIKE '%' || LOWER($4) || '%'))
		ORDER BY a.start_time ASC`

	return s.queryMany(ctx, query, doctorID, start, end, patientName)
}

// ByPatient returns a patient's appointments narrowed by the composable
// query. An absent predicate matches everything.
func (s *Appointments) ByPatient(ctx context.Context, patientID string, query *types.AppointmentQuery) ([]*types.Appointment, error) {
	status := ""
	if query != nil {
		switch query.Condition {
		case types.ConditionPast:
			status = string(types.StatusCompleted)
		case types.ConditionFuture:
			status = string(types.StatusScheduled)
		}
	}

	doctorName := ""
	if query != nil {
		doctorName = query.DoctorName
	}

	sqlQuery := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.patient_id = $1
		  AND ($2 = '' OR a.status = $2)
		  AND ($3 = '' OR EXISTS (
		        SELECT 1 FROM doctors d
		        WHERE d.id = a.doctor_id
		          AND LOWER(d.name) LIKE '%' || LOWER($3) || '%'))
		ORDER BY a.start_time ASC`

	return s.queryMany(ctx, sqlQuery, patientID, status, doctorName)
}

// UpdateStart moves a scheduled appointment to a new start time. The
// guarded WHERE keeps terminal rows untouched; the scheduled-slot index
// rejects a move onto a slot another booker holds.
func (s *Appointments) UpdateStart(ctx context.Context, id string, start, end time.Time) error {
	query := `
		UPDATE appointments
		SET start_time = $2, end_time = $3, updated_at = $4
		WHERE id = $1 AND status = 'scheduled'`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	result, err := s.db.ExecContext(ctx, query, id, start, end, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return types.NewSlotUnavailableError("slot already held by a scheduled appointment")
		}
		s.logger.Errorf("Failed to reschedule appointment %s: %v", id, err)
		return storageError("reschedule appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageError("reschedule appointment", err)
	}
	if rows == 0 {
		return types.NewInvalidTransitionError("appointment is not scheduled")
	}

	s.logger.Infof("Rescheduled appointment %s to %s", id, start.Format(time.RFC3339))
	return nil
}

// Transition applies from -> to on a single row and reports whether the
// guarded update matched.
func (s *Appointments) Transition(ctx context.Context, id string, from, to types.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	result, err := s.db.ExecContext(ctx, query, id, from, to, time.Now())
	if err != nil {
		s.logger.Errorf("Failed to transition appointment %s: %v", id, err)
		return false, storageError("transition appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, storageError("transition appointment", err)
	}

	if rows > 0 {
		s.logger.Infof("Appointment %s: %s -> %s", id, from, to)
	}
	return rows > 0, nil
}

// CancelScheduledByDoctor cancels every scheduled appointment of the
// doctor starting at or after the cutoff, returning the count. Used by
// the doctor-deletion cascade.
func (s *Appointments) CancelScheduledByDoctor(ctx context.Context, doctorID string, cutoff time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'cancelled', updated_at = $3
		WHERE doctor_id = $1 AND status = 'scheduled' AND start_time >= $2`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	result, err := s.db.ExecContext(ctx, query, doctorID, cutoff, time.Now())
	if err != nil {
		s.logger.Errorf("Failed to cancel appointments for doctor %s: %v", doctorID, err)
		return 0, storageError("cancel doctor appointments", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storageError("cancel doctor appointments", err)
	}

	s.logger.Infof("Cancelled %d scheduled appointments for doctor %s", rows, doctorID)
	return rows, nil
}

func (s *Appointments) queryMany(ctx context.Context, query string, args ...interface{}) ([]*types.Appointment, error) {
	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Errorf("Failed to query appointments: %v", err)
		return nil, storageError("query appointments", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt := &types.Appointment{}
		err := rows.Scan(
			&apt.ID,
			&apt.DoctorID,
			&apt.PatientID,
			&apt.StartTime,
			&apt.EndTime,
			&apt.Status,
			&apt.CreatedAt,
			&apt.UpdatedAt,
		)
		if err != nil {
			return nil, storageError("scan appointment", err)
		}
		appointments = append(appointments, apt)
	}

	if err = rows.Err(); err != nil {
		return nil, storageError("query appointments", err)
	}

	return appointments, nil
}
