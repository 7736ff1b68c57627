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

const doctorColumns = `id, name, specialty, email, phone, password_hash,
	   work_start, work_end, slot_minutes, created_at, updated_at`

// Doctors persists doctor rows.
type Doctors struct {
	db     *database.DB
	logger *logger.Logger
}

// NewDoctors creates the doctor store.
func NewDoctors(db *database.DB, log *logger.Logger) interfaces.DoctorStore {
	return &Doctors{db: db, logger: log}
}

// Create inserts a new doctor. A duplicate email or phone surfaces as a
// conflict error.
func (s *Doctors) Create(ctx context.Context, doctor *types.Doctor) error {
	query := `
		INSERT INTO doctors (id, name, specialty, email, phone, password_hash,
			work_start, work_end, slot_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	_, err := s.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialty,
		doctor.Email,
		doctor.Phone,
		doctor.PasswordHash,
		doctor.WorkStart,
		doctor.WorkEnd,
		doctor.SlotMinutes,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return types.NewConflictError(types.CodeDuplicateContact, "doctor email or phone already registered")
		}
		s.logger.Errorf("Failed to create doctor: %v", err)
		return storageError("create doctor", err)
	}

	s.logger.Infof("Created doctor %s", doctor.ID)
	return nil
}

// GetByID retrieves a doctor by id.
func (s *Doctors) GetByID(ctx context.Context, id string) (*types.Doctor, error) {
	return s.getOne(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id)
}

// GetByEmail retrieves a doctor by email.
func (s *Doctors) GetByEmail(ctx context.Context, email string) (*types.Doctor, error) {
	return s.getOne(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE email = $1`, email)
}

func (s *Doctors) getOne(ctx context.Context, query string, arg interface{}) (*types.Doctor, error) {
	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	doctor := &types.Doctor{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Specialty,
		&doctor.Email,
		&doctor.Phone,
		&doctor.PasswordHash,
		&doctor.WorkStart,
		&doctor.WorkEnd,
		&doctor.SlotMinutes,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.CodeDoctorNotFound, "doctor not found")
		}
		s.logger.Errorf("Failed to get doctor: %v", err)
		return nil, storageError("get doctor", err)
	}

	return doctor, nil
}

// Update rewrites a doctor's profile fields in place.
func (s *Doctors) Update(ctx context.Context, doctor *types.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $2, specialty = $3, email = $4, phone = $5,
		    work_start = $6, work_end = $7, slot_minutes = $8, updated_at = $9
		WHERE id = $1`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	result, err := s.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialty,
		doctor.Email,
		doctor.Phone,
		doctor.WorkStart,
		doctor.WorkEnd,
		doctor.SlotMinutes,
		time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.NewConflictError(types.CodeDuplicateContact, "doctor email or phone already registered")
		}
		s.logger.Errorf("Failed to update doctor %s: %v", doctor.ID, err)
		return storageError("update doctor", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageError("update doctor", err)
	}
	if rows == 0 {
		return types.NewNotFoundError(types.CodeDoctorNotFound, "doctor not found")
	}

	s.logger.Infof("Updated doctor %s", doctor.ID)
	return nil
}

// Delete removes a doctor row.
func (s *Doctors) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		s.logger.Errorf("Failed to delete doctor %s: %v", id, err)
		return storageError("delete doctor", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageError("delete doctor", err)
	}
	if rows == 0 {
		return types.NewNotFoundError(types.CodeDoctorNotFound, "doctor not found")
	}

	s.logger.Infof("Deleted doctor %s", id)
	return nil
}

// Search filters doctors by case-insensitive name substring and exact
// case-insensitive specialty; empty arguments match everything.
func (s *Doctors) Search(ctx context.Context, name, specialty string) ([]*types.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE ($1 = '' OR LOWER(name) LIKE '%' || LOWER($1) || '%')
		  AND ($2 = '' OR LOWER(specialty) = LOWER($2))
		ORDER BY name ASC`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, name, specialty)
	if err != nil {
		s.logger.Errorf("Failed to search doctors: %v", err)
		return nil, storageError("search doctors", err)
	}
	defer rows.Close()

	var doctors []*types.Doctor
	for rows.Next() {
		doctor := &types.Doctor{}
		err := rows.Scan(
			&doctor.ID,
			&doctor.Name,
			&doctor.Specialty,
			&doctor.Email,
			&doctor.Phone,
			&doctor.PasswordHash,
			&doctor.WorkStart,
			&doctor.WorkEnd,
			&doctor.SlotMinutes,
			&doctor.CreatedAt,
			&doctor.UpdatedAt,
		)
		if err != nil {
			return nil, storageError("scan doctor", err)
		}
		doctors = append(doctors, doctor)
	}

	if err = rows.Err(); err != nil {
		return nil, storageError("search doctors", err)
	}

	return doctors, nil
}
