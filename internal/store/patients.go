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

const patientColumns = `id, name, email, phone, address, password_hash, created_at, updated_at`

// Patients persists patient rows.
type Patients struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPatients creates the patient store.
func NewPatients(db *database.DB, log *logger.Logger) interfaces.PatientStore {
	return &Patients{db: db, logger: log}
}

// Create inserts a new patient. The unique constraints on email and phone
// back the registration uniqueness invariant.
func (s *Patients) Create(ctx context.Context, patient *types.Patient) error {
	query := `
		INSERT INTO patients (id, name, email, phone, address, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	_, err := s.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.Address,
		patient.PasswordHash,
		patient.CreatedAt,
		patient.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return types.NewConflictError(types.CodeDuplicateContact, "patient email or phone already registered")
		}
		s.logger.Errorf("Failed to create patient: %v", err)
		return storageError("create patient", err)
	}

	s.logger.Infof("Created patient %s", patient.ID)
	return nil
}

// GetByID retrieves a patient by id.
func (s *Patients) GetByID(ctx context.Context, id string) (*types.Patient, error) {
	return s.getOne(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
}

// GetByEmail retrieves a patient by email.
func (s *Patients) GetByEmail(ctx context.Context, email string) (*types.Patient, error) {
	return s.getOne(ctx, `SELECT `+patientColumns+` FROM patients WHERE email = $1`, email)
}

// GetByEmailOrPhone retrieves the patient holding either contact
// identifier, used for the self-registration uniqueness check.
func (s *Patients) GetByEmailOrPhone(ctx context.Context, email, phone string) (*types.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email = $1 OR phone = $2 LIMIT 1`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	return s.scanOne(s.db.QueryRowContext(ctx, query, email, phone))
}

func (s *Patients) getOne(ctx context.Context, query string, arg interface{}) (*types.Patient, error) {
	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	return s.scanOne(s.db.QueryRowContext(ctx, query, arg))
}

func (s *Patients) scanOne(row *sql.Row) (*types.Patient, error) {
	patient := &types.Patient{}
	err := row.Scan(
		&patient.ID,
		&patient.Name,
		&patient.Email,
		&patient.Phone,
		&patient.Address,
		&patient.PasswordHash,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.CodePatientNotFound, "patient not found")
		}
		s.logger.Errorf("Failed to get patient: %v", err)
		return nil, storageError("get patient", err)
	}

	return patient, nil
}

// Update rewrites a patient's mutable fields in place.
func (s *Patients) Update(ctx context.Context, patient *types.Patient) error {
	query := `
		UPDATE patients
		SET name = $2, email = $3, phone = $4, address = $5, updated_at = $6
		WHERE id = $1`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	result, err := s.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.Address,
		time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.NewConflictError(types.CodeDuplicateContact, "patient email or phone already registered")
		}
		s.logger.Errorf("Failed to update patient %s: %v", patient.ID, err)
		return storageError("update patient", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageError("update patient", err)
	}
	if rows == 0 {
		return types.NewNotFoundError(types.CodePatientNotFound, "patient not found")
	}

	s.logger.Infof("Updated patient %s", patient.ID)
	return nil
}
