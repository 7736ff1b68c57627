package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for the scheduler.
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	tables := []string{
		createDoctorsTable,
		createPatientsTable,
		createAdminsTable,
		createAppointmentsTable,
		createPrescriptionsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createDoctorsIndexes,
		createAppointmentsIndexes,
		createScheduledSlotIndex,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// SQL DDL statements for table creation
const (
	createDoctorsTable = `
		CREATE TABLE IF NOT EXISTS doctors (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			specialty VARCHAR(50) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(20) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			work_start SMALLINT NOT NULL DEFAULT 540,
			work_end SMALLINT NOT NULL DEFAULT 1020,
			slot_minutes SMALLINT NOT NULL DEFAULT 60,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (work_start < work_end),
			CHECK (slot_minutes IN (30, 60))
		);`

	createPatientsTable = `
		CREATE TABLE IF NOT EXISTS patients (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(20) UNIQUE NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`

	createAdminsTable = `
		CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`

	createAppointmentsTable = `
		CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			doctor_id UUID NOT NULL REFERENCES doctors(id) ON DELETE CASCADE,
			patient_id UUID NOT NULL REFERENCES patients(id),
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (status IN ('scheduled', 'completed', 'cancelled')),
			CHECK (start_time < end_time)
		);`

	// UNIQUE(appointment_id) caps prescriptions at one per appointment; a
	// second write loses with a unique violation. The cascade follows the
	// appointment row, which itself only goes when its doctor is purged.
	createPrescriptionsTable = `
		CREATE TABLE IF NOT EXISTS prescriptions (
			id UUID PRIMARY KEY,
			appointment_id UUID UNIQUE NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
			patient_name VARCHAR(100) NOT NULL,
			medication VARCHAR(100) NOT NULL,
			dosage VARCHAR(20) NOT NULL,
			doctor_notes VARCHAR(200) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`
)

// SQL DDL statements for indexes
const (
	createDoctorsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_doctors_specialty ON doctors(LOWER(specialty));
		CREATE INDEX IF NOT EXISTS idx_doctors_name ON doctors(LOWER(name));`

	createAppointmentsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_appointments_doctor_time ON appointments(doctor_id, start_time);
		CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
		CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status);`

	// The partial unique index is the storage-level conditional write that
	// prevents two concurrent bookers from both inserting the same slot:
	// at most one scheduled row may exist per (doctor, start_time).
	createScheduledSlotIndex = `
		CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_scheduled_slot
		ON appointments(doctor_id, start_time)
		WHERE status = 'scheduled';`
)
