package interfaces

import (
	"context"
	"time"

	"github.com/klougaris/smartclinic/pkg/types"
)

// DoctorStore defines persistence for doctors.
type DoctorStore interface {
	Create(ctx context.Context, doctor *types.Doctor) error
	GetByID(ctx context.Context, id string) (*types.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*types.Doctor, error)
	Update(ctx context.Context, doctor *types.Doctor) error
	Delete(ctx context.Context, id string) error
	// Search filters by case-insensitive name substring and exact
	// case-insensitive specialty; empty arguments match everything.
	Search(ctx context.Context, name, specialty string) ([]*types.Doctor, error)
}

// PatientStore defines persistence for patients.
type PatientStore interface {
	Create(ctx context.Context, patient *types.Patient) error
	GetByID(ctx context.Context, id string) (*types.Patient, error)
	GetByEmail(ctx context.Context, email string) (*types.Patient, error)
	GetByEmailOrPhone(ctx context.Context, email, phone string) (*types.Patient, error)
	Update(ctx context.Context, patient *types.Patient) error
}

// AdminStore defines persistence for administrator accounts.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*types.Admin, error)
}

// AppointmentStore defines persistence for appointments. Insert and
// UpdateStart are conditional writes: the scheduled-slot unique index makes
// them fail with a slot-unavailable error when a concurrent booker won.
type AppointmentStore interface {
	Insert(ctx context.Context, apt *types.Appointment) error
	GetByID(ctx context.Context, id string) (*types.Appointment, error)
	// ScheduledByDoctorAndRange returns scheduled appointments for the
	// doctor with start_time in [start, end), ordered ascending.
	ScheduledByDoctorAndRange(ctx context.Context, doctorID string, start, end time.Time) ([]*types.Appointment, error)
	// ByDoctorDay returns the doctor's appointments in [start, end),
	// optionally narrowed by a case-insensitive patient-name substring.
	ByDoctorDay(ctx context.Context, doctorID string, start, end time.Time, patientName string) ([]*types.Appointment, error)
	// ByPatient returns a patient's appointments narrowed by the
	// composable query; a zero query matches all of them.
	ByPatient(ctx context.Context, patientID string, query *types.AppointmentQuery) ([]*types.Appointment, error)
	// UpdateStart moves a scheduled appointment to a new start time.
	// Rows in a terminal status are not touched.
	UpdateStart(ctx context.Context, id string, start, end time.Time) error
	// Transition applies from -> to on a single row; it reports whether
	// the guarded update matched.
	Transition(ctx context.Context, id string, from, to types.AppointmentStatus) (bool, error)
	// CancelScheduledByDoctor cancels every scheduled appointment of the
	// doctor starting at or after the cutoff, returning the count.
	CancelScheduledByDoctor(ctx context.Context, doctorID string, cutoff time.Time) (int64, error)
}

// PrescriptionStore defines persistence for prescriptions. Create is a
// conditional write: the unique constraint on appointment_id makes a
// second prescription for the same appointment fail with a conflict.
type PrescriptionStore interface {
	Create(ctx context.Context, rx *types.Prescription) error
	GetByAppointment(ctx context.Context, appointmentID string) (*types.Prescription, error)
}

// TokenAuthority issues and verifies bearer credentials binding a caller
// to a (role, owner id) pair.
type TokenAuthority interface {
	Issue(subject string) (string, error)
	Verify(ctx context.Context, token string, role types.Role) (*types.Principal, error)
}

// AvailabilityEngine computes a doctor's free slots for a calendar date.
type AvailabilityEngine interface {
	FreeSlots(ctx context.Context, doctorID string, day time.Time) ([]types.TimeSlot, error)
}

// BookingLedger owns the appointment lifecycle.
type BookingLedger interface {
	Book(ctx context.Context, doctorID, patientID string, start time.Time) (*types.Appointment, error)
	Reschedule(ctx context.Context, id string, newStart time.Time, caller *types.Principal) error
	Cancel(ctx context.Context, id string, caller *types.Principal) error
	Complete(ctx context.Context, id string, caller *types.Principal) error
}

// QueryFilter is the composable predicate search over doctors and over a
// patient's appointments.
type QueryFilter interface {
	Doctors(ctx context.Context, query *types.DoctorQuery) (*types.DoctorResult, error)
	PatientAppointments(ctx context.Context, patientID string, query *types.AppointmentQuery) (*types.AppointmentResult, error)
}
