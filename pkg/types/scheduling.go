package types

import "time"

// AppointmentStatus represents appointment status values.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed out of the status.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment represents a booked slot. It owns both foreign keys by value;
// doctors and patients hold no back-references.
type Appointment struct {
	ID        string            `json:"id" db:"id"`
	DoctorID  string            `json:"doctor_id" db:"doctor_id"`
	PatientID string            `json:"patient_id" db:"patient_id"`
	StartTime time.Time         `json:"start_time" db:"start_time"`
	EndTime   time.Time         `json:"end_time" db:"end_time"`
	Status    AppointmentStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// Prescription is the medication record a doctor writes against an
// appointment. At most one prescription exists per appointment.
type Prescription struct {
	ID            string    `json:"id" db:"id"`
	AppointmentID string    `json:"appointment_id" db:"appointment_id"`
	PatientName   string    `json:"patient_name" db:"patient_name"`
	Medication    string    `json:"medication" db:"medication"`
	Dosage        string    `json:"dosage" db:"dosage"`
	DoctorNotes   string    `json:"doctor_notes,omitempty" db:"doctor_notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// TimeSlot is a candidate appointment window derived from a doctor's
// working-hours profile.
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// DayPeriod buckets a slot by its start hour.
type DayPeriod string

const (
	PeriodAM DayPeriod = "am" // start hour < 12
	PeriodPM DayPeriod = "pm" // start hour >= 12
)

// TemporalCondition selects past or upcoming appointments in patient searches.
type TemporalCondition string

const (
	ConditionPast   TemporalCondition = "past"   // status completed
	ConditionFuture TemporalCondition = "future" // status scheduled
)

// DoctorQuery is the composable doctor-directory search. A zero field is
// the identity predicate and matches everything.
type DoctorQuery struct {
	Name      string    `json:"name,omitempty"`      // case-insensitive substring
	Specialty string    `json:"specialty,omitempty"` // case-insensitive exact
	Period    DayPeriod `json:"period,omitempty"`    // evaluated against free slots on Date
	Date      time.Time `json:"date,omitempty"`      // defaults to today
}

// DoctorResult is a doctor search result set with its cardinality.
type DoctorResult struct {
	Doctors []*Doctor `json:"doctors"`
	Count   int       `json:"count"`
}

// AppointmentQuery is the composable patient-appointment search.
type AppointmentQuery struct {
	Condition  TemporalCondition `json:"condition,omitempty"`
	DoctorName string            `json:"doctor_name,omitempty"` // case-insensitive substring
}

// AppointmentResult is an appointment search result set with its cardinality.
type AppointmentResult struct {
	Appointments []*Appointment `json:"appointments"`
	Count        int            `json:"count"`
}
