package types

import "time"

// Role is the access class a verified token resolves to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// Principal is the identity a verified token resolves to.
// SubjectID is the id of the matching doctor, patient or admin row.
type Principal struct {
	Role      Role   `json:"role"`
	SubjectID string `json:"subject_id"`
}

// Default working-hours profile.
const (
	DefaultWorkStart   = 9 * 60  // 09:00 in minutes since midnight
	DefaultWorkEnd     = 17 * 60 // 17:00
	DefaultSlotMinutes = 60
)

// Doctor represents a doctor and their working-hours profile.
// WorkStart and WorkEnd are minutes since midnight; SlotMinutes is the
// booking granularity.
type Doctor struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Specialty    string    `json:"specialty" db:"specialty"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	WorkStart    int       `json:"work_start" db:"work_start"`
	WorkEnd      int       `json:"work_end" db:"work_end"`
	SlotMinutes  int       `json:"slot_minutes" db:"slot_minutes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ApplyProfileDefaults fills in the default working-hours profile for
// fields the caller left zero.
func (d *Doctor) ApplyProfileDefaults() {
	if d.WorkStart == 0 && d.WorkEnd == 0 {
		d.WorkStart = DefaultWorkStart
		d.WorkEnd = DefaultWorkEnd
	}
	if d.SlotMinutes == 0 {
		d.SlotMinutes = DefaultSlotMinutes
	}
}

// SlotDuration returns the doctor's booking granularity as a duration.
func (d *Doctor) SlotDuration() time.Duration {
	if d.SlotMinutes <= 0 {
		return DefaultSlotMinutes * time.Minute
	}
	return time.Duration(d.SlotMinutes) * time.Minute
}

// Patient represents a registered patient.
type Patient struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	Address      string    `json:"address" db:"address"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Admin represents a back-office administrator account.
type Admin struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
