// Package search implements the composable predicate searches: the doctor
// directory and a patient's own appointment history. Every predicate is
// conjunctive and an absent predicate matches everything.
package search

import (
	"context"
	"time"

	"github.com/klougaris/smartclinic/pkg/interfaces"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/types"
)

// Filter runs the read-side searches. Name and specialty are pushed down
// to the store; the AM/PM period predicate needs the availability engine
// because it is defined over free slots, not stored rows.
type Filter struct {
	doctors      interfaces.DoctorStore
	appointments interfaces.AppointmentStore
	engine       interfaces.AvailabilityEngine
	logger       *logger.Logger
}

// NewFilter creates a query filter.
func NewFilter(doctors interfaces.DoctorStore, appointments interfaces.AppointmentStore, engine interfaces.AvailabilityEngine, log *logger.Logger) *Filter {
	return &Filter{
		doctors:      doctors,
		appointments: appointments,
		engine:       engine,
		logger:       log,
	}
}

// Doctors searches the doctor directory. An empty result is a valid
// answer, not an error.
func (f *Filter) Doctors(ctx context.Context, query *types.DoctorQuery) (*types.DoctorResult, error) {
	if query == nil {
		query = &types.DoctorQuery{}
	}

	doctors, err := f.doctors.Search(ctx, query.Name, query.Specialty)
	if err != nil {
		return nil, err
	}

	if query.Period != "" {
		doctors, err = f.filterByPeriod(ctx, doctors, query.Period, query.Date)
		if err != nil {
			return nil, err
		}
	}

	return &types.DoctorResult{Doctors: doctors, Count: len(doctors)}, nil
}

// filterByPeriod keeps doctors with at least one free slot in the given
// half of the day. The date defaults to today; a slot is AM when its
// start hour is before noon.
func (f *Filter) filterByPeriod(ctx context.Context, doctors []*types.Doctor, period types.DayPeriod, date time.Time) ([]*types.Doctor, error) {
	if date.IsZero() {
		date = time.Now()
	}

	matched := make([]*types.Doctor, 0, len(doctors))
	for _, doctor := range doctors {
		slots, err := f.engine.FreeSlots(ctx, doctor.ID, date)
		if err != nil {
			if types.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if anyInPeriod(slots, period) {
			matched = append(matched, doctor)
		}
	}
	return matched, nil
}

func anyInPeriod(slots []types.TimeSlot, period types.DayPeriod) bool {
	for _, slot := range slots {
		am := slot.StartTime.Hour() < 12
		if (period == types.PeriodAM && am) || (period == types.PeriodPM && !am) {
			return true
		}
	}
	return false
}

// PatientAppointments searches a patient's own appointments. The temporal
// condition maps past to completed and future to scheduled; the doctor
// name narrows by substring. Both are pushed down to the store.
func (f *Filter) PatientAppointments(ctx context.Context, patientID string, query *types.AppointmentQuery) (*types.AppointmentResult, error) {
	if query == nil {
		query = &types.AppointmentQuery{}
	}

	appointments, err := f.appointments.ByPatient(ctx, patientID, query)
	if err != nil {
		return nil, err
	}

	return &types.AppointmentResult{Appointments: appointments, Count: len(appointments)}, nil
}
