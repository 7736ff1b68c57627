// Package availability computes a doctor's free slots for a calendar date.
// The engine holds no state of its own: the booking ledger is the source
// of truth and the slot set is recomputed on every call.
package availability

import (
	"context"
	"time"

	"github.com/klougaris/smartclinic/pkg/interfaces"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/types"
)

// Engine derives free slots from a doctor's working-hours profile and the
// scheduled appointments held against it.
type Engine struct {
	doctors      interfaces.DoctorStore
	appointments interfaces.AppointmentStore
	logger       *logger.Logger
}

// NewEngine creates an availability engine.
func NewEngine(doctors interfaces.DoctorStore, appointments interfaces.AppointmentStore, log *logger.Logger) *Engine {
	return &Engine{
		doctors:      doctors,
		appointments: appointments,
		logger:       log,
	}
}

// FreeSlots returns the doctor's open slots on the given day, ordered
// ascending. Candidates are slot_i = workStart + i*granularity while the
// whole slot fits before workEnd; a trailing partial slot is dropped.
// Start times already held by a scheduled appointment are excluded.
func (e *Engine) FreeSlots(ctx context.Context, doctorID string, day time.Time) ([]types.TimeSlot, error) {
	return e.freeSlots(ctx, doctorID, day, "")
}

// freeSlots computes the open slots, treating excludeID's own slot as free.
// Rescheduling excludes the appointment being moved from its conflict set.
func (e *Engine) freeSlots(ctx context.Context, doctorID string, day time.Time, excludeID string) ([]types.TimeSlot, error) {
	doctor, err := e.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	booked, err := e.appointments.ScheduledByDoctorAndRange(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	bookedStarts := make(map[time.Time]struct{}, len(booked))
	for _, apt := range booked {
		if excludeID != "" && apt.ID == excludeID {
			continue
		}
		bookedStarts[apt.StartTime.In(day.Location()).Truncate(time.Minute)] = struct{}{}
	}

	workStart := dayStart.Add(time.Duration(doctor.WorkStart) * time.Minute)
	workEnd := dayStart.Add(time.Duration(doctor.WorkEnd) * time.Minute)
	granularity := doctor.SlotDuration()

	var free []types.TimeSlot
	for current := workStart; !current.Add(granularity).After(workEnd); current = current.Add(granularity) {
		if _, held := bookedStarts[current]; held {
			continue
		}
		free = append(free, types.TimeSlot{
			StartTime: current,
			EndTime:   current.Add(granularity),
		})
	}

	e.logger.Debugf("Doctor %s has %d free slots on %s", doctorID, len(free), dayStart.Format("2006-01-02"))
	return free, nil
}

// HasSlot reports whether start is one of the doctor's free slots on its
// day. Booking validates against this.
func (e *Engine) HasSlot(ctx context.Context, doctorID string, start time.Time) (bool, error) {
	return e.hasSlot(ctx, doctorID, start, "")
}

// HasSlotExcluding is HasSlot with excludeID's own slot treated as free,
// so a reschedule does not conflict with itself.
func (e *Engine) HasSlotExcluding(ctx context.Context, doctorID string, start time.Time, excludeID string) (bool, error) {
	return e.hasSlot(ctx, doctorID, start, excludeID)
}

func (e *Engine) hasSlot(ctx context.Context, doctorID string, start time.Time, excludeID string) (bool, error) {
	slots, err := e.freeSlots(ctx, doctorID, start, excludeID)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.StartTime.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}
