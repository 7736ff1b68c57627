package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/types"
)

// MockDoctorStore is a mock implementation of DoctorStore.
type MockDoctorStore struct {
	mock.Mock
}

func (m *MockDoctorStore) Create(ctx context.Context, doctor *types.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *MockDoctorStore) GetByID(ctx context.Context, id string) (*types.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Doctor), args.Error(1)
}

func (m *MockDoctorStore) GetByEmail(ctx context.Context, email string) (*types.Doctor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Doctor), args.Error(1)
}

func (m *MockDoctorStore) Update(ctx context.Context, doctor *types.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *MockDoctorStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDoctorStore) Search(ctx context.Context, name, specialty string) ([]*types.Doctor, error) {
	args := m.Called(ctx, name, specialty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Doctor), args.Error(1)
}

// MockAppointmentStore is a mock implementation of AppointmentStore.
type MockAppointmentStore struct {
	mock.Mock
}

func (m *MockAppointmentStore) Insert(ctx context.Context, apt *types.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *MockAppointmentStore) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) ScheduledByDoctorAndRange(ctx context.Context, doctorID string, start, end time.Time) ([]*types.Appointment, error) {
	args := m.Called(ctx, doctorID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) ByDoctorDay(ctx context.Context, doctorID string, start, end time.Time, patientName string) ([]*types.Appointment, error) {
	args := m.Called(ctx, doctorID, start, end, patientName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) ByPatient(ctx context.Context, patientID string, query *types.AppointmentQuery) ([]*types.Appointment, error) {
	args := m.Called(ctx, patientID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) UpdateStart(ctx context.Context, id string, start, end time.Time) error {
	args := m.Called(ctx, id, start, end)
	return args.Error(0)
}

func (m *MockAppointmentStore) Transition(ctx context.Context, id string, from, to types.AppointmentStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentStore) CancelScheduledByDoctor(ctx context.Context, doctorID string, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, doctorID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func workdayDoctor() *types.Doctor {
	return &types.Doctor{
		ID:          "doc-1",
		Name:        "Alice Hart",
		WorkStart:   types.DefaultWorkStart,
		WorkEnd:     types.DefaultWorkEnd,
		SlotMinutes: types.DefaultSlotMinutes,
	}
}

func setupEngine() (*Engine, *MockDoctorStore, *MockAppointmentStore) {
	doctors := &MockDoctorStore{}
	appointments := &MockAppointmentStore{}
	engine := NewEngine(doctors, appointments, logger.New("debug"))
	return engine, doctors, appointments
}

func TestFreeSlots_FullWorkday(t *testing.T) {
	engine, doctors, appointments := setupEngine()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	doctors.On("GetByID", mock.Anything, "doc-1").Return(workdayDoctor(), nil)
	appointments.On("ScheduledByDoctorAndRange", mock.Anything, "doc-1", day, day.Add(24*time.Hour)).
		Return([]*types.Appointment{}, nil)

	slots, err := engine.FreeSlots(context.Background(), "doc-1", day)
	require.NoError(t, err)
	require.Len(t, slots, 8)
	assert.Equal(t, day.Add(9*time.Hour), slots[0].StartTime)
	assert.Equal(t, day.Add(16*time.Hour), slots[7].StartTime)
	assert.Equal(t, day.Add(17*time.Hour), slots[7].EndTime)
}

func TestFreeSlots_BookedSlotRemoved(t *testing.T) {
	engine, doctors, appointments := setupEngine()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	tenAM := day.Add(10 * time.Hour)

	doctors.On("GetByID", mock.Anything, "doc-1").Return(workdayDoctor(), nil)
	appointments.On("ScheduledByDoctorAndRange", mock.Anything, "doc-1", day, day.Add(24*time.Hour)).
		Return([]*types.Appointment{
			{ID: "apt-1", DoctorID: "doc-1", StartTime: tenAM, Status: types.StatusScheduled},
		}, nil)

	slots, err := engine.FreeSlots(context.Background(), "doc-1", day)
	require.NoError(t, err)
	assert.Len(t, slots, 7)
	for _, slot := range slots {
		assert.False(t, slot.StartTime.Equal(tenAM))
	}
}

func TestFreeSlots_TrailingPartialDropped(t *testing.T) {
	engine, doctors, appointments := setupEngine()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	doctor := workdayDoctor()
	doctor.WorkEnd = 16*60 + 30 // 16:30 leaves no room for a 16:00 hour slot

	doctors.On("GetByID", mock.Anything, "doc-1").Return(doctor, nil)
	appointments.On("ScheduledByDoctorAndRange", mock.Anything, "doc-1", day, day.Add(24*time.Hour)).
		Return([]*types.Appointment{}, nil)

	slots, err := engine.FreeSlots(context.Background(), "doc-1", day)
	require.NoError(t, err)
	require.Len(t, slots, 7)
	assert.Equal(t, day.Add(15*time.Hour), slots[6].StartTime)
}

func TestFreeSlots_UnknownDoctor(t *testing.T) {
	engine, doctors, _ := setupEngine()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	doctors.On("GetByID", mock.Anything, "missing").
		Return(nil, types.NewNotFoundError(types.CodeDoctorNotFound, "doctor not found"))

	_, err := engine.FreeSlots(context.Background(), "missing", day)
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
}

func TestHasSlot(t *testing.T) {
	engine, doctors, appointments := setupEngine()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	tenAM := day.Add(10 * time.Hour)

	doctors.On("GetByID", mock.Anything, "doc-1").Return(workdayDoctor(), nil)
	appointments.On("ScheduledByDoctorAndRange", mock.Anything, "doc-1", day, day.Add(24*time.Hour)).
		Return([]*types.Appointment{
			{ID: "apt-1", DoctorID: "doc-1", StartTime: tenAM, Status: types.StatusScheduled},
		}, nil)

	open, err := engine.HasSlot(context.Background(), "doc-1", tenAM)
	require.NoError(t, err)
	assert.False(t, open)

	open, err = engine.HasSlot(context.Background(), "doc-1", day.Add(11*time.Hour))
	require.NoError(t, err)
	assert.True(t, open)

	// Off-grid starts are never bookable.
	open, err = engine.HasSlot(context.Background(), "doc-1", day.Add(10*time.Hour+30*time.Minute))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestHasSlotExcluding_OwnSlotIsFree(t *testing.T) {
	engine, doctors, appointments := setupEngine()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	tenAM := day.Add(10 * time.Hour)

	doctors.On("GetByID", mock.Anything, "doc-1").Return(workdayDoctor(), nil)
	appointments.On("ScheduledByDoctorAndRange", mock.Anything, "doc-1", day, day.Add(24*time.Hour)).
		Return([]*types.Appointment{
			{ID: "apt-1", DoctorID: "doc-1", StartTime: tenAM, Status: types.StatusScheduled},
		}, nil)

	open, err := engine.HasSlotExcluding(context.Background(), "doc-1", tenAM, "apt-1")
	require.NoError(t, err)
	assert.True(t, open)
}
