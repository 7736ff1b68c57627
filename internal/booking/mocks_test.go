package booking

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

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

// MockPatientStore is a mock implementation of PatientStore.
type MockPatientStore struct {
	mock.Mock
}

func (m *MockPatientStore) Create(ctx context.Context, patient *types.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientStore) GetByID(ctx context.Context, id string) (*types.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Patient), args.Error(1)
}

func (m *MockPatientStore) GetByEmail(ctx context.Context, email string) (*types.Patient, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Patient), args.Error(1)
}

func (m *MockPatientStore) GetByEmailOrPhone(ctx context.Context, email, phone string) (*types.Patient, error) {
	args := m.Called(ctx, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Patient), args.Error(1)
}

func (m *MockPatientStore) Update(ctx context.Context, patient *types.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
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

// MockPrescriptionStore is a mock implementation of PrescriptionStore.
type MockPrescriptionStore struct {
	mock.Mock
}

func (m *MockPrescriptionStore) Create(ctx context.Context, rx *types.Prescription) error {
	args := m.Called(ctx, rx)
	return args.Error(0)
}

func (m *MockPrescriptionStore) GetByAppointment(ctx context.Context, appointmentID string) (*types.Prescription, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Prescription), args.Error(1)
}
