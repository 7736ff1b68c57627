package booking

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/klougaris/smartclinic/pkg/types"
)

func scheduledAppointment() *types.Appointment {
	return &types.Appointment{
		ID:        "apt-1",
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		Status:    types.StatusScheduled,
	}
}

func TestWritePrescription(t *testing.T) {
	ledger, _, _, appointments, prescriptions := setupLedger()

	appointments.On("GetByID", mock.Anything, "apt-1").Return(scheduledAppointment(), nil)
	prescriptions.On("GetByAppointment", mock.Anything, "apt-1").
		Return(nil, types.NewNotFoundError(types.CodeRxNotFound, "no prescription for appointment"))
	prescriptions.On("Create", mock.Anything, mock.AnythingOfType("*types.Prescription")).Return(nil)

	created, err := ledger.WritePrescription(context.Background(), asDoctor("doc-1"), &types.Prescription{
		AppointmentID: "apt-1",
		PatientName:   "Cara Voss",
		Medication:    "amoxicillin",
		Dosage:        "500mg",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "apt-1", created.AppointmentID)
}

func TestWritePrescription_SecondWriteConflicts(t *testing.T) {
	ledger, _, _, appointments, prescriptions := setupLedger()

	appointments.On("GetByID", mock.Anything, "apt-1").Return(scheduledAppointment(), nil)
	prescriptions.On("GetByAppointment", mock.Anything, "apt-1").
		Return(&types.Prescription{ID: "rx-1", AppointmentID: "apt-1"}, nil)

	_, err := ledger.WritePrescription(context.Background(), asDoctor("doc-1"), &types.Prescription{
		AppointmentID: "apt-1",
		Medication:    "amoxicillin",
		Dosage:        "500mg",
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindConflict))
	prescriptions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWritePrescription_NotAssignedDoctor(t *testing.T) {
	ledger, _, _, appointments, prescriptions := setupLedger()

	appointments.On("GetByID", mock.Anything, "apt-1").Return(scheduledAppointment(), nil)

	_, err := ledger.WritePrescription(context.Background(), asDoctor("doc-2"), &types.Prescription{
		AppointmentID: "apt-1",
		Medication:    "amoxicillin",
		Dosage:        "500mg",
	})
	require.Error(t, err)
	assert.True(t, types.IsForbidden(err))
	prescriptions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWritePrescription_PatientCannotWrite(t *testing.T) {
	ledger, _, _, appointments, _ := setupLedger()

	_, err := ledger.WritePrescription(context.Background(), asPatient("pat-1"), &types.Prescription{
		AppointmentID: "apt-1",
		Medication:    "amoxicillin",
		Dosage:        "500mg",
	})
	require.Error(t, err)
	assert.True(t, types.IsForbidden(err))
	appointments.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestWritePrescription_MissingFields(t *testing.T) {
	ledger, _, _, _, _ := setupLedger()

	_, err := ledger.WritePrescription(context.Background(), asDoctor("doc-1"), &types.Prescription{
		AppointmentID: "apt-1",
		Medication:    "amoxicillin",
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindValidation))
}

func TestWritePrescription_NotesTooLong(t *testing.T) {
	ledger, _, _, _, _ := setupLedger()

	_, err := ledger.WritePrescription(context.Background(), asDoctor("doc-1"), &types.Prescription{
		AppointmentID: "apt-1",
		Medication:    "amoxicillin",
		Dosage:        "500mg",
		DoctorNotes:   strings.Repeat("x", 201),
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindValidation))
}

func TestWritePrescription_FillsPatientName(t *testing.T) {
	ledger, _, patients, appointments, prescriptions := setupLedger()

	appointments.On("GetByID", mock.Anything, "apt-1").Return(scheduledAppointment(), nil)
	patients.On("GetByID", mock.Anything, "pat-1").Return(&types.Patient{ID: "pat-1", Name: "Cara Voss"}, nil)
	prescriptions.On("GetByAppointment", mock.Anything, "apt-1").
		Return(nil, types.NewNotFoundError(types.CodeRxNotFound, "no prescription for appointment"))
	prescriptions.On("Create", mock.Anything, mock.MatchedBy(func(rx *types.Prescription) bool {
		return rx.PatientName == "Cara Voss"
	})).Return(nil)

	created, err := ledger.WritePrescription(context.Background(), asDoctor("doc-1"), &types.Prescription{
		AppointmentID: "apt-1",
		Medication:    "amoxicillin",
		Dosage:        "500mg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Cara Voss", created.PatientName)
}

func TestPrescriptionByAppointment_OwningPatient(t *testing.T) {
	ledger, _, _, appointments, prescriptions := setupLedger()

	appointments.On("GetByID", mock.Anything, "apt-1").Return(scheduledAppointment(), nil)
	prescriptions.On("GetByAppointment", mock.Anything, "apt-1").
		Return(&types.Prescription{ID: "rx-1", AppointmentID: "apt-1", Medication: "amoxicillin"}, nil)

	rx, err := ledger.PrescriptionByAppointment(context.Background(), asPatient("pat-1"), "apt-1")
	require.NoError(t, err)
	assert.Equal(t, "rx-1", rx.ID)
}

func TestPrescriptionByAppointment_OtherPatient(t *testing.T) {
	ledger, _, _, appointments, prescriptions := setupLedger()

	appointments.On("GetByID", mock.Anything, "apt-1").Return(scheduledAppointment(), nil)

	_, err := ledger.PrescriptionByAppointment(context.Background(), asPatient("pat-2"), "apt-1")
	require.Error(t, err)
	assert.True(t, types.IsForbidden(err))
	prescriptions.AssertNotCalled(t, "GetByAppointment", mock.Anything, mock.Anything)
}

func TestPrescriptionByAppointment_NoneWritten(t *testing.T) {
	ledger, _, _, appointments, prescriptions := setupLedger()

	appointments.On("GetByID", mock.Anything, "apt-1").Return(scheduledAppointment(), nil)
	prescriptions.On("GetByAppointment", mock.Anything, "apt-1").
		Return(nil, types.NewNotFoundError(types.CodeRxNotFound, "no prescription for appointment"))

	_, err := ledger.PrescriptionByAppointment(context.Background(), asDoctor("doc-1"), "apt-1")
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
}
