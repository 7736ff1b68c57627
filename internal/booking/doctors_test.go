package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/klougaris/smartclinic/pkg/types"
)

func TestCreateDoctor(t *testing.T) {
	ledger, doctors, _, _, _ := setupLedger()

	doctors.On("Create", mock.Anything, mock.AnythingOfType("*types.Doctor")).Return(nil)

	created, err := ledger.CreateDoctor(context.Background(), asAdmin(), &types.Doctor{
		Name:      "Alice Hart",
		Specialty: "cardiology",
		Email:     "alice@clinic.test",
		Phone:     "555-0101",
	}, "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.PasswordHash)
	assert.Equal(t, types.DefaultWorkStart, created.WorkStart)
	assert.Equal(t, types.DefaultWorkEnd, created.WorkEnd)
	assert.Equal(t, types.DefaultSlotMinutes, created.SlotMinutes)
}

func TestCreateDoctor_NotAdmin(t *testing.T) {
	ledger, doctors, _, _, _ := setupLedger()

	_, err := ledger.CreateDoctor(context.Background(), asDoctor("doc-1"), &types.Doctor{
		Name:  "Alice Hart",
		Email: "alice@clinic.test",
	}, "s3cret")
	require.Error(t, err)
	assert.True(t, types.IsForbidden(err))
	doctors.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateDoctor_KeepsCredentials(t *testing.T) {
	ledger, doctors, _, _, _ := setupLedger()

	stored := testDoctor()
	stored.PasswordHash = "$2a$10$stored"

	doctors.On("GetByID", mock.Anything, "doc-1").Return(stored, nil)
	doctors.On("Update", mock.Anything, mock.MatchedBy(func(d *types.Doctor) bool {
		return d.PasswordHash == "$2a$10$stored"
	})).Return(nil)

	err := ledger.UpdateDoctor(context.Background(), asAdmin(), &types.Doctor{
		ID:        "doc-1",
		Name:      "Alice Hart-Gray",
		Specialty: "cardiology",
		Email:     "alice@clinic.test",
	})
	assert.NoError(t, err)
}

func TestDeleteDoctor_CancelsFutureAppointments(t *testing.T) {
	ledger, doctors, _, appointments, _ := setupLedger()

	doctors.On("GetByID", mock.Anything, "doc-1").Return(testDoctor(), nil)
	appointments.On("CancelScheduledByDoctor", mock.Anything, "doc-1", mock.AnythingOfType("time.Time")).
		Return(int64(2), nil)
	doctors.On("Delete", mock.Anything, "doc-1").Return(nil)

	err := ledger.DeleteDoctor(context.Background(), asAdmin(), "doc-1")
	require.NoError(t, err)
	appointments.AssertCalled(t, "CancelScheduledByDoctor", mock.Anything, "doc-1", mock.AnythingOfType("time.Time"))
	doctors.AssertCalled(t, "Delete", mock.Anything, "doc-1")
}

func TestDeleteDoctor_NotAdmin(t *testing.T) {
	ledger, doctors, _, _, _ := setupLedger()

	err := ledger.DeleteDoctor(context.Background(), asPatient("pat-1"), "doc-1")
	require.Error(t, err)
	assert.True(t, types.IsForbidden(err))
	doctors.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDoctorDay(t *testing.T) {
	ledger, _, _, appointments, _ := setupLedger()
	dayStart := testDay

	appointments.On("ByDoctorDay", mock.Anything, "doc-1", dayStart, dayStart.Add(24*time.Hour), "cara").
		Return([]*types.Appointment{
			{ID: "apt-1", DoctorID: "doc-1", PatientID: "pat-1", Status: types.StatusScheduled},
		}, nil)

	got, err := ledger.DoctorDay(context.Background(), asDoctor("doc-1"), "doc-1", testDay, "cara")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDoctorDay_OtherDoctor(t *testing.T) {
	ledger, _, _, _, _ := setupLedger()

	_, err := ledger.DoctorDay(context.Background(), asDoctor("doc-2"), "doc-1", testDay, "")
	require.Error(t, err)
	assert.True(t, types.IsForbidden(err))
}
