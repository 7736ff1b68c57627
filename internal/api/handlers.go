package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/klougaris/smartclinic/pkg/types"
)

const dateLayout = "2006-01-02"

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// adminLoginHandler authenticates an admin by username and password.
func (s *Server) adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	token, err := s.authority.LoginAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// doctorLoginHandler authenticates a doctor by email and password.
func (s *Server) doctorLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	token, err := s.authority.LoginDoctor(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// patientLoginHandler authenticates a patient by email and password.
func (s *Server) patientLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	token, err := s.authority.LoginPatient(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// searchDoctorsHandler runs the doctor-directory search. The directory is
// readable without a token.
func (s *Server) searchDoctorsHandler(w http.ResponseWriter, r *http.Request) {
	query := &types.DoctorQuery{
		Name:      r.URL.Query().Get("name"),
		Specialty: r.URL.Query().Get("specialty"),
		Period:    types.DayPeriod(r.URL.Query().Get("period")),
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			s.badRequest(w, err)
			return
		}
		query.Date = parsed
	}

	result, err := s.filter.Doctors(r.Context(), query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// availabilityHandler returns a doctor's free slots for a day. Any
// authenticated caller may look.
func (s *Server) availabilityHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.guard.RequireAny(r.Context(), bearerToken(r), types.RolePatient, types.RoleDoctor, types.RoleAdmin); err != nil {
		s.writeError(w, err)
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			s.badRequest(w, err)
			return
		}
		day = parsed
	}

	slots, err := s.engine.FreeSlots(r.Context(), mux.Vars(r)["id"], day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"slots": slots,
		"count": len(slots),
	})
}

// doctorDayHandler returns a doctor's daily calendar.
func (s *Server) doctorDayHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.RequireAny(r.Context(), bearerToken(r), types.RoleDoctor, types.RoleAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			s.badRequest(w, err)
			return
		}
		day = parsed
	}

	appointments, err := s.ledger.DoctorDay(r.Context(), principal, mux.Vars(r)["id"], day, r.URL.Query().Get("patient_name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

type doctorRequest struct {
	types.Doctor
	Password string `json:"password"`
}

// createDoctorHandler registers a doctor. Admin only.
func (s *Server) createDoctorHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RoleAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req doctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	doctor, err := s.ledger.CreateDoctor(r.Context(), principal, &req.Doctor, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doctor.PasswordHash = ""
	s.writeJSON(w, http.StatusCreated, doctor)
}

// updateDoctorHandler rewrites a doctor profile. Admin only.
func (s *Server) updateDoctorHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RoleAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var doctor types.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		s.badRequest(w, err)
		return
	}
	doctor.ID = mux.Vars(r)["id"]

	if err := s.ledger.UpdateDoctor(r.Context(), principal, &doctor); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "doctor updated"})
}

// deleteDoctorHandler removes a doctor and cancels their future
// appointments. Admin only.
func (s *Server) deleteDoctorHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RoleAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.ledger.DeleteDoctor(r.Context(), principal, mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "doctor deleted"})
}

type patientRequest struct {
	types.Patient
	Password string `json:"password"`
}

// registerPatientHandler creates a patient account. Open endpoint.
func (s *Server) registerPatientHandler(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	patient, err := s.ledger.RegisterPatient(r.Context(), &req.Patient, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	patient.PasswordHash = ""
	s.writeJSON(w, http.StatusCreated, patient)
}

// getPatientHandler returns the caller's own patient record.
func (s *Server) getPatientHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RolePatient)
	if err != nil {
		s.writeError(w, err)
		return
	}

	patient, err := s.ledger.GetPatient(r.Context(), principal, mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, patient)
}

// updatePatientHandler rewrites the caller's own patient profile.
func (s *Server) updatePatientHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RolePatient)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var patient types.Patient
	if err := json.NewDecoder(r.Body).Decode(&patient); err != nil {
		s.badRequest(w, err)
		return
	}
	patient.ID = mux.Vars(r)["id"]

	if err := s.ledger.UpdatePatient(r.Context(), principal, &patient); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "patient updated"})
}

// patientAppointmentsHandler searches the caller's own appointments.
func (s *Server) patientAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RolePatient)
	if err != nil {
		s.writeError(w, err)
		return
	}

	patientID := mux.Vars(r)["id"]
	if err := s.guard.RequireOwner(principal, patientID); err != nil {
		s.writeError(w, err)
		return
	}

	query := &types.AppointmentQuery{
		Condition:  types.TemporalCondition(r.URL.Query().Get("condition")),
		DoctorName: r.URL.Query().Get("doctor_name"),
	}

	result, err := s.filter.PatientAppointments(r.Context(), patientID, query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type bookRequest struct {
	DoctorID  string    `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
}

// bookHandler books a slot for the calling patient.
func (s *Server) bookHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RolePatient)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	apt, err := s.ledger.Book(r.Context(), req.DoctorID, principal.SubjectID, req.StartTime)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, apt)
}

type rescheduleRequest struct {
	StartTime time.Time `json:"start_time"`
}

// rescheduleHandler moves the caller's appointment to a new slot.
func (s *Server) rescheduleHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RolePatient)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	if err := s.ledger.Reschedule(r.Context(), mux.Vars(r)["id"], req.StartTime, principal); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "appointment rescheduled"})
}

// cancelHandler cancels an appointment. Open to the owning patient, the
// assigned doctor and admins; ownership is enforced in the ledger.
func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.RequireAny(r.Context(), bearerToken(r), types.RolePatient, types.RoleDoctor, types.RoleAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.ledger.Cancel(r.Context(), mux.Vars(r)["id"], principal); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "appointment cancelled"})
}

// completeHandler marks an appointment completed.
func (s *Server) completeHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.RequireAny(r.Context(), bearerToken(r), types.RoleDoctor, types.RoleAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.ledger.Complete(r.Context(), mux.Vars(r)["id"], principal); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "appointment completed"})
}

type prescriptionRequest struct {
	PatientName string `json:"patient_name"`
	Medication  string `json:"medication"`
	Dosage      string `json:"dosage"`
	DoctorNotes string `json:"doctor_notes"`
}

// writePrescriptionHandler records the prescription for an appointment.
func (s *Server) writePrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.Require(r.Context(), bearerToken(r), types.RoleDoctor)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req prescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	rx := &types.Prescription{
		AppointmentID: mux.Vars(r)["id"],
		PatientName:   req.PatientName,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		DoctorNotes:   req.DoctorNotes,
	}

	created, err := s.ledger.WritePrescription(r.Context(), principal, rx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// getPrescriptionHandler returns the prescription for an appointment.
func (s *Server) getPrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.guard.RequireAny(r.Context(), bearerToken(r), types.RoleDoctor, types.RolePatient, types.RoleAdmin)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rx, err := s.ledger.PrescriptionByAppointment(r.Context(), principal, mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rx)
}
