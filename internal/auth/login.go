package auth

import (
	"context"

	"github.com/klougaris/smartclinic/pkg/types"
)

// badCredentials is returned for any failed login. The same answer for an
// unknown identifier and a wrong password keeps account probing blind.
func badCredentials() error {
	return types.NewUnauthorizedError(types.CodeBadCredentials, "invalid identifier or password")
}

// LoginAdmin validates admin credentials and issues a token.
func (a *Authority) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	admin, err := a.admins.GetByUsername(ctx, username)
	if err != nil {
		if types.IsNotFound(err) {
			return "", badCredentials()
		}
		return "", err
	}

	if !CheckPassword(admin.PasswordHash, password) {
		a.logger.Warnf("Failed admin login for %s", username)
		return "", badCredentials()
	}

	return a.Issue(admin.Username)
}

// LoginDoctor validates doctor credentials and issues a token.
func (a *Authority) LoginDoctor(ctx context.Context, email, password string) (string, error) {
	doctor, err := a.doctors.GetByEmail(ctx, email)
	if err != nil {
		if types.IsNotFound(err) {
			return "", badCredentials()
		}
		return "", err
	}

	if !CheckPassword(doctor.PasswordHash, password) {
		a.logger.Warnf("Failed doctor login for %s", email)
		return "", badCredentials()
	}

	return a.Issue(doctor.Email)
}

// LoginPatient validates patient credentials and issues a token.
func (a *Authority) LoginPatient(ctx context.Context, email, password string) (string, error) {
	patient, err := a.patients.GetByEmail(ctx, email)
	if err != nil {
		if types.IsNotFound(err) {
			return "", badCredentials()
		}
		return "", err
	}

	if !CheckPassword(patient.PasswordHash, password) {
		a.logger.Warnf("Failed patient login for %s", email)
		return "", badCredentials()
	}

	return a.Issue(patient.Email)
}
