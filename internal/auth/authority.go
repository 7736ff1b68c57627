// Package auth implements the token authority: issuing and verifying the
// bearer credentials that bind a caller to a (role, owner id) pair.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/klougaris/smartclinic/pkg/config"
	"github.com/klougaris/smartclinic/pkg/interfaces"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/types"
)

// Authority issues and verifies tokens. Tokens carry only registered
// claims: the subject is the caller's login identifier (email, or
// username for admins); the role is resolved at verification time
// against the identity store, never trusted from the token alone.
// Verification is read-only and
// safely concurrent; the signing key is loaded once at construction.
type Authority struct {
	secret   []byte
	tokenTTL time.Duration
	issuer   string
	doctors  interfaces.DoctorStore
	patients interfaces.PatientStore
	admins   interfaces.AdminStore
	logger   *logger.Logger
}

// NewAuthority creates a token authority backed by the identity stores.
func NewAuthority(cfg *config.JWTConfig, doctors interfaces.DoctorStore, patients interfaces.PatientStore, admins interfaces.AdminStore, log *logger.Logger) *Authority {
	return &Authority{
		secret:   []byte(cfg.SecretKey),
		tokenTTL: time.Duration(cfg.TokenTTL) * time.Second,
		issuer:   cfg.Issuer,
		doctors:  doctors,
		patients: patients,
		admins:   admins,
		logger:   log,
	}
}

// Issue produces a signed token for the subject identifier. No side
// effects beyond signing.
func (a *Authority) Issue(subject string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry, then resolves the
// subject against the identity collaborator for the expected role. This
// resolution is the one place auth touches external storage.
func (a *Authority) Verify(ctx context.Context, tokenString string, role types.Role) (*types.Principal, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, types.NewUnauthorizedError(types.CodeTokenExpired, "token expired")
		}
		return nil, types.NewUnauthorizedError(types.CodeTokenMalformed, "token malformed")
	}

	if !token.Valid || claims.Subject == "" {
		return nil, types.NewUnauthorizedError(types.CodeTokenMalformed, "token malformed")
	}

	subjectID, err := a.resolveSubject(ctx, claims.Subject, role)
	if err != nil {
		if types.IsNotFound(err) {
			return nil, types.NewUnauthorizedError(types.CodeRoleMismatch,
				fmt.Sprintf("subject does not belong to role %s", role))
		}
		return nil, err
	}

	return &types.Principal{Role: role, SubjectID: subjectID}, nil
}

// resolveSubject maps a login identifier onto the owner id for the role's
// population.
func (a *Authority) resolveSubject(ctx context.Context, subject string, role types.Role) (string, error) {
	switch role {
	case types.RoleAdmin:
		admin, err := a.admins.GetByUsername(ctx, subject)
		if err != nil {
			return "", err
		}
		return admin.ID, nil
	case types.RoleDoctor:
		doctor, err := a.doctors.GetByEmail(ctx, subject)
		if err != nil {
			return "", err
		}
		return doctor.ID, nil
	case types.RolePatient:
		patient, err := a.patients.GetByEmail(ctx, subject)
		if err != nil {
			return "", err
		}
		return patient.ID, nil
	default:
		return "", types.NewUnauthorizedError(types.CodeRoleMismatch, "unknown role")
	}
}
