// Package guard is the access-control gate in front of every protected
// operation: token verification plus the role and ownership rules.
package guard

import (
	"context"
	"errors"

	"github.com/klougaris/smartclinic/pkg/interfaces"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/monitoring"
	"github.com/klougaris/smartclinic/pkg/types"
)

// Guard verifies tokens through the authority and enforces role and
// ownership. It holds no state and is safe for concurrent use.
type Guard struct {
	authority interfaces.TokenAuthority
	metrics   *monitoring.Collector
	logger    *logger.Logger
}

// New creates an access guard.
func New(authority interfaces.TokenAuthority, metrics *monitoring.Collector, log *logger.Logger) *Guard {
	return &Guard{
		authority: authority,
		metrics:   metrics,
		logger:    log,
	}
}

// Require verifies the token for the expected role. Any authority failure
// is unauthorized and terminal for the request.
func (g *Guard) Require(ctx context.Context, token string, role types.Role) (*types.Principal, error) {
	principal, err := g.authority.Verify(ctx, token, role)
	if err != nil {
		if types.IsUnauthorized(err) {
			g.recordFailure(err)
		}
		return nil, err
	}
	return principal, nil
}

// RequireAny verifies the token against each accepted role in order and
// returns the first principal that resolves. Used for operations open to
// more than one role, like cancelling an appointment.
func (g *Guard) RequireAny(ctx context.Context, token string, roles ...types.Role) (*types.Principal, error) {
	var lastErr error
	for _, role := range roles {
		principal, err := g.authority.Verify(ctx, token, role)
		if err == nil {
			return principal, nil
		}
		if !types.IsUnauthorized(err) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = types.NewUnauthorizedError(types.CodeRoleMismatch, "no role accepted")
	}
	g.recordFailure(lastErr)
	return nil, lastErr
}

// RequireOwner checks that the principal owns the record. Admins pass;
// everyone else must match the owner id exactly.
func (g *Guard) RequireOwner(principal *types.Principal, ownerID string) error {
	if principal.Role == types.RoleAdmin {
		return nil
	}
	if principal.SubjectID != ownerID {
		g.logger.Warnf("Ownership denied: %s %s on record owned by %s", principal.Role, principal.SubjectID, ownerID)
		return types.NewForbiddenError("record belongs to another subject")
	}
	return nil
}

func (g *Guard) recordFailure(err error) {
	reason := "unknown"
	var e *types.Error
	if errors.As(err, &e) {
		reason = e.Code
	}
	g.metrics.RecordAuthFailure(reason)
}
