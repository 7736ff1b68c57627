package store

import (
	"context"
	"database/sql"

	"github.com/klougaris/smartclinic/pkg/database"
	"github.com/klougaris/smartclinic/pkg/interfaces"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/types"
)

// Admins persists administrator accounts.
type Admins struct {
	db     *database.DB
	logger *logger.Logger
}

// NewAdmins creates the admin store.
func NewAdmins(db *database.DB, log *logger.Logger) interfaces.AdminStore {
	return &Admins{db: db, logger: log}
}

// GetByUsername retrieves an admin by username.
func (s *Admins) GetByUsername(ctx context.Context, username string) (*types.Admin, error) {
	query := `SELECT id, username, password_hash, created_at FROM admins WHERE username = $1`

	ctx, cancel := withTimeout(ctx, s.db.QueryTimeout())
	defer cancel()

	admin := &types.Admin{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.CodeNotFound, "admin not found")
		}
		s.logger.Errorf("Failed to get admin %s: %v", username, err)
		return nil, storageError("get admin", err)
	}

	return admin, nil
}
