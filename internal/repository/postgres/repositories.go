package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		SyncEvent: NewSyncEventRepository(db, logger),
	}
}
