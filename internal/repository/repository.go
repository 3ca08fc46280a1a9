package repository

import (
	"github.com/chativo/backend/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	ResetCode ResetCodeRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		ResetCode: NewResetCodeRepository(db),
	}
}
