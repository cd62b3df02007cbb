package users

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Repository is the credential store. Emails are stored normalized and are
// unique; lookups by a missing key return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// PromoteOrCreate atomically sets the admin flag on the user with
	// user.Email, or creates it as an admin when absent.
	PromoteOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error)
}
