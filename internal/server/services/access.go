package services

import (
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// RequireRole is the authorization gate. It has no side effects.
func RequireRole(identity models.Identity, role models.Role) error {
	if !identity.HasRole(role) {
		return common.ErrForbidden
	}
	return nil
}
