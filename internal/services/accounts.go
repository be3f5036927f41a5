package services

import (
	"errors"
	"log"

	"github.com/bytemc-uz/bytemc-backend/internal/models"
	"github.com/bytemc-uz/bytemc-backend/internal/store"
	"github.com/bytemc-uz/bytemc-backend/pkg/utils"
)

// ErrInvalidCredentials is deliberately the same for unknown usernames and
// wrong passwords so the login endpoint cannot be used for enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Accounts manages the staff accounts stored in the local document.
type Accounts struct {
	Store *store.Store
}

// SeedDefaultAdmin creates the initial admin account when no accounts exist.
func (a *Accounts) SeedDefaultAdmin(username, password string) error {
	return a.Store.Update(func(doc *models.Document) error {
		if len(doc.Admins) > 0 {
			return nil
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		doc.Admins = append(doc.Admins, models.Admin{
			ID:           doc.NextID(),
			Username:     username,
			Role:         models.RoleAdmin,
			PasswordHash: hash,
		})
		log.Printf("Seeded default admin: %s", username)
		return nil
	})
}

// EnsureAccount reconciles one configured account: creates it when absent,
// syncs its role, and rotates the password hash when the configured password
// no longer matches. Empty username is a no-op.
func (a *Accounts) EnsureAccount(username, role, password string) error {
	if username == "" {
		return nil
	}
	return a.Store.Update(func(doc *models.Document) error {
		for i := range doc.Admins {
			if doc.Admins[i].Username != username {
				continue
			}
			if role != "" && doc.Admins[i].Role != role {
				doc.Admins[i].Role = role
			}
			if password != "" {
				ok, _ := utils.VerifyPassword(password, doc.Admins[i].PasswordHash)
				if !ok {
					hash, err := utils.HashPassword(password)
					if err != nil {
						return err
					}
					doc.Admins[i].PasswordHash = hash
					log.Printf("Updated password for %s: %s", role, username)
				}
			}
			return nil
		}

		if password == "" {
			password = "change-me"
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		doc.Admins = append(doc.Admins, models.Admin{
			ID:           doc.NextID(),
			Username:     username,
			Role:         role,
			PasswordHash: hash,
		})
		log.Printf("Seeded %s: %s", role, username)
		return nil
	})
}

// Authenticate validates a username/password pair.
func (a *Accounts) Authenticate(username, password string) (*models.Admin, error) {
	doc, err := a.Store.Read()
	if err != nil {
		return nil, err
	}
	for i := range doc.Admins {
		if doc.Admins[i].Username != username {
			continue
		}
		ok, err := utils.VerifyPassword(password, doc.Admins[i].PasswordHash)
		if err != nil || !ok {
			return nil, ErrInvalidCredentials
		}
		admin := doc.Admins[i]
		if admin.Role == "" {
			admin.Role = models.RoleAdmin
		}
		return &admin, nil
	}
	return nil, ErrInvalidCredentials
}
