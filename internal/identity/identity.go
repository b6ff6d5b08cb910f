// Package identity resolves the customer an order belongs to, provisioning
// an account for first-time guests.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/models"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ReplacePendingPassword(ctx context.Context, id, oldHash, newHash string) (bool, error)
}

type Hasher interface {
	Hash(password string) (string, error)
}

type Guest struct {
	Email       string
	DisplayName string
	Phone       string
}

type Identity struct {
	UserID string
	Email  string
	Name   string

	// OneTimePassword is set when this call created the account, or when an
	// earlier guest checkout created it but its password never reached the mailer.
	OneTimePassword string
}

type Resolver struct {
	Users  UserStore
	Hasher Hasher
	Rand   io.Reader
}

func (r *Resolver) Resolve(ctx context.Context, s *domain.Session, g *Guest) (*Identity, error) {
	if s.Authenticated() {
		return &Identity{UserID: s.UserID, Email: s.Email, Name: s.Name}, nil
	}

	if g == nil {
		return nil, domain.ErrMissingGuest
	}
	email := strings.ToLower(strings.TrimSpace(g.Email))
	name := strings.TrimSpace(g.DisplayName)
	if email == "" || name == "" {
		return nil, domain.ErrMissingGuest
	}

	existing, err := r.Users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.CredentialsPending && existing.PasswordHash != nil {
			return r.reissue(ctx, existing, name)
		}
		return fromUser(existing, name), nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("lookup guest: %w", err)
	}

	password, hashed, err := r.newPassword()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:              email,
		Name:               &name,
		PasswordHash:       &hashed,
		Role:               models.RoleCustomer,
		CredentialsPending: true,
	}
	if phone := strings.TrimSpace(g.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := r.Users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("create guest: %w", err)
		}
		// Lost the race for this email; use the winner's row.
		winner, err := r.Users.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("lookup guest after conflict: %w", err)
		}
		return fromUser(winner, name), nil
	}

	return &Identity{
		UserID:          user.ID,
		Email:           email,
		Name:            name,
		OneTimePassword: password,
	}, nil
}

// reissue replaces the password of a pending guest account. Only one of
// several concurrent callers wins the swap; the others report no password.
func (r *Resolver) reissue(ctx context.Context, u *models.User, name string) (*Identity, error) {
	password, hashed, err := r.newPassword()
	if err != nil {
		return nil, err
	}
	swapped, err := r.Users.ReplacePendingPassword(ctx, u.ID, *u.PasswordHash, hashed)
	if err != nil {
		return nil, fmt.Errorf("reissue guest password: %w", err)
	}
	id := fromUser(u, name)
	if swapped {
		id.OneTimePassword = password
	}
	return id, nil
}

func (r *Resolver) newPassword() (password, hashed string, err error) {
	password, err = r.oneTimePassword()
	if err != nil {
		return "", "", err
	}
	hashed, err = r.Hasher.Hash(password)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}
	return password, hashed, nil
}

// oneTimePassword returns 8 uppercase hex characters.
func (r *Resolver) oneTimePassword() (string, error) {
	src := r.Rand
	if src == nil {
		src = rand.Reader
	}
	var b [4]byte
	if _, err := io.ReadFull(src, b[:]); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b[:])), nil
}

func fromUser(u *models.User, fallbackName string) *Identity {
	name := fallbackName
	if u.Name != nil && *u.Name != "" {
		name = *u.Name
	}
	return &Identity{UserID: u.ID, Email: u.Email, Name: name}
}
