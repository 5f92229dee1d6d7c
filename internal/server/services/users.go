// Package services contains server-side business logic. This file implements
// UserService: account registration, login with get-or-create session
// tokens, token authentication, logout and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/dbx"
	"github.com/publiceyeusa/publiceye/internal/server/auth"
	"github.com/publiceyeusa/publiceye/internal/server/config"
	"github.com/publiceyeusa/publiceye/internal/server/models"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// Session is what a successful register or login hands back to the client.
type Session struct {
	Email string
	Token string
}

type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	hashCost      int
	now           func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		hashCost:      bcrypt.DefaultCost,
		now:           time.Now,
	}
}

// Register creates a regular account, its empty profile and its first token.
func (s *UserService) Register(ctx context.Context, email, password string) (*Session, error) {
	return s.register(ctx, email, password, false)
}

// RegisterAdmin is Register for staff accounts.
func (s *UserService) RegisterAdmin(ctx context.Context, email, password string) (*Session, error) {
	return s.register(ctx, email, password, true)
}

func (s *UserService) register(ctx context.Context, email, password string, staff bool) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fieldError("password", "This field may not be blank.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fieldError("password", "Ensure this field has no more than 72 bytes.")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var session *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			IsStaff:      staff,
			IsSuperuser:  staff,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return fieldError("email", "User with this email already exists.")
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		if _, err := s.repomanager.Profiles(tx).Create(ctx, user.ID); err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}

		token, err := s.issueToken(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		session = &Session{Email: user.Email, Token: token.Key}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Login verifies the credentials and returns the user's current token,
// issuing a new one when none exists or the stored one has expired.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, common.ErrorInvalidCredentials
	}
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorInvalidCredentials
	}

	// The user row lock serializes concurrent logins of one account, so the
	// lookup and any replacement see each other's committed token.
	var session *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).LockByID(ctx, user.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorInvalidCredentials
			}
			return fmt.Errorf("error locking user: %w", err)
		}

		repo := s.repomanager.Tokens(tx)
		current, err := repo.FindByUser(ctx, user.ID)
		switch {
		case err == nil && !current.Expired(s.now()):
			session = &Session{Email: user.Email, Token: current.Key}
			return nil
		case err == nil:
			if err := repo.DeleteByUser(ctx, user.ID); err != nil {
				return fmt.Errorf("error deleting token: %w", err)
			}
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error searching token: %w", err)
		}

		token, err := s.issueToken(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		session = &Session{Email: user.Email, Token: token.Key}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Authenticate resolves a presented token to its user. Any token that does
// not verify, has been revoked or has expired yields common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, key string) (*models.User, error) {
	claims, err := auth.ParseToken(key, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	token, err := s.repomanager.Tokens(s.db).FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: token revoked", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("error searching token: %w", err)
	}
	if token.UserID != claims.UserID || token.Expired(s.now()) {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// Logout revokes the user's token.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repomanager.Tokens(s.db).DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	return nil
}

// DeleteUser removes the account. Profile and token go with it.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

func (s *UserService) issueToken(ctx context.Context, tx dbx.DBTX, userID string) (*models.Token, error) {
	now := s.now()
	token := &models.Token{ID: uuid.NewString(), UserID: userID}

	key, err := auth.GenerateToken(userID, token.ID, s.jwtSecret, s.tokenValidity, now)
	if err != nil {
		return nil, common.ErrorInternal
	}
	token.Key = key
	if s.tokenValidity > 0 {
		exp := now.Add(s.tokenValidity)
		token.ExpiresAt = &exp
	}

	if err := s.repomanager.Tokens(tx).Create(ctx, token); err != nil {
		return nil, fmt.Errorf("error creating token: %w", err)
	}
	return token, nil
}

// normalizeEmail trims the address, checks that it is a bare address and
// lowercases the domain part.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fieldError("email", "This field may not be blank.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fieldError("email", "Enter a valid email address.")
	}
	at := strings.LastIndex(email, "@")
	return email[:at] + "@" + strings.ToLower(email[at+1:]), nil
}
