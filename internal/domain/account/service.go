package account

import (
	"context"
	"errors"
	"strings"

	"hostcalendar/internal/database"
	"hostcalendar/internal/pkg/jwt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	displayNameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	displayNameLength   = 8
)

type Service struct {
	users  UserRepository
	tokens TokenIssuer
}

func NewService(users UserRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	if req.Password != req.PasswordAgain {
		return nil, ErrPasswordMismatch
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatedUsername
	}
	exists, err = s.users.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatedEmail
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName, err = gonanoid.Generate(displayNameAlphabet, displayNameLength)
		if err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:       username,
		Email:          email,
		DisplayName:    displayName,
		HashedPassword: string(hash),
		IsHost:         req.IsHost,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			// lost a race with a concurrent signup
			if taken, _ := s.users.ExistsByUsername(ctx, username); taken {
				return nil, ErrDuplicatedUsername
			}
			return nil, ErrDuplicatedEmail
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, *User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(req.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID, jwt.RoleFor(u.IsHost))
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *Service) Me(ctx context.Context, userID int64) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateMe applies only the provided fields.
func (s *Service) UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*User, error) {
	if req.empty() {
		return nil, ErrNothingToUpdate
	}
	if req.Password != nil && (req.PasswordAgain == nil || *req.Password != *req.PasswordAgain) {
		return nil, ErrPasswordMismatch
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := s.users.ExistsByEmail(ctx, email, u.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicatedEmail
		}
		u.Email = email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.HashedPassword = string(hash)
	}

	if err := s.users.Save(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicatedEmail
		}
		return nil, err
	}
	return u, nil
}
