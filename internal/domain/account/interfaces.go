package account

import "context"

// UserRepository is the persistence contract used by Service.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, exceptID int64) (bool, error)
	Save(ctx context.Context, u *User) error
}

// TokenIssuer signs access tokens after a successful login.
type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
