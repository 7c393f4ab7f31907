package account

import "time"

type SignupRequest struct {
	Username      string `json:"username" validate:"required,min=4,max=40"`
	Email         string `json:"email" validate:"required,email,max=128"`
	DisplayName   string `json:"display_name" validate:"omitempty,min=4,max=40"`
	Password      string `json:"password" validate:"required,min=8,max=128"`
	PasswordAgain string `json:"password_again" validate:"required"`
	IsHost        bool   `json:"is_host"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateMeRequest struct {
	DisplayName   *string `json:"display_name" validate:"omitempty,min=4,max=40"`
	Email         *string `json:"email" validate:"omitempty,email,max=128"`
	Password      *string `json:"password" validate:"omitempty,min=8,max=128"`
	PasswordAgain *string `json:"password_again"`
}

func (r UpdateMeRequest) empty() bool {
	return r.DisplayName == nil && r.Email == nil && r.Password == nil
}

// UserOut is the public projection of a user.
type UserOut struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
}

type UserDetailOut struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	IsHost      bool      `json:"is_host"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserOut `json:"user"`
}

func ToUserOut(u *User) UserOut {
	return UserOut{Username: u.Username, DisplayName: u.DisplayName, IsHost: u.IsHost}
}

func ToUserDetailOut(u *User) UserDetailOut {
	return UserDetailOut{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		IsHost:      u.IsHost,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
