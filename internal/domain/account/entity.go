package account

import "time"

type User struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:40;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:128;uniqueIndex:uq_email;not null" json:"email"`
	DisplayName    string    `gorm:"size:40;not null" json:"display_name"`
	HashedPassword string    `gorm:"size:128;not null" json:"-"`
	IsHost         bool      `gorm:"not null;default:false" json:"is_host"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
