package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owning meetings and refresh tokens
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email    string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never exposed
	Nickname string    `json:"nickname" gorm:"type:varchar(20);uniqueIndex;not null"`

	DeletedAt *time.Time `json:"-" gorm:"index"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with an already-hashed password
func NewUser(email, hashedPassword, nickname string) *User {
	return &User{
		ID:       uuid.New(),
		Email:    email,
		Password: hashedPassword,
		Nickname: nickname,
	}
}

// RefreshToken is one issued refresh token. A user may hold several at once;
// logout removes them all.
type RefreshToken struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Token  string    `json:"-" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// NewRefreshToken stores an issued refresh token for a user
func NewRefreshToken(userID uuid.UUID, token string) *RefreshToken {
	return &RefreshToken{
		ID:     uuid.New(),
		UserID: userID,
		Token:  token,
	}
}
