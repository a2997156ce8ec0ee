package user

import (
	"strings"
	"time"
)

type User struct {
	id           int64
	username     string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(username, passwordHash string) User {
	return User{username: strings.TrimSpace(username), passwordHash: passwordHash}
}

func Hydrate(id int64, username, passwordHash string, createdAt, updatedAt time.Time) User {
	return User{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u User) ID() int64            { return u.id }
func (u User) Username() string     { return u.username }
func (u User) PasswordHash() string { return u.passwordHash }
func (u User) CreatedAt() time.Time { return u.createdAt }
func (u User) UpdatedAt() time.Time { return u.updatedAt }
