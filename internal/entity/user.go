package entity

import "time"

// User can obtain tokens that authorize catalog writes.
type User struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"userName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
