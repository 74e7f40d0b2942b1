package model

import "time"

// User is the locally fabricated session identity. Login performs no
// credential check; the record only attributes results to a display name.
type User struct {
	ID         uint      `gorm:"primarykey" json:"id,omitempty"`
	FullName   string    `json:"fullName" gorm:"not null"`
	Email      string    `json:"email" gorm:"not null"`
	IsLoggedIn bool      `json:"isLoggedIn"`
	CreatedAt  time.Time `json:"-"`
}
