package model

import "time"

// OTP is one verification code per email address. Repeat issuance for the
// same email overwrites the code in place, so the row id is stable for the
// lifetime of the address.
type OTP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	Code      string    `gorm:"column:otp;size:16;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (OTP) TableName() string {
	return "otps"
}
