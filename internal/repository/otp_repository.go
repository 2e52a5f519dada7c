package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docassist/internal/model"
)

type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Create(otp *model.OTP) error {
	if err := r.db.Create(otp).Error; err != nil {
		return fmt.Errorf("create otp failed: %w", err)
	}
	return nil
}

func (r *OTPRepository) GetByEmail(email string) (*model.OTP, error) {
	var otp model.OTP
	if err := r.db.Where("email = ?", email).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query otp by email failed: %w", err)
	}
	return &otp, nil
}

// GetByID returns the most recently created code for the id. The id is the
// primary key so at most one row matches; ordering mirrors the verify query
// contract all the same.
func (r *OTPRepository) GetByID(id uint) (*model.OTP, error) {
	var otp model.OTP
	if err := r.db.Where("id = ?", id).Order("created_at DESC").First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query otp by id failed: %w", err)
	}
	return &otp, nil
}

func (r *OTPRepository) UpdateCode(id uint, code string) error {
	if err := r.db.Model(&model.OTP{}).Where("id = ?", id).Update("otp", code).Error; err != nil {
		return fmt.Errorf("update otp code failed: %w", err)
	}
	return nil
}
