package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docassist/internal/app"
	"docassist/internal/transport/http/response"
)

type AuthHandler struct {
	otpService *app.OTPService
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	UserID string `json:"user_id" binding:"required"`
	OTP    string `json:"otp" binding:"required"`
}

func NewAuthHandler(otpService *app.OTPService) *AuthHandler {
	return &AuthHandler{otpService: otpService}
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.otpService.Issue(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, app.ErrEmailEmpty) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "send otp failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"user_id": strconv.FormatUint(uint64(result.UserID), 10),
		"email":   result.Email,
		"otp":     result.Code,
		"message": result.Message,
	})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	// A non-numeric id can't match any row, so it reads as not found.
	id, err := strconv.ParseUint(req.UserID, 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "OTP not found")
		return
	}

	token, err := h.otpService.Verify(uint(id), req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrOTPNotFound):
			response.Error(c, http.StatusNotFound, "OTP not found")
		case errors.Is(err, app.ErrOTPMismatch):
			response.Error(c, http.StatusBadRequest, "Invalid OTP")
		default:
			response.Error(c, http.StatusInternalServerError, "verify otp failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "OTP verified",
		"token":   token,
	})
}
