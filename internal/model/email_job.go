package model

// OTPEmailJob is the queue payload for asynchronous OTP delivery.
type OTPEmailJob struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
