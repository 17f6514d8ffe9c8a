package service

import "errors"

var (
	ErrMunicipalityNotFound = errors.New("municipality not found")
	ErrAlertNotFound        = errors.New("alert not found")
	ErrFeedbackNotFound     = errors.New("feedback not found")
	ErrMetricNotFound       = errors.New("metric not found")
	ErrWizardNotFound       = errors.New("poll wizard not found or expired")
	ErrInvalidStatus        = errors.New("invalid feedback status transition")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidDepartment    = errors.New("invalid department")
	ErrInvalidSubmission    = errors.New("invalid data submission")
	ErrInvalidToken         = errors.New("invalid or expired token")
)
