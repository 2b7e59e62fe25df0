package services

import (
	"errors"
	"fmt"

	apperrors "github.com/coursekit/quiz-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Course specific errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseAccessDenied = errors.New("access denied to course")

	// Quiz specific errors
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizAccessDenied     = errors.New("access denied to quiz")
	ErrQuizAlreadySubmitted = errors.New("quiz already submitted")
	ErrQuizNotSubmitted     = errors.New("quiz has not been submitted")

	// Template specific errors
	ErrTemplateNotFound       = errors.New("prompt template not found")
	ErrTemplateAccessDenied   = errors.New("access denied to prompt template")
	ErrTemplateNotDeletable   = errors.New("built-in templates cannot be deleted")
	ErrTemplateNotEditable    = errors.New("built-in templates cannot be edited")
	ErrTemplateBadPlaceholder = errors.New("template contains an unknown placeholder")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Is(target error) bool {
	return target == ErrUnauthorized || target == ErrForbidden
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrCourseAccessDenied) ||
		errors.Is(err, ErrQuizAccessDenied) ||
		errors.Is(err, ErrTemplateAccessDenied)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrTemplateBadPlaceholder) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrQuizAlreadySubmitted) ||
		errors.Is(err, ErrQuizNotSubmitted) ||
		errors.Is(err, ErrTemplateNotDeletable) ||
		errors.Is(err, ErrTemplateNotEditable)
}
