package notificationerrors

import (
	"net/http"

	"driftpro/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidNotificationType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown notification type",
		http.StatusBadRequest,
	)
	ErrBackwardsTransition = apperror.New(
		apperror.CodeInvalidState,
		"notification status can only move forward",
		http.StatusConflict,
	)
)
