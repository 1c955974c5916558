package deviationerrors

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
	ErrDeviationNotFound = apperror.New(
		apperror.CodeNotFound,
		"deviation not found",
		http.StatusNotFound,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"category must be safety, quality, equipment, process, or other",
		http.StatusBadRequest,
	)
	ErrInvalidPriority = apperror.New(
		apperror.CodeInvalidInput,
		"priority must be low, medium, high, or critical",
		http.StatusBadRequest,
	)
	ErrInvalidAssignee = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignee id",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"deviation status transition not allowed",
		http.StatusConflict,
	)
	ErrDeviationClosed = apperror.New(
		apperror.CodeInvalidState,
		"resolved or rejected deviations cannot be edited",
		http.StatusConflict,
	)
)
