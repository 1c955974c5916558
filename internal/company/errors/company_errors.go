package companyerrors

import (
	"net/http"

	"driftpro/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrMissingOrgNumber = apperror.New(
		apperror.CodeInvalidState,
		"company has no organization number to enrich from",
		http.StatusConflict,
	)
)
