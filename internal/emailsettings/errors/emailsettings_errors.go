package emailsettingserrors

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
	ErrEmailDisabled = apperror.New(
		apperror.CodeInvalidState,
		"email sending is disabled for this company",
		http.StatusConflict,
	)
	ErrHourlyBudgetExceeded = apperror.New(
		apperror.CodeRateLimited,
		"hourly email budget exhausted",
		http.StatusTooManyRequests,
	)
	ErrSendFailed = apperror.New(
		apperror.CodeUpstreamError,
		"email could not be delivered",
		http.StatusBadGateway,
	)
)
