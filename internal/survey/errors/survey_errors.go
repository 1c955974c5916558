package surveyerrors

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
	ErrSurveyNotFound = apperror.New(
		apperror.CodeNotFound,
		"survey not found",
		http.StatusNotFound,
	)
	ErrInvalidQuestion = apperror.New(
		apperror.CodeInvalidInput,
		"invalid survey question",
		http.StatusBadRequest,
	)
	ErrSurveyNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only draft surveys can be edited",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"survey status transition not allowed",
		http.StatusConflict,
	)
	ErrSurveyNotActive = apperror.New(
		apperror.CodeInvalidState,
		"survey is not accepting responses",
		http.StatusConflict,
	)
	ErrAlreadySubmitted = apperror.New(
		apperror.CodeConflict,
		"this survey was already answered",
		http.StatusConflict,
	)
	ErrUnknownQuestion = apperror.New(
		apperror.CodeInvalidInput,
		"answer references an unknown question",
		http.StatusBadRequest,
	)
	ErrMissingRequiredAnswer = apperror.New(
		apperror.CodeInvalidInput,
		"a required question was not answered",
		http.StatusBadRequest,
	)
)
