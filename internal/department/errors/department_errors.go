package departmenterrors

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
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaderID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leader id",
		http.StatusBadRequest,
	)
	ErrDepartmentNameTaken = apperror.New(
		apperror.CodeConflict,
		"a department with this name already exists",
		http.StatusConflict,
	)
	ErrDepartmentNotEmpty = apperror.New(
		apperror.CodeConflict,
		"department still has members",
		http.StatusConflict,
	)
)
