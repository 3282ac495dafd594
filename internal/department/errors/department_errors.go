package departmenterrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"department id is not a valid uuid",
		http.StatusBadRequest,
	)
	ErrNameTaken = apperror.New(
		apperror.CodeConflict,
		"department name already in use",
		http.StatusConflict,
	)
)
