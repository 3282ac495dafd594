package balanceerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrUnknownCategory = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave category",
		http.StatusBadRequest,
	)
	ErrCategoryNotDeductible = apperror.New(
		apperror.CodeInvalidInput,
		"leave category has no balance to deduct",
		http.StatusBadRequest,
	)
	ErrNegativeDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be a non-negative integer",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
)
