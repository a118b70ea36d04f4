package apperrors

import (
	"net/http"
)

/*
Предопределенные ошибки бизнес-логики и домена.
Сообщения для auth намеренно общие: по ним нельзя понять, существует ли аккаунт.
*/

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrInvalidOrExpiredToken = New(
	CodeInvalidOrExpiredToken,
	"auth",
	"Invalid or expired reset token",
	http.StatusBadRequest,
)

var ErrWeakPassword = New(
	CodeWeakPassword,
	"auth",
	"Password must be at least 6 characters long",
	http.StatusBadRequest,
)

var ErrUnauthorized = New(
	CodeUnauthorized,
	"auth",
	"Authentication required",
	http.StatusUnauthorized,
)

var ErrForbidden = New(
	CodeForbidden,
	"auth",
	"Access denied",
	http.StatusForbidden,
)

// --- Resources ---

var ErrValidationFailed = New(
	CodeValidationFailed,
	"validation",
	"Validation failed",
	http.StatusBadRequest,
)

var ErrNoFieldsProvided = New(
	CodeNoFieldsProvided,
	"validation",
	"At least one field must be provided for update",
	http.StatusBadRequest,
)

var ErrInvalidStatus = New(
	CodeInvalidStatus,
	"validation",
	"Invalid status. Must be one of: active, draft, archived",
	http.StatusBadRequest,
)

var ErrNotFound = New(
	CodeNotFound,
	"resource",
	"Resource not found",
	http.StatusNotFound,
)

var ErrConflict = New(
	CodeConflict,
	"resource",
	"Resource was modified by another request",
	http.StatusConflict,
)
