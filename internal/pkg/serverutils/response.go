package serverutils

import (
	"errors"

	"lecturelens-be/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type ApiResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ApiError struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) ApiError {
	return ApiError{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ValidateRequest runs struct tag validation and converts failures into a 422.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"validation failed on field '"+first.Field()+"' ("+first.Tag()+")")
		}
		return fiber.NewError(fiber.StatusUnprocessableEntity, "validation failed")
	}
	return nil
}

// ErrorHandlerMiddleware converts application errors into HTTP responses.
// NotAuthorizedOrNotFound deliberately answers 404 for both "absent" and
// "owned by someone else" so existence never leaks.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, apperrors.ErrAuthenticationRequired),
			errors.Is(err, apperrors.ErrInvalidCredentials),
			errors.Is(err, apperrors.ErrTokenInvalid):
			code = fiber.StatusUnauthorized
			message = err.Error()
		case errors.Is(err, apperrors.ErrNotAuthorizedOrNotFound):
			code = fiber.StatusNotFound
			message = err.Error()
		case errors.Is(err, apperrors.ErrAlreadyExists):
			code = fiber.StatusConflict
			message = err.Error()
		case errors.Is(err, apperrors.ErrSessionEnded),
			errors.Is(err, apperrors.ErrConfirmationRequired),
			errors.Is(err, apperrors.ErrGenerationInProgress):
			code = fiber.StatusConflict
			message = err.Error()
		case errors.Is(err, apperrors.ErrGenerationFailed):
			code = fiber.StatusBadGateway
			message = err.Error()
		case errors.Is(err, apperrors.ErrExportUnavailable),
			errors.Is(err, apperrors.ErrColdStartInProgress):
			code = fiber.StatusServiceUnavailable
			message = err.Error()
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
