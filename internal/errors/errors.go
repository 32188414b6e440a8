package errors

import "errors"

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrFetchFailed        = errors.New("fetch failed")
	ErrSpotUnavailable    = errors.New("spot price unavailable")
	ErrDataUnavailable    = errors.New("data unavailable")
	ErrValidation         = errors.New("validation error")
)

// ValidationError — некорректный ввод пользователя; проверяется до любых сетевых вызовов.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError — конструктор ошибки валидации.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
