package httptransport

import (
	"errors"

	derrors "github.com/NastyaGoryachaya/crypto-compare-service/internal/errors"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/ports/errcode"
)

func FromServiceError(err error) errcode.Code {
	switch {
	case errors.Is(err, derrors.ErrValidation):
		return errcode.BadRequest
	case errors.Is(err, derrors.ErrCatalogUnavailable):
		return errcode.CatalogUnavailable
	case errors.Is(err, derrors.ErrDataUnavailable),
		errors.Is(err, derrors.ErrFetchFailed):
		return errcode.DataUnavailable
	default:
		return errcode.Internal
	}
}
