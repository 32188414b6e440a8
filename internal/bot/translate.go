package bot

import (
	"errors"

	derrors "github.com/NastyaGoryachaya/crypto-compare-service/internal/errors"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/ports/errcode"
)

func translateBotError(code errcode.Code, causes ...error) string {
	switch code {
	case errcode.BadRequest:
		for _, err := range causes {
			var ve *derrors.ValidationError
			if errors.As(err, &ve) {
				return translateReason(ve.Reason)
			}
		}
		return "Некорректный запрос"
	case errcode.CatalogUnavailable:
		return "Список активов сейчас недоступен, попробуйте позже"
	case errcode.DataUnavailable:
		return "Данные недоступны для выбранного актива и периода"
	default:
		return "Внутренняя ошибка сервиса, попробуйте позже"
	}
}

func translateReason(reason string) string {
	switch reason {
	case "invalid primary asset":
		return "Актив не найден, поищите его через /assets"
	case "unsupported quote currency":
		return "Валюта не поддерживается"
	case "end date before start date":
		return "Дата окончания раньше даты начала"
	default:
		return "Некорректный запрос: " + reason
	}
}
