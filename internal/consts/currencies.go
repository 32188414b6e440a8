package consts

import "strings"

// DefaultQuoteCurrency — валюта, выбранная по умолчанию во всех интерфейсах.
const DefaultQuoteCurrency = "brl"

var QuoteCurrencies = []string{"brl", "usd", "eur"}

// NormalizeCurrency — нижний регистр без пробелов, как ожидает CoinGecko.
func NormalizeCurrency(cur string) string {
	return strings.ToLower(strings.TrimSpace(cur))
}

// IsSupported проверяет валюту по списку; пустой список разрешает любую валюту.
func IsSupported(cur string, supported []string) bool {
	if len(supported) == 0 {
		return true
	}
	c := NormalizeCurrency(cur)
	for _, s := range supported {
		if c == NormalizeCurrency(s) {
			return true
		}
	}
	return false
}
