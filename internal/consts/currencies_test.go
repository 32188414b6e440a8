package consts

import "testing"

func TestIsSupported(t *testing.T) {
	cases := []struct {
		cur       string
		supported []string
		want      bool
	}{
		{"BRL", QuoteCurrencies, true},
		{" usd ", QuoteCurrencies, true},
		{"jpy", QuoteCurrencies, false},
		{"jpy", nil, true},
		{"eur", []string{"EUR"}, true},
	}
	for _, tc := range cases {
		if got := IsSupported(tc.cur, tc.supported); got != tc.want {
			t.Errorf("IsSupported(%q, %v) = %v, want %v", tc.cur, tc.supported, got, tc.want)
		}
	}
}
