package bot

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
)

// formatComparison — сводка по сравнению: оценка, цена, изменение за период
func formatComparison(res domain.ComparisonResult) string {
	cur := strings.ToUpper(res.Currency)

	var bld strings.Builder
	fmt.Fprintf(&bld, "Период: %s .. %s, валюта %s\n\n", res.StartDate, res.EndDate, cur)
	bld.WriteString(formatReport(res.Primary, cur))
	if res.Secondary != nil {
		bld.WriteString("\n\n")
		bld.WriteString(formatReport(*res.Secondary, cur))
	}
	return bld.String()
}

// formatReport — блок по одному активу
func formatReport(r domain.AssetReport, cur string) string {
	var bld strings.Builder
	fmt.Fprintf(&bld, "[%s]\nОценка: %d/100", r.Asset.DisplayName, r.Score)
	if r.Spot != nil {
		fmt.Fprintf(&bld, "\nТекущая цена: %s %s", humanPrice(*r.Spot), cur)
	} else {
		bld.WriteString("\nТекущая цена: нет данных")
	}

	points := r.Series.Points
	if len(points) == 0 {
		bld.WriteString("\nИстория: нет данных за период")
		return bld.String()
	}
	first, last := points[0].Price, points[len(points)-1].Price
	fmt.Fprintf(&bld, "\nЗа период: %s → %s", humanPrice(first), humanPrice(last))
	if first != 0 {
		fmt.Fprintf(&bld, " (%+.2f%%)", (last-first)/first*100)
	}
	fmt.Fprintf(&bld, "\nТочек: %d", len(points))
	return bld.String()
}

// humanPrice — цена с разделителями разрядов и двумя знаками после запятой;
// цены меньше единицы выводятся с точностью до 8 знаков.
func humanPrice(v float64) string {
	if v != 0 && math.Abs(v) < 1 {
		return humanize.FtoaWithDigits(v, 8)
	}
	return humanize.FormatFloat("#,###.##", v)
}
