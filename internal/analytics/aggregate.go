package analytics

import (
	"math"

	"transaction-dashboard/internal/models"
)

type Statistics struct {
	TotalPrice       float64 `json:"totalPrice"`
	TotalItemSold    int     `json:"totalItemSold"`
	TotalItemNotSold int     `json:"totalItemNotSold"`
}

// CountEntry is one slice of a chart: a label and how many records it holds.
type CountEntry struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

type PieChart struct {
	ItemCountsByCategory []CountEntry `json:"ItemCountsByCategory"`
}

type BarChart struct {
	ItemCounts []CountEntry `json:"itemCounts"`
}

type Combined struct {
	DataFromAPI1 Statistics `json:"dataFromAPI1"`
	DataFromAPI2 PieChart   `json:"dataFromAPI2"`
	DataFromAPI3 BarChart   `json:"dataFromAPI3"`
}

type priceRange struct {
	label string
	max   float64
}

// Upper bounds are inclusive. A price lands in the first range whose max
// is not below it, so negatives go to the first range.
var priceRanges = []priceRange{
	{"0-100", 100},
	{"101-200", 200},
	{"201-300", 300},
	{"301-400", 400},
	{"401-500", 500},
	{"501-600", 600},
	{"601-700", 700},
	{"701-800", 800},
	{"801-900", 900},
	{"901-above", math.Inf(1)},
}

// FilterByMonth keeps records sold in month (1..12) of any year, preserving order.
func FilterByMonth(items []models.Transaction, month int) []models.Transaction {
	out := make([]models.Transaction, 0, len(items))
	for _, t := range items {
		if t.SaleMonth() == month {
			out = append(out, t)
		}
	}
	return out
}

func ComputeStatistics(items []models.Transaction) Statistics {
	var s Statistics
	for _, t := range items {
		s.TotalPrice += t.Price
		if t.Sold {
			s.TotalItemSold++
		} else {
			s.TotalItemNotSold++
		}
	}
	return s
}

// CategoryCounts counts records per literal category in first-seen order.
func CategoryCounts(items []models.Transaction) []CountEntry {
	out := make([]CountEntry, 0)
	index := make(map[string]int)
	for _, t := range items {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CountEntry{Category: t.Category})
		}
		out[i].Value++
	}
	return out
}

// PriceRangeCounts always returns all ten ranges in order.
func PriceRangeCounts(items []models.Transaction) []CountEntry {
	out := make([]CountEntry, len(priceRanges))
	for i, r := range priceRanges {
		out[i].Category = r.label
	}
	for _, t := range items {
		out[priceRangeIndex(t.Price)].Value++
	}
	return out
}

func priceRangeIndex(price float64) int {
	for i, r := range priceRanges {
		if price <= r.max {
			return i
		}
	}
	// NaN compares false everywhere
	return len(priceRanges) - 1
}
