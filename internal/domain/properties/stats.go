package properties

import (
	"sort"
	"time"
)

type GeneralStats struct {
	TotalProperties     int     `json:"total_properties"`
	AvailableProperties int     `json:"available_properties"`
	PendingProperties   int     `json:"pending_properties"`
	SoldProperties      int     `json:"sold_properties"`
	RentedProperties    int     `json:"rented_properties"`
	PendingVerification int     `json:"pending_verification"`
	VerifiedProperties  int     `json:"verified_properties"`
	RejectedProperties  int     `json:"rejected_properties"`
	FeaturedProperties  int     `json:"featured_properties"`
	AveragePrice        float64 `json:"average_price"`
}

type TypeCount struct {
	PropertyType Type `json:"property_type"`
	Count        int  `json:"count"`
}

type MonthlyTrend struct {
	Month          time.Time `json:"month"`
	NewListings    int       `json:"new_listings"`
	SoldProperties int       `json:"sold_properties"`
}

// Stats backs the moderation dashboard.
type Stats struct {
	General       GeneralStats   `json:"general_stats"`
	PropertyTypes []TypeCount    `json:"property_types"`
	MonthlyTrends []MonthlyTrend `json:"monthly_trends"`
}

// TrendMonths is how many calendar months the trend table covers, current month included.
const TrendMonths = 6

// ComputeStats aggregates rows. A sale is attributed to the month of the
// listing's last update.
func ComputeStats(rows []*Property, now time.Time) Stats {
	var st Stats
	byType := map[Type]int{}

	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(TrendMonths - 1), 0)
	st.MonthlyTrends = make([]MonthlyTrend, TrendMonths)
	for i := range st.MonthlyTrends {
		st.MonthlyTrends[i].Month = first.AddDate(0, i, 0)
	}
	bucket := func(t time.Time) int {
		t = t.UTC()
		if t.Before(first) {
			return -1
		}
		i := (t.Year()-first.Year())*12 + int(t.Month()) - int(first.Month())
		if i >= TrendMonths {
			return -1
		}
		return i
	}

	var priceSum float64
	for _, p := range rows {
		st.General.TotalProperties++
		priceSum += p.Price
		switch p.Status {
		case StatusForSale, StatusForRent:
			st.General.AvailableProperties++
		case StatusPending:
			st.General.PendingProperties++
		case StatusSold:
			st.General.SoldProperties++
		case StatusRented:
			st.General.RentedProperties++
		}
		switch p.VerificationStatus {
		case VerificationVerified:
			st.General.VerifiedProperties++
		case VerificationRejected:
			st.General.RejectedProperties++
		default:
			st.General.PendingVerification++
		}
		if p.Featured {
			st.General.FeaturedProperties++
		}
		byType[p.Type]++

		if i := bucket(p.CreatedAt); i >= 0 {
			st.MonthlyTrends[i].NewListings++
		}
		if p.Status == StatusSold {
			if i := bucket(p.UpdatedAt); i >= 0 {
				st.MonthlyTrends[i].SoldProperties++
			}
		}
	}
	if st.General.TotalProperties > 0 {
		st.General.AveragePrice = priceSum / float64(st.General.TotalProperties)
	}

	st.PropertyTypes = make([]TypeCount, 0, len(byType))
	for t, n := range byType {
		st.PropertyTypes = append(st.PropertyTypes, TypeCount{PropertyType: t, Count: n})
	}
	sort.Slice(st.PropertyTypes, func(i, j int) bool {
		a, b := st.PropertyTypes[i], st.PropertyTypes[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.PropertyType < b.PropertyType
	})
	return st
}
