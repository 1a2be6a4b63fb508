// Package profit holds the trip accounting math: net profit and the
// owner/crew distribution split. All functions are pure and operate on
// raw float64 values; display-time rounding is the caller's concern.
package profit

import (
	"fmt"
	"math/rand"
	"time"

	"dhoni/internal/domain"
)

// Compute returns the net profit of a trip: sales plus any hire price,
// minus the three expense categories. Negative results are valid and
// expected for loss-making trips.
func Compute(totalSales float64, expenses domain.Expenses, hirePrice float64) float64 {
	return totalSales + hirePrice - expenses.Total()
}

// Distribution is the result of splitting a trip's profit.
type Distribution struct {
	OwnerProfit      float64
	ProfitPerCrew    float64
	TotalDistributed float64
}

// Distribute splits profit between the owner share and an even crew
// split. ownerSharePercent is not bounds-checked; values outside 0-100
// produce out-of-range shares. With zero crew the remainder after the
// owner share stays undistributed and TotalDistributed reflects only
// the owner portion.
func Distribute(profit float64, crewCount int, ownerSharePercent float64) Distribution {
	ownerProfit := profit * ownerSharePercent / 100
	remaining := profit - ownerProfit

	var perCrew float64
	if crewCount > 0 {
		perCrew = remaining / float64(crewCount)
	}

	return Distribution{
		OwnerProfit:      ownerProfit,
		ProfitPerCrew:    perCrew,
		TotalDistributed: ownerProfit + perCrew*float64(crewCount),
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTripID returns a client-shaped opaque trip identifier. The shape
// matters only for recognisability in logs; uniqueness comes from the
// millisecond timestamp plus the random suffix.
func NewTripID() string {
	return "trip-" + idToken()
}

// NewSaleID returns a client-shaped sale identifier.
func NewSaleID() string {
	return "sale-" + idToken()
}

func idToken() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}
