package domain

// Summarize folds a trip collection into aggregate totals. An empty
// collection returns the zero summary; AverageProfit is only divided
// when at least one trip exists.
func Summarize(trips []Trip) TripSummary {
	if len(trips) == 0 {
		return TripSummary{}
	}

	s := TripSummary{TotalTrips: len(trips)}
	for _, t := range trips {
		s.TotalCatch += t.TotalCatch
		s.TotalSales += t.TotalSales
		s.TotalProfit += t.Profit
	}
	s.AverageProfit = s.TotalProfit / float64(s.TotalTrips)
	return s
}
