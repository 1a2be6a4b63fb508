package domain

// TripType classifies a fishing expedition.
type TripType string

const (
	TripTypePrivateHire   TripType = "Private Hire"
	TripTypeYellowFinTuna TripType = "Yellow Fin Tuna"
	TripTypeReefFish      TripType = "Reef Fish"
	TripTypeKalhubilamas  TripType = "Kalhubilamas"
	TripTypeLattiRaagondi TripType = "Latti/Raagondi"
)

// FishType classifies how a sale's catch was kept.
type FishType string

const (
	FishTypeFresh FishType = "Fresh"
	FishTypeIced  FishType = "Iced"
)

// HireDuration is the booked length of a private hire.
type HireDuration string

const (
	HireDurationFullDay      HireDuration = "Full Day"
	HireDurationHalfDay      HireDuration = "Half Day"
	HireDurationNightFishing HireDuration = "Night Fishing"
)

// Expenses holds the three named trip costs in MVR.
type Expenses struct {
	Fuel  float64 `json:"fuel"`
	Food  float64 `json:"food"`
	Other float64 `json:"other"`
}

// Total returns the sum of all expense categories.
func (e Expenses) Total() float64 {
	return e.Fuel + e.Food + e.Other
}

// Sale is a single buyer transaction within a trip.
// TotalAmount is fixed at creation time (weight x rate) and is not
// re-derived afterwards.
type Sale struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Contact     string   `json:"contact"`
	Weight      float64  `json:"weight"`
	RatePrice   float64  `json:"ratePrice"`
	TotalAmount float64  `json:"totalAmount"`
	Paid        bool     `json:"paid"`
	FishType    FishType `json:"fishType,omitempty"`
	Remarks     string   `json:"remarks,omitempty"`
}

// HireDetails describes a private-hire booking.
type HireDetails struct {
	Duration        HireDuration `json:"duration"`
	ClientName      string       `json:"clientName,omitempty"`
	ClientContact   string       `json:"clientContact,omitempty"`
	SpecialRequests string       `json:"specialRequests,omitempty"`
	HiredPrice      float64      `json:"hiredPrice,omitempty"`
}

// Trip is one recorded fishing expedition.
//
// The ID may be a client-generated opaque token or a server UUID
// depending on where the record originated. Profit, OwnerProfit and
// ProfitPerCrew are snapshots computed at save time, not live views.
type Trip struct {
	ID                string             `json:"id"`
	Date              string             `json:"date"`
	Crew              []string           `json:"crew"`
	Expenses          Expenses           `json:"expenses"`
	FishSales         []Sale             `json:"fishSales"`
	TripType          TripType           `json:"tripType"`
	HireDetails       *HireDetails       `json:"hireDetails,omitempty"`
	WeatherConditions *WeatherConditions `json:"weatherConditions,omitempty"`
	TotalCatch        float64            `json:"totalCatch"`
	TotalSales        float64            `json:"totalSales"`
	Profit            float64            `json:"profit"`
	OwnerSharePercent float64            `json:"ownerSharePercent"`
	ProfitPerCrew     float64            `json:"profitPerCrew"`
	OwnerProfit       float64            `json:"ownerProfit"`
}

// HirePrice returns the hired price when the trip carries hire details.
func (t *Trip) HirePrice() float64 {
	if t.HireDetails == nil {
		return 0
	}
	return t.HireDetails.HiredPrice
}

// TripSummary aggregates a collection of trips.
type TripSummary struct {
	TotalTrips    int     `json:"totalTrips"`
	TotalCatch    float64 `json:"totalCatch"`
	TotalSales    float64 `json:"totalSales"`
	TotalProfit   float64 `json:"totalProfit"`
	AverageProfit float64 `json:"averageProfit"`
}
