package domain

// BoatSettings is the per-account boat and billing identity.
// Singleton per account, last-write-wins.
type BoatSettings struct {
	BoatName           string `json:"boatName"`
	OwnerName          string `json:"ownerName"`
	ContactNumber      string `json:"contactNumber"`
	Email              string `json:"email"`
	Address            string `json:"address"`
	RegistrationNumber string `json:"registrationNumber"`
	LogoURL            string `json:"logoUrl,omitempty"`
	BankName           string `json:"bankName"`
	AccountNumber      string `json:"accountNumber"`
	AccountName        string `json:"accountName"`
}
