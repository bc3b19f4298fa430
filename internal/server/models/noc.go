package models

import "time"

// NOC is a listing agreement (no-objection certificate) between owners and
// the brokerage. Owners are owned exclusively by the parent record and are
// persisted with it in one transaction. PDFURL points at the most recently
// generated rendering and stays nil until the first successful render.
type NOC struct {
	ID string `json:"id"`

	// Property details
	PropertyType        string `json:"propertyType"`
	BuildingProjectName string `json:"buildingProjectName"`
	Community           string `json:"community"`
	StreetName          string `json:"streetName"`
	BuildUpArea         string `json:"buildUpArea"`
	PlotArea            string `json:"plotArea"`
	Bedrooms            string `json:"bedrooms"`
	Bathrooms           string `json:"bathrooms"`
	RentalAmount        string `json:"rentalAmount"`
	SaleAmount          string `json:"saleAmount"`
	Parking             string `json:"parking"`

	// Terms
	AgreementType string     `json:"agreementType"`
	PeriodMonths  int        `json:"periodMonths"`
	AgreementDate *time.Time `json:"agreementDate"`

	// Contact & location
	ClientPhone string `json:"clientPhone"`
	Location    string `json:"location"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`

	PDFURL *string `json:"pdfUrl"`

	Owners []NOCOwner `json:"owners"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NOCOwner is one owner block on the agreement, ordered by Position.
type NOCOwner struct {
	ID            string     `json:"id"`
	NOCID         string     `json:"nocId"`
	Position      int        `json:"position"`
	Name          string     `json:"name"`
	EmiratesID    string     `json:"emiratesId"`
	IssueDate     *time.Time `json:"issueDate"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	CountryCode   string     `json:"countryCode"`
	Phone         string     `json:"phone"`
	SignatureURL  *string    `json:"signatureUrl"`
	SignatureDate *time.Time `json:"signatureDate"`
}
