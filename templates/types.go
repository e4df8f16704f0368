// Package templates renders the HTML screens. Every page is exposed as a
// templ.Component so handlers render them the same way.
package templates

import "asphaltscope/services"

// ActiveTenant is the business whose jobs and customers are on screen.
type ActiveTenant struct {
	ID   string
	Name string
	ABN  string
}

// TenantSelectorItem is one entry in the header's tenant switcher.
type TenantSelectorItem struct {
	ID       string
	Name     string
	ABN      string
	IsActive bool
}

type HeaderData struct {
	ActiveTenant *ActiveTenant
	Tenants      []TenantSelectorItem
}

type SidebarData struct {
	ActiveTenant  *ActiveTenant
	ActivePath    string
	JobCount      int
	CustomerCount int
}

type RegisterData struct {
	BusinessName  string
	ABN           string
	ACN           string
	GSTRegistered bool
	AddressLine1  string
	AddressLine2  string
	Suburb        string
	State         string
	Postcode      string
	Phone         string
	Email         string
	Website       string
	States        []services.Option
	Errors        map[string]string
}

type CustomerRow struct {
	ID           string
	BusinessName string
	TradingName  string
	ABN          string
	Suburb       string
	State        string
	Postcode     string
}

type CustomerFormData struct {
	BusinessName string
	TradingName  string
	ABN          string
	AddressLine1 string
	Suburb       string
	State        string
	Postcode     string
	Notes        string
	States       []services.Option
	Errors       map[string]string
}

type CustomerListData struct {
	Customers []CustomerRow
	Form      CustomerFormData
}

type JobRow struct {
	ID           string
	JobNumber    string
	Title        string
	CustomerName string
	JobTypeLabel string
	Status       string
	StatusLabel  string
	QuoteDate    string
	Tonnage      string
	TotalIncGST  string
}

type JobListData struct {
	Jobs         []JobRow
	StatusFilter string
	Statuses     []services.Option
}

type JobCreateData struct {
	Title               string
	JobType             string
	CustomerID          string
	Description         string
	WasteFactor         string
	PurchaseOrderNumber string
	QuoteNumber         string
	QuoteDate           string
	QuoteExpiryDate     string
	NightShift          bool
	TruckAccess         string
	MaxWasteFactor      string
	JobTypes            []services.Option
	Customers           []services.Option
	TruckTypes          []services.Option
	Errors              map[string]string
}

// SectionFormRow holds the raw submitted values of one area row so a failed
// save re-renders exactly what was typed.
type SectionFormRow struct {
	Index               int
	Name                string
	AreaSqm             string
	DepthMm             string
	MixType             string
	Specification       string
	CustomSpecification string
	UnitPricePerTonne   string
	Notes               string
	Tonnage             string
	TotalPrice          string
}

type JobAreasData struct {
	JobID          string
	JobNumber      string
	Title          string
	WasteFactor    string
	Sections       []SectionFormRow
	MixTypes       []services.Option
	Specifications []services.Option
	Errors         map[string]string
	ImportErrors   []services.ImportRowError
}

type JobViewSection struct {
	No        int
	Name      string
	MixLabel  string
	SpecLabel string
	AreaSqm   string
	DepthMm   string
	Tonnage   string
	UnitPrice string
	Amount    string
	Notes     string
}

type JobViewData struct {
	ID              string
	JobNumber       string
	Title           string
	Status          string
	StatusLabel     string
	JobTypeLabel    string
	CustomerName    string
	Description     string
	QuoteNumber     string
	QuoteDate       string
	QuoteExpiryDate string
	PONumber        string
	WasteFactor     string
	NightShift      bool
	TruckLabel      string
	Sections        []JobViewSection
	SiteArea        string
	TotalTonnage    string
	SubtotalEx      string
	GST             string
	TotalInc        string
	Statuses        []services.Option
}
