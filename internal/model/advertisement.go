package model

// AdStatus is the moderation status of an advertisement.
type AdStatus string

const (
	AdStatusActive  AdStatus = "ACTIVE"
	AdStatusDeleted AdStatus = "DELETED"
	AdStatusBlocked AdStatus = "BLOCKED"
)

// InventoryStatus is the sale state of the advertised item.
type InventoryStatus string

const (
	InventoryAvailable InventoryStatus = "AVAILABLE"
	InventorySold      InventoryStatus = "SOLD"
	InventoryUnlist    InventoryStatus = "UNLIST"
)

// Advertisement is a row of the advertisement list.
type Advertisement struct {
	AdvertisementID    string          `json:"advertismentId"`
	ProductName        string          `json:"productName"`
	ProductDescription string          `json:"productDescription"`
	Views              int             `json:"views"`
	CategoryName       string          `json:"categoryName"`
	CategoryID         string          `json:"categoryId"`
	Price              string          `json:"price"`
	SubcategoryName    string          `json:"subcategoryName"`
	SubcategoryID      string          `json:"subcategoryId"`
	Images             []string        `json:"images"`
	City               string          `json:"city"`
	Zip                string          `json:"zip"`
	Address            string          `json:"address"`
	CreatedBy          string          `json:"createdBy"`
	Status             AdStatus        `json:"status"`
	InventoryDetails   InventoryStatus `json:"inventoryDetails"`
	ProductDetails     string          `json:"productDetails"`
	CreatedAt          string          `json:"createdAt"`
	UpdatedAt          string          `json:"updatedAt"`
}

// Uploader is the account that published an advertisement.
type Uploader struct {
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Email       string `json:"email,omitempty"`
}

// AdvertisementDetail is the single advertisement view.
type AdvertisementDetail struct {
	Advertisement
	UploadedBy Uploader `json:"uploadedBy"`
}

// StatusFilter is one tile of the advertisement status filter.
type StatusFilter struct {
	Value string
	Label string
	Color string
}

// StatusFilterAll selects every status; the list call then sends no status.
const StatusFilterAll = "ALL"

// StatusFilters are the tiles offered above the advertisement table.
var StatusFilters = []StatusFilter{
	{Value: StatusFilterAll, Label: "All Ads", Color: "blue"},
	{Value: string(AdStatusActive), Label: "Active", Color: "green"},
	{Value: string(AdStatusBlocked), Label: "Blocked", Color: "red"},
	{Value: string(AdStatusDeleted), Label: "Deleted", Color: "gray"},
}
