package model

// SubAdmin is a row of the sub-admin list.
type SubAdmin struct {
	AdminID      string `json:"adminId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	CountryCode  string `json:"countryCode"`
	Country      string `json:"country"`
	Role         string `json:"role"`
	CreatedBy    string `json:"createdBy"`
	ReferralCode string `json:"referralCode"`
}

// CreateSubAdminRequest is the body of the create sub-admin call.
type CreateSubAdminRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	CountryCode string `json:"countryCode"`
	Country     string `json:"country"`
	Password    string `json:"password"`
}

// CreatedSubAdmin is the payload returned after a sub-admin is created.
type CreatedSubAdmin struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	CountryCode string `json:"countryCode"`
	Country     string `json:"country"`
	CreatedAt   string `json:"createdAt"`
}

// CountryCode is a dialing prefix offered by the create form.
type CountryCode struct {
	Code    string
	Country string
}

// CountryCodes lists the dialing prefixes the create form accepts.
var CountryCodes = []CountryCode{
	{Code: "+1", Country: "US/CA"},
	{Code: "+44", Country: "UK"},
	{Code: "+91", Country: "India"},
	{Code: "+86", Country: "China"},
	{Code: "+49", Country: "Germany"},
	{Code: "+33", Country: "France"},
	{Code: "+81", Country: "Japan"},
	{Code: "+61", Country: "Australia"},
	{Code: "+55", Country: "Brazil"},
	{Code: "+7", Country: "Russia"},
}

// Countries lists the countries the create form accepts.
var Countries = []string{
	"United States",
	"United Kingdom",
	"India",
	"China",
	"Germany",
	"France",
	"Japan",
	"Australia",
	"Brazil",
	"Russia",
	"Canada",
	"Mexico",
	"Italy",
	"Spain",
	"Netherlands",
}
