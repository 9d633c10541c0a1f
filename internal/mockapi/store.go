// Package mockapi is an in-memory implementation of the classifieds admin
// REST API, used for local development and end-to-end tests.
package mockapi

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cayiba/cayiba-admin/internal/crypto"
	"github.com/cayiba/cayiba-admin/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("advertisement not found")
	ErrAlreadyBlocked     = errors.New("advertisement already blocked")
)

// Query is a list request.
type Query struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	Status    string
}

// Store holds the mock API data.
type Store struct {
	mu     sync.RWMutex
	admin  model.SubAdmin
	hash   string
	admins []model.SubAdmin
	ads    []model.AdvertisementDetail
	now    func() time.Time
}

// NewStore creates a Store whose super admin signs in with email and
// password.
func NewStore(email, password string, now func() time.Time) (*Store, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		admin: model.SubAdmin{
			AdminID:  uuid.NewString(),
			FullName: "Super Admin",
			Email:    email,
			Role:     "SUPER_ADMIN",
		},
		hash: hash,
		now:  now,
	}, nil
}

// Authenticate checks the super admin credentials.
func (s *Store) Authenticate(email, password string) (model.User, error) {
	s.mu.RLock()
	admin, hash := s.admin, s.hash
	s.mu.RUnlock()

	if !strings.EqualFold(email, admin.Email) {
		return model.User{}, ErrInvalidCredentials
	}
	ok, err := crypto.VerifyPassword(password, hash)
	if err != nil || !ok {
		return model.User{}, ErrInvalidCredentials
	}
	return model.User{ID: admin.AdminID, Email: admin.Email, Name: admin.FullName}, nil
}

// CreateSubAdmin adds a sub-admin created by creator.
func (s *Store) CreateSubAdmin(req model.CreateSubAdminRequest, creator string) (model.CreatedSubAdmin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.EqualFold(req.Email, s.admin.Email) || slices.ContainsFunc(s.admins, func(a model.SubAdmin) bool {
		return strings.EqualFold(a.Email, req.Email)
	}) {
		return model.CreatedSubAdmin{}, ErrEmailTaken
	}

	id := uuid.NewString()
	s.admins = append(s.admins, model.SubAdmin{
		AdminID:      id,
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		CountryCode:  req.CountryCode,
		Country:      req.Country,
		Role:         "SUB_ADMIN",
		CreatedBy:    creator,
		ReferralCode: strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8]),
	})
	return model.CreatedSubAdmin{
		ID:          id,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		CountryCode: req.CountryCode,
		Country:     req.Country,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}, nil
}

var subAdminFields = map[string]func(model.SubAdmin) string{
	"adminId":      func(a model.SubAdmin) string { return a.AdminID },
	"fullName":     func(a model.SubAdmin) string { return a.FullName },
	"email":        func(a model.SubAdmin) string { return a.Email },
	"phoneNumber":  func(a model.SubAdmin) string { return a.PhoneNumber },
	"country":      func(a model.SubAdmin) string { return a.Country },
	"role":         func(a model.SubAdmin) string { return a.Role },
	"referralCode": func(a model.SubAdmin) string { return a.ReferralCode },
}

// SubAdmins lists the sub-admins matching q.
func (s *Store) SubAdmins(q Query) model.PageData[model.SubAdmin] {
	s.mu.RLock()
	docs := slices.Clone(s.admins)
	s.mu.RUnlock()

	docs = filter(docs, q.Search, func(a model.SubAdmin) []string {
		return []string{a.FullName, a.Email, a.PhoneNumber, a.Country, a.ReferralCode}
	})
	sortBy(docs, subAdminFields[q.SortBy], q.SortOrder)
	return paginate(docs, q.Page, q.Limit)
}

var advertisementFields = map[string]func(model.Advertisement) string{
	"advertismentId":   func(a model.Advertisement) string { return a.AdvertisementID },
	"productName":      func(a model.Advertisement) string { return a.ProductName },
	"categoryName":     func(a model.Advertisement) string { return a.CategoryName },
	"price":            func(a model.Advertisement) string { return fmt.Sprintf("%012s", a.Price) },
	"views":            func(a model.Advertisement) string { return fmt.Sprintf("%012d", a.Views) },
	"city":             func(a model.Advertisement) string { return a.City },
	"status":           func(a model.Advertisement) string { return string(a.Status) },
	"inventoryDetails": func(a model.Advertisement) string { return string(a.InventoryDetails) },
	"createdAt":        func(a model.Advertisement) string { return a.CreatedAt },
}

// Advertisements lists the advertisements matching q. Without a sort field
// the newest come first.
func (s *Store) Advertisements(q Query) model.PageData[model.Advertisement] {
	s.mu.RLock()
	docs := make([]model.Advertisement, 0, len(s.ads))
	for _, ad := range s.ads {
		if q.Status == "" || string(ad.Status) == q.Status {
			docs = append(docs, ad.Advertisement)
		}
	}
	s.mu.RUnlock()

	docs = filter(docs, q.Search, func(a model.Advertisement) []string {
		return []string{a.ProductName, a.CategoryName, a.SubcategoryName, a.City, a.Zip}
	})
	field, order := advertisementFields[q.SortBy], q.SortOrder
	if field == nil {
		field, order = advertisementFields["createdAt"], "desc"
	}
	sortBy(docs, field, order)
	return paginate(docs, q.Page, q.Limit)
}

// Advertisement returns advertisement id.
func (s *Store) Advertisement(id string) (model.AdvertisementDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.AdvertisementDetail{}, ErrNotFound
	}
	return s.ads[i], nil
}

// Block marks advertisement id as blocked.
func (s *Store) Block(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if s.ads[i].Status == model.AdStatusBlocked {
		return ErrAlreadyBlocked
	}
	s.ads[i].Status = model.AdStatusBlocked
	s.ads[i].UpdatedAt = s.now().UTC().Format(time.RFC3339)
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.ads, func(ad model.AdvertisementDetail) bool {
		return ad.AdvertisementID == id
	})
}

// Stats counts advertisements per status and inventory state.
func (s *Store) Stats() model.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st model.DashboardStats
	for _, ad := range s.ads {
		st.TotalAdvertisements++
		switch ad.Status {
		case model.AdStatusActive:
			st.ActiveAdvertisements++
		case model.AdStatusBlocked:
			st.BlockedAdvertisements++
		case model.AdStatusDeleted:
			st.DeletedAdvertisements++
		}
		switch ad.InventoryDetails {
		case model.InventoryAvailable:
			st.AvailableInventory++
		case model.InventorySold:
			st.SoldInventory++
		case model.InventoryUnlist:
			st.UnlistedInventory++
		}
	}
	return st
}

// Graph counts advertisements created per day over period, oldest first.
func (s *Store) Graph(period model.GraphPeriod) model.DashboardGraph {
	days := period.Days()
	today := s.now().UTC().Truncate(24 * time.Hour)

	counts := make(map[string]int, days)
	s.mu.RLock()
	for _, ad := range s.ads {
		if t, err := time.Parse(time.RFC3339, ad.CreatedAt); err == nil {
			counts[t.UTC().Format(time.DateOnly)]++
		}
	}
	s.mu.RUnlock()

	points := make([]model.GraphPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		points = append(points, model.GraphPoint{Date: day, Count: counts[day]})
	}
	return model.DashboardGraph{Data: points}
}

func filter[T any](docs []T, search string, fields func(T) []string) []T {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return docs
	}
	out := docs[:0]
	for _, d := range docs {
		if slices.ContainsFunc(fields(d), func(f string) bool {
			return strings.Contains(strings.ToLower(f), search)
		}) {
			out = append(out, d)
		}
	}
	return out
}

func sortBy[T any](docs []T, field func(T) string, order string) {
	if field == nil {
		return
	}
	slices.SortStableFunc(docs, func(a, b T) int {
		c := cmp.Compare(field(a), field(b))
		if order == "desc" {
			return -c
		}
		return c
	})
}

func paginate[T any](docs []T, page, limit int) model.PageData[T] {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	total := len(docs)
	pages := max((total+limit-1)/limit, 1)

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	meta := model.PageMeta{
		TotalDocs:     total,
		PageSize:      limit,
		TotalPages:    pages,
		Page:          page,
		PagingCounter: start + 1,
		HasPrevPage:   page > 1,
		HasNextPage:   page < pages,
	}
	if meta.HasPrevPage {
		prev := page - 1
		meta.PrevPage = &prev
	}
	if meta.HasNextPage {
		next := page + 1
		meta.NextPage = &next
	}
	return model.PageData[T]{PageMeta: meta, Docs: slices.Clone(docs[start:end])}
}

var (
	products = []struct{ name, category, subcategory string }{
		{"iPhone 13 Pro", "Electronics", "Phones"},
		{"Mountain Bike", "Sports", "Cycling"},
		{"Leather Sofa", "Home", "Furniture"},
		{"Canon EOS 90D", "Electronics", "Cameras"},
		{"Toyota Corolla 2016", "Vehicles", "Cars"},
		{"Gaming Laptop", "Electronics", "Computers"},
		{"Dining Table", "Home", "Furniture"},
		{"Winter Jacket", "Fashion", "Clothing"},
	}
	cities = []struct{ city, zip string }{
		{"Austin", "73301"},
		{"Denver", "80201"},
		{"Seattle", "98101"},
		{"Boston", "02108"},
	}
	statuses    = []model.AdStatus{model.AdStatusActive, model.AdStatusActive, model.AdStatusActive, model.AdStatusBlocked, model.AdStatusDeleted}
	inventories = []model.InventoryStatus{model.InventoryAvailable, model.InventoryAvailable, model.InventorySold, model.InventoryUnlist}
)

// Seed adds n advertisements created over the last sixty days.
func (s *Store) Seed(n int) {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range n {
		p := products[i%len(products)]
		c := cities[i%len(cities)]
		created := now.Add(-time.Duration(i*60*24/max(n, 1)) * time.Hour).Format(time.RFC3339)
		s.ads = append(s.ads, model.AdvertisementDetail{
			Advertisement: model.Advertisement{
				AdvertisementID:    uuid.NewString(),
				ProductName:        p.name,
				ProductDescription: "Well kept " + strings.ToLower(p.name) + ", pickup only.",
				Views:              (i * 37) % 500,
				CategoryName:       p.category,
				SubcategoryName:    p.subcategory,
				Price:              strconv.Itoa(50+(i*73)%2000) + ".00",
				City:               c.city,
				Zip:                c.zip,
				Address:            strconv.Itoa(100+i) + " Main St",
				CreatedBy:          s.admin.AdminID,
				Status:             statuses[i%len(statuses)],
				InventoryDetails:   inventories[i%len(inventories)],
				CreatedAt:          created,
				UpdatedAt:          created,
			},
			UploadedBy: model.Uploader{
				FullName:    "Seller " + strconv.Itoa(i+1),
				Email:       "seller" + strconv.Itoa(i+1) + "@example.com",
				CountryCode: "+1",
				PhoneNumber: fmt.Sprintf("555%07d", i),
			},
		})
	}
}

// Add stores ad as is.
func (s *Store) Add(ad model.AdvertisementDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = append(s.ads, ad)
}
