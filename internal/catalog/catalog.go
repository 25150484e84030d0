// Package catalog lists the salon's bookable services and the staff who perform them.
package catalog

import (
	"errors"
	"strings"
)

// Category groups services on the services page.
type Category string

const (
	CategoryHair   Category = "hair"
	CategoryNails  Category = "nails"
	CategoryFacial Category = "facial"
)

var (
	// ErrServiceNotFound is returned when a service id is not in the catalog.
	ErrServiceNotFound = errors.New("catalog: service not found")
	// ErrStaffNotFound is returned when a staff id is not in the catalog.
	ErrStaffNotFound = errors.New("catalog: staff member not found")
	// ErrUnknownCategory is returned when filtering by a category that does not exist.
	ErrUnknownCategory = errors.New("catalog: unknown category")
)

// Service is one bookable offering. Price is a display range such as "$85-120".
type Service struct {
	ID          int      `json:"id"`
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Duration    string   `json:"duration"`
	Popular     bool     `json:"popular"`
}

// Staff is a provider clients can book with.
type Staff struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Specialties []string `json:"specialties"`
	Rating      float64  `json:"rating"`
}

// Catalog is an immutable set of services and staff.
type Catalog struct {
	services []Service
	staff    []Staff
}

// New builds a catalog from the given records, keeping their order.
func New(services []Service, staff []Staff) *Catalog {
	c := &Catalog{
		services: make([]Service, len(services)),
		staff:    make([]Staff, len(staff)),
	}
	copy(c.services, services)
	for i, s := range staff {
		c.staff[i] = s.clone()
	}
	return c
}

// Default is the salon's published menu.
func Default() *Catalog {
	return New(defaultServices, defaultStaff)
}

// Services returns services in menu order, optionally narrowed to one category.
// An empty category or "all" returns everything.
func (c *Catalog) Services(category string) ([]Service, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "all" {
		return append([]Service(nil), c.services...), nil
	}
	if !validCategory(Category(category)) {
		return nil, ErrUnknownCategory
	}
	var out []Service
	for _, s := range c.services {
		if s.Category == Category(category) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Service looks a service up by id.
func (c *Catalog) Service(id int) (Service, error) {
	for _, s := range c.services {
		if s.ID == id {
			return s, nil
		}
	}
	return Service{}, ErrServiceNotFound
}

// StaffMembers returns every provider in display order.
func (c *Catalog) StaffMembers() []Staff {
	out := make([]Staff, len(c.staff))
	for i, s := range c.staff {
		out[i] = s.clone()
	}
	return out
}

// StaffMember looks a provider up by id.
func (c *Catalog) StaffMember(id int) (Staff, error) {
	for _, s := range c.staff {
		if s.ID == id {
			return s.clone(), nil
		}
	}
	return Staff{}, ErrStaffNotFound
}

func (s Staff) clone() Staff {
	s.Specialties = append([]string(nil), s.Specialties...)
	return s
}

func validCategory(c Category) bool {
	switch c {
	case CategoryHair, CategoryNails, CategoryFacial:
		return true
	}
	return false
}

var defaultServices = []Service{
	{ID: 1, Category: CategoryHair, Name: "Precision Cut & Style", Description: "Expert cutting and styling tailored to your face shape and lifestyle", Price: "$85-120", Duration: "90 min", Popular: true},
	{ID: 2, Category: CategoryHair, Name: "Color & Highlights", Description: "Professional coloring services including balayage, highlights, and full color", Price: "$120-250", Duration: "2-3 hours"},
	{ID: 3, Category: CategoryHair, Name: "Keratin Treatment", Description: "Smoothing treatment that eliminates frizz and reduces styling time", Price: "$200-300", Duration: "2.5 hours"},
	{ID: 4, Category: CategoryNails, Name: "Luxury Manicure", Description: "Complete nail care with cuticle treatment, shaping, and polish", Price: "$45-65", Duration: "60 min", Popular: true},
	{ID: 5, Category: CategoryNails, Name: "Gel Nail Extensions", Description: "Long-lasting gel extensions with your choice of length and design", Price: "$75-95", Duration: "90 min"},
	{ID: 6, Category: CategoryNails, Name: "Spa Pedicure", Description: "Relaxing foot treatment with exfoliation, massage, and nail care", Price: "$55-75", Duration: "75 min"},
	{ID: 7, Category: CategoryFacial, Name: "Deep Cleansing Facial", Description: "Purifying treatment for clear, healthy-looking skin", Price: "$120-150", Duration: "75 min", Popular: true},
	{ID: 8, Category: CategoryFacial, Name: "Anti-Aging Facial", Description: "Advanced treatment to reduce fine lines and improve skin texture", Price: "$180-220", Duration: "90 min"},
	{ID: 9, Category: CategoryFacial, Name: "Hydrating Facial", Description: "Moisture-rich treatment for dry and dehydrated skin", Price: "$140-170", Duration: "75 min"},
}

var defaultStaff = []Staff{
	{ID: 1, Name: "Isabella Martinez", Role: "Master Stylist", Specialties: []string{"Hair Cutting", "Color", "Styling"}, Rating: 4.9},
	{ID: 2, Name: "Sophia Chen", Role: "Senior Colorist", Specialties: []string{"Color", "Highlights", "Balayage"}, Rating: 4.8},
	{ID: 3, Name: "Emma Thompson", Role: "Nail Artist", Specialties: []string{"Manicure", "Pedicure", "Nail Art"}, Rating: 4.9},
	{ID: 4, Name: "Maya Patel", Role: "Esthetician", Specialties: []string{"Facials", "Skincare", "Anti-aging treatments"}, Rating: 4.7},
}

// Salon is the business contact block printed on confirmations.
type Salon struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// DefaultSalon is the flagship location.
func DefaultSalon() Salon {
	return Salon{
		Name:    "Luxe Salon",
		Phone:   "+1 (555) 123-4567",
		Email:   "info@luxesalon.com",
		Address: "123 Beauty Street, NY 10001",
	}
}
