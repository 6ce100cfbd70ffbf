package catalog

import (
	"sort"
	"strings"
)

// Service categories
const (
	CategoryCertificates = "certificates"
	CategoryPermits      = "permits"
	CategoryIDs          = "ids"
	CategoryAssistance   = "assistance"
	CategoryHealth       = "health"
)

// ServiceType is a government service offered through the portal.
// Slug is stable; Name is the label shown to citizens and stored on applications.
type ServiceType struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// services offered by the portal, in display order
var services = []ServiceType{
	{"barangay-clearance", "Barangay Clearance", CategoryCertificates},
	{"birth-certificate", "Birth Certificate", CategoryCertificates},
	{"marriage-certificate", "Marriage Certificate", CategoryCertificates},
	{"death-certificate", "Death Certificate", CategoryCertificates},
	{"cenomar", "CENOMAR", CategoryCertificates},
	{"certificate-of-residency", "Certificate of Residency", CategoryCertificates},
	{"certificate-of-indigency", "Certificate of Indigency", CategoryCertificates},
	{"community-tax-certificate", "Community Tax Certificate", CategoryCertificates},
	{"police-clearance", "Police Clearance", CategoryCertificates},
	{"business-permit", "Business Permit", CategoryPermits},
	{"building-permit", "Building Permit", CategoryPermits},
	{"fencing-permit", "Fencing Permit", CategoryPermits},
	{"demolition-permit", "Demolition Permit", CategoryPermits},
	{"occupancy-permit", "Occupancy Permit", CategoryPermits},
	{"tricycle-franchise", "Tricycle Franchise", CategoryPermits},
	{"senior-citizen-id", "Senior Citizen ID", CategoryIDs},
	{"pwd-id", "PWD ID", CategoryIDs},
	{"solo-parent-id", "Solo Parent ID", CategoryIDs},
	{"medical-burial-assistance", "Medical/Burial Assistance", CategoryAssistance},
	{"financial-assistance", "Financial Assistance", CategoryAssistance},
	{"4ps-program", "4Ps Program", CategoryAssistance},
	{"health-sanitation-clearance", "Health & Sanitation Clearance", CategoryHealth},
	{"veterinary-certificate", "Veterinary Certificate", CategoryHealth},
}

// fees in PHP, keyed by slug. Services without an entry pay the default fee.
var fees = map[string]float64{
	"barangay-clearance":        50,
	"birth-certificate":         150,
	"marriage-certificate":      200,
	"police-clearance":          50,
	"business-permit":           500,
	"death-certificate":         150,
	"cenomar":                   150,
	"certificate-of-residency":  30,
	"senior-citizen-id":         0,
	"pwd-id":                    0,
	"solo-parent-id":            0,
	"certificate-of-indigency":  0,
	"community-tax-certificate": 75,
	"building-permit":           1000,
	"tricycle-franchise":        2000,
}

// DefaultFee is charged for services that have no fee entry
const DefaultFee = 100.0

// Catalog resolves services and their fees
type Catalog struct {
	defaultFee float64
	bySlug     map[string]ServiceType
	byName     map[string]ServiceType
}

// New creates a catalog charging defaultFee for services without a fee entry
func New(defaultFee float64) *Catalog {
	c := &Catalog{
		defaultFee: defaultFee,
		bySlug:     make(map[string]ServiceType, len(services)),
		byName:     make(map[string]ServiceType, len(services)),
	}
	for _, s := range services {
		c.bySlug[s.Slug] = s
		c.byName[s.Name] = s
	}
	return c
}

// Default returns a catalog using DefaultFee
func Default() *Catalog {
	return New(DefaultFee)
}

// Resolve finds a service by slug, then by exact display name
func (c *Catalog) Resolve(nameOrSlug string) (ServiceType, bool) {
	if s, ok := c.bySlug[nameOrSlug]; ok {
		return s, true
	}
	s, ok := c.byName[nameOrSlug]
	return s, ok
}

// FeeFor returns the fee of a service, or the default fee when the service
// is unknown or has no fee entry
func (c *Catalog) FeeFor(nameOrSlug string) float64 {
	s, ok := c.Resolve(nameOrSlug)
	if !ok {
		return c.defaultFee
	}
	if fee, ok := fees[s.Slug]; ok {
		return fee
	}
	return c.defaultFee
}

// DefaultFee returns the fee charged for services without an entry
func (c *Catalog) DefaultFee() float64 {
	return c.defaultFee
}

// Listing is a service with its fee
type Listing struct {
	ServiceType
	Fee float64 `json:"fee"`
}

// All lists every service with its fee, optionally filtered by category
func (c *Catalog) All(category string) []Listing {
	out := make([]Listing, 0, len(services))
	for _, s := range services {
		if category != "" && s.Category != category {
			continue
		}
		out = append(out, Listing{ServiceType: s, Fee: c.FeeFor(s.Slug)})
	}
	return out
}

// Categories returns the distinct categories, sorted
func (c *Catalog) Categories() []string {
	seen := map[string]struct{}{}
	for _, s := range services {
		seen[s.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TypeCode derives the id prefix for a service: the first letter of each
// word, uppercased, at most three letters. Known services use their slug so
// the label and slug give the same code. Returns "APP" when no letters exist.
func (c *Catalog) TypeCode(nameOrSlug string) string {
	key := nameOrSlug
	if s, ok := c.Resolve(nameOrSlug); ok {
		key = s.Slug
	}
	return Initials(key)
}

// Initials returns the uppercased first ASCII letter of each word of s,
// at most three. Words are separated by spaces, hyphens, underscores or slashes.
func Initials(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/' || r == '\t'
	})

	var b strings.Builder
	for _, w := range words {
		if b.Len() == 3 {
			break
		}
		for _, r := range w {
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			if r >= 'A' && r <= 'Z' {
				b.WriteRune(r)
				break
			}
		}
	}

	if b.Len() == 0 {
		return "APP"
	}
	return b.String()
}
