package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping or billing address
// It is immutable - all operations return new Address instances
type Address struct {
	line1      string
	line2      string
	city       string
	region     string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLine2 sets the second address line (apartment, suite, etc.)
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithCountry sets the country for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates a new Address with the required fields
// Line1, city, region, and postal code are required; line2 is optional
func NewAddress(line1, city, region, postalCode string, opts ...AddressOption) (Address, error) {
	line1 = strings.TrimSpace(line1)
	city = strings.TrimSpace(city)
	region = strings.TrimSpace(region)
	postalCode = strings.TrimSpace(postalCode)

	if line1 == "" {
		return Address{}, fmt.Errorf("address line cannot be empty")
	}
	if len(line1) > 200 {
		return Address{}, fmt.Errorf("address line cannot exceed 200 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if region == "" {
		return Address{}, fmt.Errorf("region cannot be empty")
	}
	if len(region) > 100 {
		return Address{}, fmt.Errorf("region cannot exceed 100 characters")
	}
	if postalCode == "" {
		return Address{}, fmt.Errorf("postal code cannot be empty")
	}
	if len(postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}

	addr := Address{
		line1:      line1,
		city:       city,
		region:     region,
		postalCode: postalCode,
		country:    "US",
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if addr.country == "" || len(addr.country) > 100 {
		return Address{}, fmt.Errorf("country must be between 1 and 100 characters")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(line1, city, region, postalCode string, opts ...AddressOption) Address {
	addr, err := NewAddress(line1, city, region, postalCode, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Line1 returns the first address line
func (a Address) Line1() string {
	return a.line1
}

// Line2 returns the second address line
func (a Address) Line2() string {
	return a.line2
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Region returns the state/province/region
func (a Address) Region() string {
	return a.region
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address has no content
func (a Address) IsEmpty() bool {
	return a.line1 == "" && a.city == "" && a.region == "" && a.postalCode == ""
}

// Equals returns true if both addresses are identical
func (a Address) Equals(other Address) bool {
	return a.line1 == other.line1 &&
		a.line2 == other.line2 &&
		a.city == other.city &&
		a.region == other.region &&
		a.postalCode == other.postalCode &&
		a.country == other.country
}

// String returns a single-line representation of the address
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.line1, a.line2, a.city, a.region, a.postalCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type addressJSON struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		Region:     a.region,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	a.line1 = v.Line1
	a.line2 = v.Line2
	a.city = v.City
	a.region = v.Region
	a.postalCode = v.PostalCode
	a.country = v.Country
	return nil
}

// Value implements driver.Valuer, storing the address as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(addressJSON{
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		Region:     a.region,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	return a.UnmarshalJSON(data)
}
