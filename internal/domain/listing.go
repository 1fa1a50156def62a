package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	ListingTypePackage = "PACKAGE"
	ListingTypeItem    = "ITEM"
)

// Listing is a search result entity. Only the fields the engine inspects are
// modeled; everything else the backend sends is ignored.
type Listing struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	CategoryID         string   `json:"categoryId"`
	CustomCategoryName string   `json:"customCategoryName,omitempty"`
	EventTypeIDs       IntList  `json:"eventTypeIds"`
	Price              Price    `json:"price"`
	VendorID           string   `json:"vendorId"`
	VendorName         string   `json:"vendorName"`
	Description        string   `json:"description"`
	Images             []string `json:"images"`
}

// IsPackage reports whether the listing is the package variant. The backend
// has emitted both spellings over time.
func (l Listing) IsPackage() bool {
	return strings.EqualFold(l.Type, ListingTypePackage)
}

// Vendor is a vendor-search result entity.
type Vendor struct {
	ID                 string  `json:"id"`
	BusinessName       string  `json:"businessName"`
	Name               string  `json:"name"`
	CategoryID         string  `json:"categoryId"`
	CustomCategoryName string  `json:"customCategoryName,omitempty"`
	CityName           string  `json:"cityName"`
	Rating             float64 `json:"rating"`
	ReviewCount        int     `json:"reviewCount"`
}

// IntList unmarshals an array whose entries may arrive as JSON numbers or as
// stringified numbers. Unparseable entries are dropped.
type IntList []int

func (il *IntList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(IntList, 0, len(raw))
	for _, entry := range raw {
		var n int
		if err := json.Unmarshal(entry, &n); err == nil {
			out = append(out, n)
			continue
		}
		var s string
		if err := json.Unmarshal(entry, &s); err != nil {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			out = append(out, n)
		}
	}
	*il = out
	return nil
}

// Contains reports whether id is a member of the list.
func (il IntList) Contains(id int) bool {
	for _, n := range il {
		if n == id {
			return true
		}
	}
	return false
}

// Price unmarshals a JSON number or a stringified number. Malformed values
// decode to zero rather than failing the whole listing.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = Price(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = 0
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = Price(f)
	return nil
}

// ResultPage is one page of a paginated listing fetch.
type ResultPage struct {
	Items  []Listing
	Offset int
	Limit  int
}

// Last reports whether this page is the final one of the result set.
func (p ResultPage) Last() bool {
	return len(p.Items) < p.Limit
}
