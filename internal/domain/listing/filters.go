package listing

import (
	"fmt"
	"strings"
)

// PriceRange bounds the hourly price. Adjacent ranges share no price and
// leave no gap: "51-100" means above 50 up to 100.
type PriceRange struct {
	Key   string
	Above float64 // exclusive lower bound; negative means none
	UpTo  float64 // inclusive upper bound; zero means none
}

var priceRanges = map[string]PriceRange{
	"0-50":    {Key: "0-50", Above: -1, UpTo: 50},
	"51-100":  {Key: "51-100", Above: 50, UpTo: 100},
	"101-200": {Key: "101-200", Above: 100, UpTo: 200},
	"201+":    {Key: "201+", Above: 200},
}

// ParsePriceRange accepts "", "all" or one of the browse ranges.
func ParsePriceRange(s string) (*PriceRange, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return nil, nil
	}
	r, ok := priceRanges[s]
	if !ok {
		return nil, fmt.Errorf("%w: unknown price range %q", ErrValidation, s)
	}
	return &r, nil
}

func (r PriceRange) Contains(price float64) bool {
	if r.Above >= 0 && price <= r.Above {
		return false
	}
	if r.UpTo > 0 && price > r.UpTo {
		return false
	}
	return true
}

// Filters narrow customer browsing. Browsing always excludes listings that
// are not approved.
type Filters struct {
	Search   string
	Category Category
	Price    *PriceRange
}

// ParseFilters reads the browse query values; "all" disables a filter.
func ParseFilters(search, category, price string) (Filters, error) {
	f := Filters{Search: strings.TrimSpace(search)}

	category = strings.TrimSpace(category)
	if category != "" && category != "all" {
		switch c := Category(category); c {
		case CategoryGym, CategoryCoWorking, CategoryBanquet, CategoryCafe, CategoryOther:
			f.Category = c
		default:
			return Filters{}, fmt.Errorf("%w: unknown type %q", ErrValidation, category)
		}
	}

	r, err := ParsePriceRange(price)
	if err != nil {
		return Filters{}, err
	}
	f.Price = r
	return f, nil
}
