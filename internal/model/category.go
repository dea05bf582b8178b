package model

import "strings"

// Category is the closed set of service kinds a record can be listed under.
type Category string

const (
	CategoryReligious Category = "religious"
	CategoryHotel     Category = "hotel"
	CategoryHospital  Category = "hospital"
)

// Categories lists every supported category in display order.
var Categories = []Category{CategoryReligious, CategoryHotel, CategoryHospital}

// ParseCategory normalises s (trim, lower-case) and reports whether it names
// a supported category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
