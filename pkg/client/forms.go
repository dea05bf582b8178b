package client

import (
	"net/url"
	"strings"
)

// FormError lists the form fields that must be corrected before a request
// can be sent.
type FormError struct {
	Fields  []string
	Message string
}

func (e *FormError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "please fill in: " + strings.Join(e.Fields, ", ")
}

type fieldCheck struct {
	fields []string
}

func (c *fieldCheck) require(name, value string) {
	if strings.TrimSpace(value) == "" {
		c.fields = append(c.fields, name)
	}
}

func (c *fieldCheck) add(name string) {
	c.fields = append(c.fields, name)
}

func (c *fieldCheck) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &FormError{Fields: c.fields}
}

// NormalizeCategory trims and lower-cases s and reports whether it is one of
// Categories.
func NormalizeCategory(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if s == c {
			return s, true
		}
	}
	return s, false
}

// SearchForm is the search screen input.
type SearchForm struct {
	Pincode  string
	Category string
}

// Validate requires both the postal code and a known category.
func (f SearchForm) Validate() error {
	var c fieldCheck
	c.require("pincode", f.Pincode)
	if _, ok := NormalizeCategory(f.Category); !ok {
		c.add("selectedService")
	}
	return c.err()
}

// SubmissionForm is the add-listing screen input. ImagePaths are local files
// attached as data URLs on submit.
type SubmissionForm struct {
	ServiceName   string
	Pincode       string
	Category      string
	Address       string
	OpenTime      string
	CloseTime     string
	GmapLink      string
	ImagePaths    []string
	PrayerTimings map[string]PrayerTime
}

// Validate checks the required fields, the category and the map link.
func (f SubmissionForm) Validate() error {
	var c fieldCheck
	c.require("serviceName", f.ServiceName)
	c.require("pincode", f.Pincode)
	if _, ok := NormalizeCategory(f.Category); !ok {
		c.add("serviceType")
	}
	c.require("address", f.Address)
	c.require("openTime", f.OpenTime)
	c.require("closeTime", f.CloseTime)
	if link := strings.TrimSpace(f.GmapLink); link != "" {
		if u, err := url.ParseRequestURI(link); err != nil || u.Host == "" {
			c.add("gmapLink")
		}
	}
	return c.err()
}

// LoginForm is the login screen input.
type LoginForm struct {
	Email    string
	Password string
}

// Validate requires both fields.
func (f LoginForm) Validate() error {
	var c fieldCheck
	c.require("email", f.Email)
	if f.Password == "" {
		c.add("password")
	}
	return c.err()
}

// MaxPasswordBytes is the longest password the server accepts.
const MaxPasswordBytes = 72

// RegisterForm is the sign-up screen input.
type RegisterForm struct {
	Name            string
	Mobile          string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate requires name, email and matching passwords.
func (f RegisterForm) Validate() error {
	var c fieldCheck
	c.require("name", f.Name)
	c.require("email", f.Email)
	if f.Password == "" {
		c.add("password")
	}
	if f.ConfirmPassword == "" {
		c.add("confirmPassword")
	}
	if err := c.err(); err != nil {
		return err
	}
	if f.Password != f.ConfirmPassword {
		return &FormError{Fields: []string{"confirmPassword"}, Message: "passwords do not match"}
	}
	if len(f.Password) > MaxPasswordBytes {
		return &FormError{Fields: []string{"password"}, Message: "password is too long"}
	}
	return nil
}
