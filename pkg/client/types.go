// Package client is the query and submission layer used by directory front
// ends. It validates form input against the same required-field contract the
// server enforces, talks to the HTTP API and keeps the local session.
package client

import "time"

// Categories accepted by the directory.
const (
	CategoryReligious = "religious"
	CategoryHotel     = "hotel"
	CategoryHospital  = "hospital"
)

// Categories lists every accepted category.
var Categories = []string{CategoryReligious, CategoryHotel, CategoryHospital}

// PrayerTime is the call and congregation time of one prayer.
type PrayerTime struct {
	Azan   string `json:"azan,omitempty"`
	Iqamah string `json:"iqamah,omitempty"`
}

// Service is a directory entry as returned by the API.
type Service struct {
	ID            string                `json:"id"`
	ServiceName   string                `json:"serviceName"`
	Pincode       string                `json:"pincode"`
	ServiceType   string                `json:"serviceType"`
	Address       string                `json:"address"`
	OpenTime      string                `json:"openTime"`
	CloseTime     string                `json:"closeTime"`
	GmapLink      string                `json:"gmapLink,omitempty"`
	Images        []string              `json:"images,omitempty"`
	PrayerTimings map[string]PrayerTime `json:"prayerTimings,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// User is the account summary returned by login.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type searchRequest struct {
	Pincode         string `json:"pincode"`
	SelectedService string `json:"selectedService"`
}

type searchResponse struct {
	FilteredServices []Service `json:"filteredServices"`
}

type addServiceRequest struct {
	ServiceName   string                `json:"serviceName"`
	Pincode       string                `json:"pincode"`
	ServiceType   string                `json:"serviceType"`
	Address       string                `json:"address"`
	OpenTime      string                `json:"openTime"`
	CloseTime     string                `json:"closeTime"`
	GmapLink      string                `json:"gmapLink,omitempty"`
	Images        []string              `json:"images,omitempty"`
	PrayerTimings map[string]PrayerTime `json:"prayerTimings,omitempty"`
}

type addServiceResponse struct {
	Message string  `json:"message"`
	Service Service `json:"service"`
}

type registerRequest struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message      string    `json:"message"`
	User         User      `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
