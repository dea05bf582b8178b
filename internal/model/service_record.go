package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "servicedirectory/internal/errors"
)

// ServiceRecord is one directory entry (a mosque, hotel, hospital, ...).
type ServiceRecord struct {
	ID            string                      `json:"id" gorm:"type:char(36);primaryKey" bson:"_id"`
	ServiceName   string                      `json:"serviceName" gorm:"size:255;not null" bson:"serviceName"`
	Pincode       string                      `json:"pincode" gorm:"size:16;not null;index:idx_pincode_type" bson:"pincode"`
	ServiceType   Category                    `json:"serviceType" gorm:"type:varchar(32);not null;index:idx_pincode_type" bson:"serviceType"`
	Address       string                      `json:"address" gorm:"size:512;not null" bson:"address"`
	OpenTime      string                      `json:"openTime" gorm:"size:32;not null" bson:"openTime"`
	CloseTime     string                      `json:"closeTime" gorm:"size:32;not null" bson:"closeTime"`
	GmapLink      string                      `json:"gmapLink,omitempty" gorm:"size:1024" bson:"gmapLink,omitempty"`
	Images        datatypes.JSONSlice[string] `json:"images,omitempty" bson:"images,omitempty"`
	PrayerTimings PrayerTimings               `json:"prayerTimings,omitempty" bson:"prayerTimings,omitempty"`
	CreatedAt     time.Time                   `json:"createdAt" bson:"createdAt"`
}

// TableName keeps the collection name used by the mobile backend.
func (ServiceRecord) TableName() string {
	return "service_details"
}

// BeforeCreate sets the ID before creating the record.
func (s *ServiceRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Normalize trims free-text fields and lower-cases the category.
func (s *ServiceRecord) Normalize() {
	s.ServiceName = strings.TrimSpace(s.ServiceName)
	s.Pincode = strings.TrimSpace(s.Pincode)
	s.Address = strings.TrimSpace(s.Address)
	s.OpenTime = strings.TrimSpace(s.OpenTime)
	s.CloseTime = strings.TrimSpace(s.CloseTime)
	s.GmapLink = strings.TrimSpace(s.GmapLink)
	s.ServiceType, _ = ParseCategory(string(s.ServiceType))
}

// Validate reports every required field that is missing or malformed.
func (s *ServiceRecord) Validate() error {
	var fields []string
	if strings.TrimSpace(s.ServiceName) == "" {
		fields = append(fields, "serviceName")
	}
	if strings.TrimSpace(s.Pincode) == "" {
		fields = append(fields, "pincode")
	}
	if _, ok := ParseCategory(string(s.ServiceType)); !ok {
		fields = append(fields, "serviceType")
	}
	if strings.TrimSpace(s.Address) == "" {
		fields = append(fields, "address")
	}
	if strings.TrimSpace(s.OpenTime) == "" {
		fields = append(fields, "openTime")
	}
	if strings.TrimSpace(s.CloseTime) == "" {
		fields = append(fields, "closeTime")
	}
	if link := strings.TrimSpace(s.GmapLink); link != "" {
		if u, err := url.ParseRequestURI(link); err != nil || u.Host == "" {
			fields = append(fields, "gmapLink")
		}
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields...)
	}
	return nil
}

// PrayerTime holds the call and congregation times of one prayer.
type PrayerTime struct {
	Azan   string `json:"azan" bson:"azan"`
	Iqamah string `json:"iqamah,omitempty" bson:"iqamah,omitempty"`
}

// PrayerTimings maps a prayer name (fajr, dhuhr, jumuah, ...) to its times.
// It is stored as a JSON column.
type PrayerTimings map[string]PrayerTime

// GormDataType implements schema.GormDataTypeInterface.
func (PrayerTimings) GormDataType() string {
	return "json"
}

// Value implements driver.Valuer.
func (p PrayerTimings) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *PrayerTimings) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan prayer timings: unsupported type %T", value)
	}
	if len(raw) == 0 {
		*p = nil
		return nil
	}
	return json.Unmarshal(raw, p)
}
