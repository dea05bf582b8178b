package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"servicedirectory/internal/model"
	"servicedirectory/internal/service"
)

// ServiceHandler handles directory endpoints.
type ServiceHandler struct {
	directoryService service.DirectoryService
}

// NewServiceHandler creates a new service handler.
func NewServiceHandler(directoryService service.DirectoryService) *ServiceHandler {
	return &ServiceHandler{directoryService: directoryService}
}

// SearchRequest represents a search by postal code and category.
type SearchRequest struct {
	Pincode         string `json:"pincode" validate:"required"`
	SelectedService string `json:"selectedService" validate:"required,category"`
}

// SearchResponse wraps the records matching a search.
type SearchResponse struct {
	FilteredServices []model.ServiceRecord `json:"filteredServices"`
}

// AddServiceRequest represents a new directory listing.
type AddServiceRequest struct {
	ServiceName   string              `json:"serviceName" validate:"required"`
	Pincode       string              `json:"pincode" validate:"required"`
	ServiceType   string              `json:"serviceType" validate:"required,category"`
	Address       string              `json:"address" validate:"required"`
	OpenTime      string              `json:"openTime" validate:"required"`
	CloseTime     string              `json:"closeTime" validate:"required"`
	GmapLink      string              `json:"gmapLink" validate:"omitempty,url"`
	Images        []string            `json:"images"`
	PrayerTimings model.PrayerTimings `json:"prayerTimings"`
}

// AddServiceResponse carries the stored record.
type AddServiceResponse struct {
	Message string               `json:"message"`
	Service *model.ServiceRecord `json:"service"`
}

func (r *AddServiceRequest) toRecord() *model.ServiceRecord {
	return &model.ServiceRecord{
		ServiceName:   r.ServiceName,
		Pincode:       r.Pincode,
		ServiceType:   model.Category(r.ServiceType),
		Address:       r.Address,
		OpenTime:      r.OpenTime,
		CloseTime:     r.CloseTime,
		GmapLink:      r.GmapLink,
		Images:        r.Images,
		PrayerTimings: r.PrayerTimings,
	}
}

// ListServices godoc
// @Summary List all services
// @Tags services
// @Produce json
// @Success 200 {array} model.ServiceRecord
// @Failure 500 {object} errors.ErrorResponse
// @Router /servicedetails [get]
func (h *ServiceHandler) ListServices(c echo.Context) error {
	records, err := h.directoryService.ListServices(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	if records == nil {
		records = []model.ServiceRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

// SearchServices godoc
// @Summary Search services by postal code and category
// @Tags services
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Search filter"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /getservice [post]
func (h *ServiceHandler) SearchServices(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(errInvalidBody)
	}

	if err := c.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	records, err := h.directoryService.SearchServices(c.Request().Context(), req.Pincode, req.SelectedService)
	if err != nil {
		return toHTTPError(err)
	}
	if records == nil {
		records = []model.ServiceRecord{}
	}
	return c.JSON(http.StatusOK, SearchResponse{FilteredServices: records})
}

// AddService godoc
// @Summary Add a service listing
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddServiceRequest true "Service listing"
// @Success 201 {object} AddServiceResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /addservice [post]
func (h *ServiceHandler) AddService(c echo.Context) error {
	var req AddServiceRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(errInvalidBody)
	}

	if err := c.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	record, err := h.directoryService.AddService(c.Request().Context(), req.toRecord())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, AddServiceResponse{
		Message: "service added successfully",
		Service: record,
	})
}
