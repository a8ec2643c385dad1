package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/repository"
)

// AirportHandler exposes airport CRUD.  Writes are admin-only (the
// router enforces the role); reads are public.
type AirportHandler struct {
	Airports *repository.AirportRepo
}

func NewAirportHandler(a *repository.AirportRepo) *AirportHandler {
	if a == nil {
		panic("nil repository passed to NewAirportHandler")
	}
	return &AirportHandler{Airports: a}
}

type airportReq struct {
	Name           string  `json:"name"`
	IATACode       string  `json:"iata_code"`
	ICAOCode       string  `json:"icao_code"`
	ClosestBigCity string  `json:"closest_big_city"`
	Timezone       string  `json:"timezone"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

type airportResp struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	IATACode       string  `json:"iata_code"`
	ICAOCode       string  `json:"icao_code"`
	ClosestBigCity string  `json:"closest_big_city"`
	Timezone       string  `json:"timezone"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LocalTime      string  `json:"local_time,omitempty"`
}

func toAirportResp(a model.Airport, withTime bool) airportResp {
	r := airportResp{
		ID:             a.ID,
		Name:           a.Name,
		IATACode:       a.IATACode,
		ICAOCode:       a.ICAOCode,
		ClosestBigCity: a.ClosestBigCity,
		Timezone:       a.Timezone,
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
	}
	if withTime {
		r.LocalTime = a.CurrentTime(time.Now())
	}
	return r
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// validate normalizes the request in place and reports the first
// problem as a user-facing message.
func (r *airportReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.IATACode = strings.ToUpper(strings.TrimSpace(r.IATACode))
	r.ICAOCode = strings.ToUpper(strings.TrimSpace(r.ICAOCode))
	r.ClosestBigCity = strings.TrimSpace(r.ClosestBigCity)
	r.Timezone = strings.TrimSpace(r.Timezone)
	if r.Name == "" {
		return "name is required"
	}
	if len(r.IATACode) != 3 || !isAlpha(r.IATACode) {
		return "iata_code must be 3 letters"
	}
	if len(r.ICAOCode) != 4 || !isAlpha(r.ICAOCode) {
		return "icao_code must be 4 letters"
	}
	if _, err := time.LoadLocation(r.Timezone); err != nil || r.Timezone == "" {
		return "timezone must be a valid IANA name"
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return "latitude out of range"
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return "longitude out of range"
	}
	return ""
}

// Create handles POST /v1/airports.
func (h *AirportHandler) Create(c echo.Context) error {
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a := model.Airport{
		Name:           req.Name,
		IATACode:       req.IATACode,
		ICAOCode:       req.ICAOCode,
		ClosestBigCity: req.ClosestBigCity,
		Timezone:       req.Timezone,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}
	if err := h.Airports.Create(c.Request().Context(), &a); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "iata_code or icao_code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airport failed"})
	}
	return c.JSON(http.StatusCreated, toAirportResp(a, false))
}

// Update handles PUT /v1/airports/:id.
func (h *AirportHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport id"})
	}
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a := model.Airport{
		ID:             id,
		Name:           req.Name,
		IATACode:       req.IATACode,
		ICAOCode:       req.ICAOCode,
		ClosestBigCity: req.ClosestBigCity,
		Timezone:       req.Timezone,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}
	if err := h.Airports.Update(c.Request().Context(), &a); err != nil {
		switch err {
		case repository.ErrAirportNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "iata_code or icao_code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update airport failed"})
	}
	return c.JSON(http.StatusOK, toAirportResp(a, false))
}

// Delete handles DELETE /v1/airports/:id.  An airport referenced by
// routes cannot be removed.
func (h *AirportHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport id"})
	}
	if err := h.Airports.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrAirportNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "airport is referenced by routes"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airport failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/airports/:id.  The detail view includes the
// current wall-clock time at the airport.
func (h *AirportHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport id"})
	}
	a, err := h.Airports.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAirportNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airport failed"})
	}
	return c.JSON(http.StatusOK, toAirportResp(a, true))
}

// List handles GET /v1/airports with optional ?name= and ?city=
// substring filters.
func (h *AirportHandler) List(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	city := strings.TrimSpace(c.QueryParam("city"))
	airports, err := h.Airports.List(c.Request().Context(), name, city)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airports failed"})
	}
	items := make([]airportResp, 0, len(airports))
	for _, a := range airports {
		items = append(items, toAirportResp(a, false))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
