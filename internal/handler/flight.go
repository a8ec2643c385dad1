package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/pricing"
	"github.com/iliyamo/flight-reservation/internal/repository"
	"github.com/iliyamo/flight-reservation/internal/staffing"
)

// FlightHandler exposes flight CRUD and the public flight browse
// endpoints.  Every write re-validates the assigned crew against the
// staffing rules; every read quotes the current ticket price.
type FlightHandler struct {
	Cfg       config.Config
	Flights   *repository.FlightRepo
	Routes    *repository.RouteRepo
	Airplanes *repository.AirplaneRepo
	Crew      *repository.CrewRepo
	Tickets   *repository.TicketRepo
}

func NewFlightHandler(cfg config.Config, f *repository.FlightRepo, r *repository.RouteRepo, a *repository.AirplaneRepo, cr *repository.CrewRepo, t *repository.TicketRepo) *FlightHandler {
	if f == nil || r == nil || a == nil || cr == nil || t == nil {
		panic("nil repository passed to NewFlightHandler")
	}
	return &FlightHandler{Cfg: cfg, Flights: f, Routes: r, Airplanes: a, Crew: cr, Tickets: t}
}

type flightReq struct {
	AirplaneID    uint64   `json:"airplane_id"`
	RouteID       uint64   `json:"route_id"`
	DepartureTime string   `json:"departure_time"` // RFC 3339
	ArrivalTime   string   `json:"arrival_time"`   // RFC 3339
	CrewIDs       []uint64 `json:"crew_ids"`
}

type flightResp struct {
	ID             uint64  `json:"id"`
	RouteID        uint64  `json:"route_id"`
	AirplaneID     uint64  `json:"airplane_id"`
	Source         string  `json:"source"`
	Destination    string  `json:"destination"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	DepartureLocal string  `json:"departure_local"`
	ArrivalLocal   string  `json:"arrival_local"`
	Status         string  `json:"status"`
	Price          float64 `json:"price"`
	DistanceKM     int64   `json:"distance_km"`
	AirplaneModel  string  `json:"airplane_model"`
	Manufacturer   string  `json:"manufacturer"`
	TotalSeats     uint32  `json:"total_seats"`
	BookedSeats    uint32  `json:"booked_seats"`
	AvailableSeats uint32  `json:"available_seats"`
}

func localTime(t time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.RFC3339)
}

func (h *FlightHandler) toFlightResp(l repository.FlightListing, now time.Time) flightResp {
	quote := pricing.FlightQuote{
		DistanceKM:    l.DistanceKM,
		DepartureTime: l.Flight.DepartureTime,
		ArrivalTime:   l.Flight.ArrivalTime,
		TotalSeats:    l.TotalSeats,
		BookedSeats:   l.BookedSeats,
	}
	return flightResp{
		ID:             l.Flight.ID,
		RouteID:        l.Flight.RouteID,
		AirplaneID:     l.Flight.AirplaneID,
		Source:         l.SourceIATA,
		Destination:    l.DestIATA,
		DepartureTime:  l.Flight.DepartureTime.UTC().Format(time.RFC3339),
		ArrivalTime:    l.Flight.ArrivalTime.UTC().Format(time.RFC3339),
		DepartureLocal: localTime(l.Flight.DepartureTime, l.SourceTZ),
		ArrivalLocal:   localTime(l.Flight.ArrivalTime, l.DestTZ),
		Status:         l.Flight.Status(now),
		Price:          h.Cfg.Pricing.Quote(quote, now),
		DistanceKM:     l.DistanceKM,
		AirplaneModel:  l.AirplaneModel,
		Manufacturer:   l.Manufacturer,
		TotalSeats:     l.TotalSeats,
		BookedSeats:    l.BookedSeats,
		AvailableSeats: l.TotalSeats - l.BookedSeats,
	}
}

// validateSave checks everything a flight write needs: the schedule
// window, the referenced airplane and route, and the staffing rules
// for the assigned crew.  It returns either a ready model or an HTTP
// status plus payload describing what failed.
func (h *FlightHandler) validateSave(c echo.Context, req flightReq, excludeFlightID uint64) (model.Flight, []uint64, int, echo.Map) {
	dep, err := time.Parse(time.RFC3339, strings.TrimSpace(req.DepartureTime))
	if err != nil {
		return model.Flight{}, nil, http.StatusBadRequest, echo.Map{"error": "departure_time must be RFC 3339"}
	}
	arr, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ArrivalTime))
	if err != nil {
		return model.Flight{}, nil, http.StatusBadRequest, echo.Map{"error": "arrival_time must be RFC 3339"}
	}
	window := staffing.Window{Departure: dep, Arrival: arr}
	if !window.Valid() {
		return model.Flight{}, nil, http.StatusBadRequest, echo.Map{
			"error": "crew validation failed",
			"violations": []staffing.Violation{{
				Rule:    staffing.RuleWindow,
				Message: "departure_time must be before arrival_time",
			}},
		}
	}
	if req.AirplaneID == 0 || req.RouteID == 0 {
		return model.Flight{}, nil, http.StatusBadRequest, echo.Map{"error": "airplane_id and route_id are required"}
	}

	ctx := c.Request().Context()
	plane, err := h.Airplanes.GetByID(ctx, req.AirplaneID)
	if err != nil {
		if err == repository.ErrAirplaneNotFound {
			return model.Flight{}, nil, http.StatusBadRequest, echo.Map{"error": "airplane not found"}
		}
		return model.Flight{}, nil, http.StatusInternalServerError, echo.Map{"error": "load airplane failed"}
	}
	if plane.Status != model.AirplaneStatusActive {
		return model.Flight{}, nil, http.StatusBadRequest, echo.Map{"error": "airplane is not ACTIVE"}
	}
	if _, err := h.Routes.GetByID(ctx, req.RouteID); err != nil {
		if err == repository.ErrRouteNotFound {
			return model.Flight{}, nil, http.StatusBadRequest, echo.Map{"error": "route not found"}
		}
		return model.Flight{}, nil, http.StatusInternalServerError, echo.Map{"error": "load route failed"}
	}

	// dedupe crew IDs before the lookups
	crewIDs := make([]uint64, 0, len(req.CrewIDs))
	seen := make(map[uint64]bool, len(req.CrewIDs))
	for _, id := range req.CrewIDs {
		if id != 0 && !seen[id] {
			seen[id] = true
			crewIDs = append(crewIDs, id)
		}
	}
	members, err := h.Crew.GetByIDs(ctx, crewIDs)
	if err != nil {
		if err == repository.ErrCrewNotFound {
			return model.Flight{}, nil, http.StatusBadRequest, echo.Map{"error": "one or more crew members not found"}
		}
		return model.Flight{}, nil, http.StatusInternalServerError, echo.Map{"error": "load crew failed"}
	}
	busy, err := h.Crew.BusyDuring(ctx, crewIDs, dep, arr, excludeFlightID)
	if err != nil {
		return model.Flight{}, nil, http.StatusInternalServerError, echo.Map{"error": "check crew availability failed"}
	}
	if violations := staffing.Validate(members, window, time.Now().UTC(), busy); len(violations) > 0 {
		return model.Flight{}, nil, http.StatusBadRequest, echo.Map{
			"error":      "crew validation failed",
			"violations": violations,
		}
	}

	return model.Flight{
		AirplaneID:    req.AirplaneID,
		RouteID:       req.RouteID,
		DepartureTime: dep,
		ArrivalTime:   arr,
	}, crewIDs, 0, nil
}

// Create handles POST /v1/flights.
func (h *FlightHandler) Create(c echo.Context) error {
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, crewIDs, code, payload := h.validateSave(c, req, 0)
	if payload != nil {
		return c.JSON(code, payload)
	}
	if err := h.Flights.Create(c.Request().Context(), &f, crewIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create flight failed"})
	}
	l, err := h.Flights.GetListing(c.Request().Context(), f.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
	}
	return c.JSON(http.StatusCreated, h.toFlightResp(l, time.Now().UTC()))
}

// Update handles PUT /v1/flights/:id.  The flight itself is excluded
// from the crew availability check so rescheduling within the same
// window does not conflict with itself.
func (h *FlightHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, crewIDs, code, payload := h.validateSave(c, req, id)
	if payload != nil {
		return c.JSON(code, payload)
	}
	f.ID = id
	if err := h.Flights.Update(c.Request().Context(), &f, crewIDs); err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update flight failed"})
	}
	l, err := h.Flights.GetListing(c.Request().Context(), f.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
	}
	return c.JSON(http.StatusOK, h.toFlightResp(l, time.Now().UTC()))
}

// Delete handles DELETE /v1/flights/:id.  A flight with sold tickets
// cannot be removed.
func (h *FlightHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	if err := h.Flights.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrFlightNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight has sold tickets"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete flight failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/flights/:id.  The detail view adds the crew
// roster and the occupied seats so clients can render a seat map.
func (h *FlightHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	ctx := c.Request().Context()
	l, err := h.Flights.GetListing(ctx, id)
	if err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
	}
	now := time.Now().UTC()
	crew, err := h.Flights.Crew(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load crew failed"})
	}
	taken, err := h.Tickets.TakenSeats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load taken seats failed"})
	}
	crewItems := make([]crewResp, 0, len(crew))
	for _, m := range crew {
		crewItems = append(crewItems, toCrewResp(m, now))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"flight":      h.toFlightResp(l, now),
		"crew":        crewItems,
		"taken_seats": taken,
	})
}

// List handles GET /v1/flights with optional ?route_id= and
// ?date=YYYY-MM-DD filters.
func (h *FlightHandler) List(c echo.Context) error {
	var routeID uint64
	if raw := strings.TrimSpace(c.QueryParam("route_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route_id"})
		}
		routeID = id
	}
	var day *time.Time
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		day = &d
	}
	listings, err := h.Flights.List(c.Request().Context(), routeID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flights failed"})
	}
	now := time.Now().UTC()
	items := make([]flightResp, 0, len(listings))
	for _, l := range listings {
		items = append(items, h.toFlightResp(l, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
