package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/repository"
)

// AirplaneHandler exposes CRUD for airplane types and airplanes.
type AirplaneHandler struct {
	Airplanes *repository.AirplaneRepo
}

func NewAirplaneHandler(a *repository.AirplaneRepo) *AirplaneHandler {
	if a == nil {
		panic("nil repository passed to NewAirplaneHandler")
	}
	return &AirplaneHandler{Airplanes: a}
}

// ----- airplane types -----

type airplaneTypeReq struct {
	Name string `json:"name"`
}

// CreateType handles POST /v1/airplane-types.
func (h *AirplaneHandler) CreateType(c echo.Context) error {
	var req airplaneTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	t := model.AirplaneType{Name: req.Name}
	if err := h.Airplanes.CreateType(c.Request().Context(), &t); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airplane type already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airplane type failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": t.ID, "name": t.Name})
}

// UpdateType handles PUT /v1/airplane-types/:id.
func (h *AirplaneHandler) UpdateType(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airplane type id"})
	}
	var req airplaneTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	t := model.AirplaneType{ID: id, Name: req.Name}
	if err := h.Airplanes.UpdateType(c.Request().Context(), &t); err != nil {
		switch err {
		case repository.ErrAirplaneTypeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane type not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "airplane type already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update airplane type failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": t.ID, "name": t.Name})
}

// DeleteType handles DELETE /v1/airplane-types/:id.
func (h *AirplaneHandler) DeleteType(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airplane type id"})
	}
	if err := h.Airplanes.DeleteType(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrAirplaneTypeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane type not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "airplane type is still in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airplane type failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTypes handles GET /v1/airplane-types.
func (h *AirplaneHandler) ListTypes(c echo.Context) error {
	types, err := h.Airplanes.ListTypes(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplane types failed"})
	}
	items := make([]echo.Map, 0, len(types))
	for _, t := range types {
		items = append(items, echo.Map{"id": t.ID, "name": t.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ----- airplanes -----

type airplaneReq struct {
	TypeID         uint64  `json:"type_id"`
	TailNumber     string  `json:"tail_number"`
	Manufacturer   string  `json:"manufacturer"`
	Model          string  `json:"model"`
	Status         string  `json:"status"`
	LastInspection *string `json:"last_inspection"` // RFC 3339, optional
	Rows           uint32  `json:"rows"`
	SeatsInRow     uint32  `json:"seats_in_row"`
}

type airplaneResp struct {
	ID             uint64  `json:"id"`
	TypeID         uint64  `json:"type_id"`
	TailNumber     string  `json:"tail_number"`
	Manufacturer   string  `json:"manufacturer"`
	Model          string  `json:"model"`
	Status         string  `json:"status"`
	LastInspection *string `json:"last_inspection"`
	Rows           uint32  `json:"rows"`
	SeatsInRow     uint32  `json:"seats_in_row"`
	TotalSeats     uint32  `json:"total_seats"`
}

func toAirplaneResp(a model.Airplane) airplaneResp {
	r := airplaneResp{
		ID:           a.ID,
		TypeID:       a.TypeID,
		TailNumber:   a.TailNumber,
		Manufacturer: a.Manufacturer,
		Model:        a.Model,
		Status:       a.Status,
		Rows:         a.Rows,
		SeatsInRow:   a.SeatsInRow,
		TotalSeats:   a.TotalSeats(),
	}
	if a.LastInspection != nil {
		s := a.LastInspection.UTC().Format(time.RFC3339)
		r.LastInspection = &s
	}
	return r
}

// toModel normalizes and validates the request; the returned message
// is empty on success.
func (r *airplaneReq) toModel() (model.Airplane, string) {
	r.TailNumber = strings.ToUpper(strings.TrimSpace(r.TailNumber))
	r.Manufacturer = strings.ToUpper(strings.TrimSpace(r.Manufacturer))
	r.Model = strings.TrimSpace(r.Model)
	status := strings.ToUpper(strings.TrimSpace(r.Status))
	if status == "" {
		status = model.AirplaneStatusActive
	}
	if r.TypeID == 0 {
		return model.Airplane{}, "type_id is required"
	}
	if r.TailNumber == "" {
		return model.Airplane{}, "tail_number is required"
	}
	if !model.AirplaneManufacturers[r.Manufacturer] {
		return model.Airplane{}, "unknown manufacturer"
	}
	if r.Model == "" {
		return model.Airplane{}, "model is required"
	}
	switch status {
	case model.AirplaneStatusActive, model.AirplaneStatusInactive, model.AirplaneStatusFrozen:
	default:
		return model.Airplane{}, "status must be ACTIVE, INACTIVE or FROZEN"
	}
	if r.Rows < 1 || r.SeatsInRow < 1 {
		return model.Airplane{}, "rows and seats_in_row must be at least 1"
	}
	a := model.Airplane{
		TypeID:       r.TypeID,
		TailNumber:   r.TailNumber,
		Manufacturer: r.Manufacturer,
		Model:        r.Model,
		Status:       status,
		Rows:         r.Rows,
		SeatsInRow:   r.SeatsInRow,
	}
	if r.LastInspection != nil && strings.TrimSpace(*r.LastInspection) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*r.LastInspection))
		if err != nil {
			return model.Airplane{}, "last_inspection must be RFC 3339"
		}
		a.LastInspection = &t
	}
	return a, ""
}

// Create handles POST /v1/airplanes.
func (h *AirplaneHandler) Create(c echo.Context) error {
	var req airplaneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	a, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if _, err := h.Airplanes.GetType(c.Request().Context(), a.TypeID); err != nil {
		if err == repository.ErrAirplaneTypeNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "airplane type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplane type failed"})
	}
	if err := h.Airplanes.Create(c.Request().Context(), &a); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tail_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airplane failed"})
	}
	return c.JSON(http.StatusCreated, toAirplaneResp(a))
}

// Update handles PUT /v1/airplanes/:id.
func (h *AirplaneHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airplane id"})
	}
	var req airplaneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	a, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a.ID = id
	if err := h.Airplanes.Update(c.Request().Context(), &a); err != nil {
		switch err {
		case repository.ErrAirplaneNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "tail_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update airplane failed"})
	}
	return c.JSON(http.StatusOK, toAirplaneResp(a))
}

// Delete handles DELETE /v1/airplanes/:id.
func (h *AirplaneHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airplane id"})
	}
	if err := h.Airplanes.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrAirplaneNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "airplane has scheduled flights"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airplane failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/airplanes/:id.
func (h *AirplaneHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airplane id"})
	}
	a, err := h.Airplanes.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAirplaneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplane failed"})
	}
	return c.JSON(http.StatusOK, toAirplaneResp(a))
}

// List handles GET /v1/airplanes with optional ?model=, ?status= and
// ?manufacturer= filters.
func (h *AirplaneHandler) List(c echo.Context) error {
	modelFilter := strings.TrimSpace(c.QueryParam("model"))
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	manufacturer := strings.ToUpper(strings.TrimSpace(c.QueryParam("manufacturer")))
	airplanes, err := h.Airplanes.List(c.Request().Context(), modelFilter, status, manufacturer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplanes failed"})
	}
	items := make([]airplaneResp, 0, len(airplanes))
	for _, a := range airplanes {
		items = append(items, toAirplaneResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
