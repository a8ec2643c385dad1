package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/repository"
)

// CrewHandler exposes crew member CRUD.
type CrewHandler struct {
	Crew *repository.CrewRepo
}

func NewCrewHandler(r *repository.CrewRepo) *CrewHandler {
	if r == nil {
		panic("nil repository passed to NewCrewHandler")
	}
	return &CrewHandler{Crew: r}
}

type crewReq struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Role              string `json:"role"`
	LicenseNumber     string `json:"license_number"`
	LicenseExpiration string `json:"license_expiration"` // RFC 3339
}

type crewResp struct {
	ID                uint64 `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	FullName          string `json:"full_name"`
	Role              string `json:"role"`
	LicenseNumber     string `json:"license_number"`
	LicenseExpiration string `json:"license_expiration"`
	IsExpired         bool   `json:"is_expired"`
}

func toCrewResp(m model.Crew, now time.Time) crewResp {
	return crewResp{
		ID:                m.ID,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		FullName:          m.FullName(),
		Role:              m.Role,
		LicenseNumber:     m.LicenseNumber,
		LicenseExpiration: m.LicenseExpiration.UTC().Format(time.RFC3339),
		IsExpired:         m.IsExpired(now),
	}
}

func (r *crewReq) toModel() (model.Crew, string) {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	r.LicenseNumber = strings.ToUpper(strings.TrimSpace(r.LicenseNumber))
	if r.FirstName == "" || r.LastName == "" {
		return model.Crew{}, "first_name and last_name are required"
	}
	if !model.CrewRoles[r.Role] {
		return model.Crew{}, "role must be PILOT, CO-PILOT, FLIGHT_ATTENDANT or ENGINEER"
	}
	if r.LicenseNumber == "" {
		return model.Crew{}, "license_number is required"
	}
	exp, err := time.Parse(time.RFC3339, strings.TrimSpace(r.LicenseExpiration))
	if err != nil {
		return model.Crew{}, "license_expiration must be RFC 3339"
	}
	return model.Crew{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Role:              r.Role,
		LicenseNumber:     r.LicenseNumber,
		LicenseExpiration: exp,
	}, ""
}

// Create handles POST /v1/crew.
func (h *CrewHandler) Create(c echo.Context) error {
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Crew.Create(c.Request().Context(), &m); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "license_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create crew member failed"})
	}
	return c.JSON(http.StatusCreated, toCrewResp(m, time.Now().UTC()))
}

// Update handles PUT /v1/crew/:id.
func (h *CrewHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid crew id"})
	}
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	m.ID = id
	if err := h.Crew.Update(c.Request().Context(), &m); err != nil {
		switch err {
		case repository.ErrCrewNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "license_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update crew member failed"})
	}
	return c.JSON(http.StatusOK, toCrewResp(m, time.Now().UTC()))
}

// Delete handles DELETE /v1/crew/:id.  A member assigned to flights
// cannot be removed.
func (h *CrewHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid crew id"})
	}
	if err := h.Crew.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrCrewNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "crew member is assigned to flights"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete crew member failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/crew/:id.
func (h *CrewHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid crew id"})
	}
	m, err := h.Crew.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCrewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load crew member failed"})
	}
	return c.JSON(http.StatusOK, toCrewResp(m, time.Now().UTC()))
}

// List handles GET /v1/crew.
func (h *CrewHandler) List(c echo.Context) error {
	members, err := h.Crew.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load crew failed"})
	}
	now := time.Now().UTC()
	items := make([]crewResp, 0, len(members))
	for _, m := range members {
		items = append(items, toCrewResp(m, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
