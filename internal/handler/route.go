package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/geo"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/repository"
)

// RouteHandler exposes route CRUD.  The route distance is always
// derived from the endpoint coordinates when the route is saved;
// client-supplied distances are ignored.
type RouteHandler struct {
	Routes   *repository.RouteRepo
	Airports *repository.AirportRepo
}

func NewRouteHandler(r *repository.RouteRepo, a *repository.AirportRepo) *RouteHandler {
	if r == nil || a == nil {
		panic("nil repository passed to NewRouteHandler")
	}
	return &RouteHandler{Routes: r, Airports: a}
}

type routeReq struct {
	SourceID      uint64   `json:"source_id"`
	DestinationID uint64   `json:"destination_id"`
	StopIDs       []uint64 `json:"stop_ids"`
}

type routeResp struct {
	ID            uint64        `json:"id"`
	SourceID      uint64        `json:"source_id"`
	DestinationID uint64        `json:"destination_id"`
	DistanceKM    int64         `json:"distance_km"`
	Stops         []airportResp `json:"stops,omitempty"`
}

// resolve loads both endpoints, rejects degenerate routes and
// computes the great-circle distance.
func (h *RouteHandler) resolve(c echo.Context, req routeReq) (model.Route, int, string) {
	if req.SourceID == 0 || req.DestinationID == 0 {
		return model.Route{}, http.StatusBadRequest, "source_id and destination_id are required"
	}
	if req.SourceID == req.DestinationID {
		return model.Route{}, http.StatusBadRequest, "source and destination must differ"
	}
	for _, sid := range req.StopIDs {
		if sid == req.SourceID || sid == req.DestinationID {
			return model.Route{}, http.StatusBadRequest, "stops must differ from the endpoints"
		}
	}
	ctx := c.Request().Context()
	src, err := h.Airports.GetByID(ctx, req.SourceID)
	if err != nil {
		if err == repository.ErrAirportNotFound {
			return model.Route{}, http.StatusBadRequest, "source airport not found"
		}
		return model.Route{}, http.StatusInternalServerError, "load source airport failed"
	}
	dst, err := h.Airports.GetByID(ctx, req.DestinationID)
	if err != nil {
		if err == repository.ErrAirportNotFound {
			return model.Route{}, http.StatusBadRequest, "destination airport not found"
		}
		return model.Route{}, http.StatusInternalServerError, "load destination airport failed"
	}
	return model.Route{
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		DistanceKM:    geo.DistanceKM(src.Latitude, src.Longitude, dst.Latitude, dst.Longitude),
	}, 0, ""
}

// Create handles POST /v1/routes.
func (h *RouteHandler) Create(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rt, code, msg := h.resolve(c, req)
	if msg != "" {
		return c.JSON(code, echo.Map{"error": msg})
	}
	if err := h.Routes.Create(c.Request().Context(), &rt, req.StopIDs); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route conflicts with existing data"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create route failed"})
	}
	return c.JSON(http.StatusCreated, routeResp{
		ID:            rt.ID,
		SourceID:      rt.SourceID,
		DestinationID: rt.DestinationID,
		DistanceKM:    rt.DistanceKM,
	})
}

// Update handles PUT /v1/routes/:id.  The distance is recomputed
// from the (possibly new) endpoints.
func (h *RouteHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rt, code, msg := h.resolve(c, req)
	if msg != "" {
		return c.JSON(code, echo.Map{"error": msg})
	}
	rt.ID = id
	if err := h.Routes.Update(c.Request().Context(), &rt, req.StopIDs); err != nil {
		switch err {
		case repository.ErrRouteNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "route conflicts with existing data"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update route failed"})
	}
	return c.JSON(http.StatusOK, routeResp{
		ID:            rt.ID,
		SourceID:      rt.SourceID,
		DestinationID: rt.DestinationID,
		DistanceKM:    rt.DistanceKM,
	})
}

// Delete handles DELETE /v1/routes/:id.  A route with scheduled
// flights cannot be removed.
func (h *RouteHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrRouteNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "route has scheduled flights"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete route failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/routes/:id including the ordered stopovers.
func (h *RouteHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	ctx := c.Request().Context()
	rt, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load route failed"})
	}
	stops, err := h.Routes.Stops(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stops failed"})
	}
	resp := routeResp{
		ID:            rt.ID,
		SourceID:      rt.SourceID,
		DestinationID: rt.DestinationID,
		DistanceKM:    rt.DistanceKM,
	}
	for _, s := range stops {
		resp.Stops = append(resp.Stops, toAirportResp(s, false))
	}
	return c.JSON(http.StatusOK, resp)
}

// List handles GET /v1/routes with optional ?source= and
// ?destination= airport-name filters.
func (h *RouteHandler) List(c echo.Context) error {
	source := strings.TrimSpace(c.QueryParam("source"))
	destination := strings.TrimSpace(c.QueryParam("destination"))
	items, err := h.Routes.List(c.Request().Context(), source, destination)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load routes failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
