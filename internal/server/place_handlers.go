package server

import (
	"campusmap/internal/models"
	"campusmap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePlace handles POST /api/places
func (s *Server) CreatePlace(c *fiber.Ctx) error {
	var req struct {
		Name          string                 `json:"name"`
		Description   string                 `json:"description"`
		Latitude      *float64               `json:"latitude"`
		Longitude     *float64               `json:"longitude"`
		CategoryIDs   []uint                 `json:"category_ids"`
		OsmID         *string                `json:"osm_id"`
		IsOsmImported bool                   `json:"is_osm_imported"`
		OsmTags       map[string]interface{} `json:"osm_tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Latitude == nil || req.Longitude == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("latitude and longitude are required"))
	}

	view, err := s.placeService.CreatePlace(c.UserContext(), service.CreatePlaceInput{
		UserID:        currentUserID(c),
		Name:          req.Name,
		Description:   req.Description,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		CategoryIDs:   req.CategoryIDs,
		OsmID:         req.OsmID,
		IsOsmImported: req.IsOsmImported,
		OsmTags:       req.OsmTags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// UpdatePlace handles PUT /api/places/:id. Omitted fields are untouched; an
// explicit category_ids array, even an empty one, replaces the set.
func (s *Server) UpdatePlace(c *fiber.Ctx) error {
	placeID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		CategoryIDs *[]uint `json:"category_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	view, err := s.placeService.UpdatePlace(c.UserContext(), service.UpdatePlaceInput{
		UserID:      currentUserID(c),
		PlaceID:     placeID,
		Name:        req.Name,
		Description: req.Description,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// DeletePlace handles DELETE /api/places/:id
func (s *Server) DeletePlace(c *fiber.Ctx) error {
	placeID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	deleted, err := s.placeService.DeletePlace(c.UserContext(), placeID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if !deleted {
		return respondError(c, models.NewForbiddenError("Place not found or you don't have permission to delete it"))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Place deleted successfully",
	})
}

// GetPlaces handles GET /api/places?category_id=&skip=&limit=
func (s *Server) GetPlaces(c *fiber.Ctx) error {
	page := parsePagination(c, 100)

	categoryID := c.QueryInt("category_id", 0)
	if categoryID < 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid category_id"))
	}

	views, err := s.placeService.ListPlaces(c.UserContext(), service.ListPlacesInput{
		CategoryID: uint(categoryID),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

// GetPlace handles GET /api/places/:id
func (s *Server) GetPlace(c *fiber.Ctx) error {
	placeID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.placeService.GetPlaceDetail(c.UserContext(), placeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// GetMyPlaces handles GET /api/users/me/places
func (s *Server) GetMyPlaces(c *fiber.Ctx) error {
	page := parsePagination(c, 100)
	views, err := s.placeService.ListUserPlaces(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}
