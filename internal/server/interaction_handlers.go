package server

import (
	"campusmap/internal/models"
	"campusmap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/places/:id/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	placeID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.interactionService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID:  currentUserID(c),
		PlaceID: placeID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/places/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	placeID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 100)
	comments, err := s.interactionService.ListComments(c.UserContext(), placeID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// Vote handles POST /api/places/:id/like with body {"is_like": bool}.
func (s *Server) Vote(c *fiber.Ctx) error {
	placeID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		IsLike *bool `json:"is_like"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsLike == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("is_like is required"))
	}

	like, err := s.interactionService.Vote(c.UserContext(), placeID, currentUserID(c), *req.IsLike)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(like)
}

// ToggleFavorite handles POST /api/places/:id/favorite. The body is the new
// favorite, or null when the favorite was removed.
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	placeID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	fav, err := s.interactionService.ToggleFavorite(c.UserContext(), placeID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fav)
}

// GetMyFavorites handles GET /api/users/me/favorites. Every favorite is
// returned unless limit is given.
func (s *Server) GetMyFavorites(c *fiber.Ctx) error {
	offset := c.QueryInt("skip", c.QueryInt("offset", 0))
	views, err := s.interactionService.FavoritesOf(c.UserContext(), currentUserID(c), c.QueryInt("limit"), offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}
