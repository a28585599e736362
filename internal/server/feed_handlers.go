package server

import "github.com/gofiber/fiber/v2"

// GetNewestFeed handles GET /api/feed/new?limit= (default 10)
func (s *Server) GetNewestFeed(c *fiber.Ctx) error {
	views, err := s.feedService.Newest(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

// GetTopFeed handles GET /api/feed/top?limit=
func (s *Server) GetTopFeed(c *fiber.Ctx) error {
	views, err := s.feedService.Top(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}
