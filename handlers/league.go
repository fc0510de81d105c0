// handlers/league.go
package handlers

import (
	"league-portal/middleware"
	"league-portal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SetupLeagueRoutes exposes the read side as JSON and the logged-in search.
func SetupLeagueRoutes(
	app *fiber.App,
	league *services.LeagueService,
	searchService *services.SearchService,
	auth middleware.CurrentUserFinder,
	log logrus.FieldLogger,
) {
	app.Get("/search", middleware.LoginRequired(auth, log), func(c *fiber.Ctx) error {
		res, err := searchService.Search(c.UserContext(), c.Query("query"))
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(res)
	})

	api := app.Group("/api")

	api.Get("/standing", func(c *fiber.Ctx) error {
		rows, err := league.Standing(c.UserContext())
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(fiber.Map{"standing": rows})
	})

	api.Get("/teams/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		details, err := league.TeamDetails(c.UserContext(), id)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(details)
	})

	api.Get("/matches/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		details, err := league.MatchDetails(c.UserContext(), id)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(details)
	})
}
