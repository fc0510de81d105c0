// handlers/admin.go
package handlers

import (
	"league-portal/middleware"
	"league-portal/models"
	"league-portal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AdminDeps struct {
	Admin  *services.AdminService
	League *services.LeagueService
	Search *services.SearchService
	// Token is ADMIN_TOKEN; Staff verifies basic-auth staff logins.
	Token string
	Staff middleware.StaffAuthenticator
}

// SetupAdminRoutes mounts the league write API under /admin.
func SetupAdminRoutes(app *fiber.App, deps AdminDeps, log logrus.FieldLogger) {
	admin := app.Group("/admin", middleware.AdminAuth(deps.Token, deps.Staff, log))

	// ---- teams ----
	admin.Post("/teams", func(c *fiber.Ctx) error {
		var team models.Team
		if err := parseJSON(c, &team); err != nil {
			return badBody(c)
		}
		if err := deps.Admin.CreateTeam(c.UserContext(), &team); err != nil {
			return respondError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(team)
	})

	admin.Put("/teams/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		var team models.Team
		if err := parseJSON(c, &team); err != nil {
			return badBody(c)
		}
		team.ID = id
		if err := deps.Admin.UpdateTeam(c.UserContext(), &team); err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(team)
	})

	admin.Delete("/teams/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		if err := deps.Admin.DeleteTeam(c.UserContext(), id); err != nil {
			return respondError(c, log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Post("/teams/:id/crest", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		fh, err := c.FormFile("crest")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(services.Result{Success: false, Message: "crest file is required"})
		}
		file, err := fh.Open()
		if err != nil {
			return respondError(c, log, err)
		}
		defer file.Close()

		team, err := deps.Admin.UploadCrest(c.UserContext(), id, fh.Filename, fh.Size, file)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(team)
	})

	// ---- players ----
	admin.Post("/players", func(c *fiber.Ctx) error {
		var player models.Player
		if err := parseJSON(c, &player); err != nil {
			return badBody(c)
		}
		if err := deps.Admin.CreatePlayer(c.UserContext(), &player); err != nil {
			return respondError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(player)
	})

	admin.Put("/players/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		var player models.Player
		if err := parseJSON(c, &player); err != nil {
			return badBody(c)
		}
		player.ID = id
		if err := deps.Admin.UpdatePlayer(c.UserContext(), &player); err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(player)
	})

	admin.Delete("/players/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		if err := deps.Admin.DeletePlayer(c.UserContext(), id); err != nil {
			return respondError(c, log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// ---- matches ----
	admin.Post("/matches", func(c *fiber.Ctx) error {
		var match models.Match
		if err := parseJSON(c, &match); err != nil {
			return badBody(c)
		}
		if err := deps.Admin.CreateMatch(c.UserContext(), &match); err != nil {
			return respondError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(match)
	})

	admin.Put("/matches/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		var match models.Match
		if err := parseJSON(c, &match); err != nil {
			return badBody(c)
		}
		match.ID = id
		if err := deps.Admin.UpdateMatch(c.UserContext(), &match); err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(match)
	})

	admin.Delete("/matches/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		if err := deps.Admin.DeleteMatch(c.UserContext(), id); err != nil {
			return respondError(c, log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// ---- statistics, standings, search ----
	admin.Post("/statistics", func(c *fiber.Ctx) error {
		var stat models.Statistic
		if err := parseJSON(c, &stat); err != nil {
			return badBody(c)
		}
		if err := deps.Admin.RecordStatistic(c.UserContext(), &stat); err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(stat)
	})

	admin.Post("/standings/recompute", func(c *fiber.Ctx) error {
		rows, err := deps.League.RecomputeStandings(c.UserContext())
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(fiber.Map{"standing": rows})
	})

	admin.Post("/search/reindex", func(c *fiber.Ctx) error {
		counts, err := deps.Search.Reindex(c.UserContext())
		if err != nil {
			return respondError(c, log, err)
		}
		log.WithField("counts", counts).Info("Search index rebuilt on request")
		return c.JSON(fiber.Map{"success": true, "indexed": counts})
	})
}
