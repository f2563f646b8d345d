package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	registerAPIRoutes(app, handler)
	app.Use(handler.NotFound)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	user := api.Group("/user", handler.AuthRequired)
	user.Get("/profile", handler.GetProfile)
	user.Put("/profile", handler.UpdateProfile)
	user.Delete("", handler.DeleteAccount)

	medications := api.Group("/medications", handler.AuthRequired)
	medications.Get("", handler.ListMedications)
	medications.Post("", handler.AddMedication)
	medications.Get("/upcoming", handler.UpcomingDoses)
	medications.Delete("/:id", handler.DeleteMedication)
	medications.Post("/:id/toggle", handler.ToggleMedication)

	health := api.Group("/health")
	health.Get("/bmi", handler.BMI)
	health.Post("/score", handler.HealthScore)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
