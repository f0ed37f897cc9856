package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-portal/internal/api/http/handlers"
	"github.com/spec-kit/school-portal/internal/auth"
	"github.com/spec-kit/school-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Gate              *auth.Gate
	Policy            auth.RolePolicy
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Users             *handlers.UsersHandler
	Publications      *handlers.PublicationsHandler
	Tags              *handlers.TagsHandler
	Categories        *handlers.CategoriesHandler
	Comments          *handlers.CommentsHandler
	Directors         *handlers.DirectorsHandler
	Contact           *handlers.ContactHandler
	DestinationEmails *handlers.DestinationEmailsHandler
	Media             *handlers.MediaHandler
	StaticDir         string
}

// RegisterRoutes installs the request gate and wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authenticated := auth.RequireAuthenticated()
	editor := cfg.Policy.RequireRole(domain.RoleEditor)
	admin := cfg.Policy.RequireAdmin()

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", authenticated, cfg.Auth.Logout)
	authGroup.Get("/me", authenticated, cfg.Auth.Me)

	api.Get("/roles", cfg.Users.ListRoles)
	api.Get("/users", admin, cfg.Users.ListUsers)
	api.Put("/users/:id", admin, cfg.Users.UpdateUser)

	publications := api.Group("/publications")
	publications.Get("/", cfg.Publications.List)
	publications.Get("/slug/:slug", cfg.Publications.GetBySlug)
	publications.Get("/:id", cfg.Publications.Get)
	publications.Post("/", editor, cfg.Publications.Create)
	publications.Put("/:id", authenticated, cfg.Publications.Update)
	publications.Delete("/:id", authenticated, cfg.Publications.Delete)

	tags := api.Group("/tags")
	tags.Get("/", cfg.Tags.List)
	tags.Get("/:id", cfg.Tags.Get)
	tags.Post("/", editor, cfg.Tags.Create)
	tags.Put("/:id", editor, cfg.Tags.Update)
	tags.Delete("/:id", admin, cfg.Tags.Delete)

	api.Get("/categories", cfg.Categories.List)
	api.Post("/categories", admin, cfg.Categories.Create)

	comments := api.Group("/comments")
	comments.Get("/", cfg.Comments.List)
	comments.Post("/", authenticated, cfg.Comments.Create)
	comments.Put("/:id", editor, cfg.Comments.Update)
	comments.Delete("/:id", admin, cfg.Comments.Delete)
	api.Post("/reactions", authenticated, cfg.Comments.React)

	directors := api.Group("/directors")
	directors.Get("/", cfg.Directors.List)
	directors.Get("/:id", cfg.Directors.Get)
	directors.Post("/", admin, cfg.Directors.Create)
	directors.Put("/:id", admin, cfg.Directors.Update)
	directors.Delete("/:id", admin, cfg.Directors.Delete)

	api.Get("/contact-subjects", cfg.Contact.ListSubjects)
	api.Post("/contact-subjects", admin, cfg.Contact.CreateSubject)

	contact := api.Group("/contact")
	contact.Post("/", cfg.Contact.Submit)
	contact.Get("/", editor, cfg.Contact.List)
	contact.Put("/:id", editor, cfg.Contact.MarkReplied)
	contact.Delete("/:id", admin, cfg.Contact.Delete)

	destinations := api.Group("/destination-emails")
	destinations.Get("/", editor, cfg.DestinationEmails.List)
	destinations.Get("/:id", editor, cfg.DestinationEmails.Get)
	destinations.Post("/", admin, cfg.DestinationEmails.Create)
	destinations.Put("/:id", admin, cfg.DestinationEmails.Update)
	destinations.Delete("/:id", admin, cfg.DestinationEmails.Delete)

	gallery := api.Group("/gallery")
	gallery.Get("/", cfg.Media.ListGallery)
	gallery.Post("/", editor, cfg.Media.CreateGalleryItem)
	gallery.Delete("/:id", admin, cfg.Media.DeleteGalleryItem)
	api.Post("/upload", editor, cfg.Media.Upload)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
}

// NewMetricsApp serves /metrics for scrapers on an internal listener, outside
// the public router and its gate.
func NewMetricsApp(metrics fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", metrics)
	return app
}
