package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Users    *handlers.UsersHandler
	Posts    *handlers.PostsHandler
	Comments *handlers.CommentsHandler
	Tags     *handlers.TagsHandler

	// Authenticator runs on every request; protected groups add the guard.
	Authenticator *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The authenticator middleware evaluates
// every request's credential into a verdict; which routes demand an
// authenticated verdict is decided here, per route group.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Authenticator.Authenticate)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	// Logout is not guarded: revoking an already-revoked or expired token is
	// harmless, and the handler rejects requests without a credential.
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	api := app.Group("/api")

	posts := api.Group("/posts")
	posts.Get("/", cfg.Posts.List)
	posts.Get("/search", cfg.Posts.Search)
	posts.Get("/slug/:slug", cfg.Posts.GetBySlug)
	posts.Get("/author/:authorID", cfg.Posts.ListByAuthor)
	posts.Get("/:id", cfg.Posts.GetByID)
	posts.Get("/:id/comments", cfg.Comments.ListByPost)
	posts.Get("/:id/image/url", cfg.Posts.GetImageURL)

	posts.Post("/", auth.RequireAuthenticated(), cfg.Posts.Create)
	posts.Put("/:id", auth.RequireAuthenticated(), cfg.Posts.Update)
	posts.Delete("/:id", auth.RequireAuthenticated(), cfg.Posts.Delete)
	posts.Post("/:id/image", auth.RequireAuthenticated(), cfg.Posts.UploadImage)
	posts.Post("/:id/comments", auth.RequireAuthenticated(), cfg.Comments.Create)

	comments := api.Group("/comments")
	comments.Put("/:id", auth.RequireAuthenticated(), cfg.Comments.Update)
	comments.Delete("/:id", auth.RequireAuthenticated(), cfg.Comments.Delete)

	tags := api.Group("/tags")
	tags.Get("/", cfg.Tags.List)
	tags.Get("/:slug", cfg.Tags.GetBySlug)
	tags.Post("/", auth.RequireAuthenticated(), cfg.Tags.Create)
	tags.Put("/:id", auth.RequireAuthenticated(), cfg.Tags.Update)
	tags.Delete("/:id", auth.RequireAuthenticated(), cfg.Tags.Delete)

	users := api.Group("/users", auth.RequireAuthenticated())
	users.Get("/profile", cfg.Users.GetProfile)
	users.Put("/profile", cfg.Users.UpdateProfile)
	users.Put("/password", cfg.Users.UpdatePassword)
}
