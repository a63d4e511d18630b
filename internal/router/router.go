// Package router wires HTTP routes to handlers and applies the
// authentication and role middleware per group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/handler"
	"github.com/iliyamo/planetarium-reservation/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Shows        *handler.ShowHandler
	Themes       *handler.ThemeHandler
	Domes        *handler.DomeHandler
	Sessions     *handler.SessionHandler
	Reservations *handler.ReservationHandler
}

// Middleware carries the cross-cutting middleware the router places.
// Nil entries become pass-throughs.
type Middleware struct {
	// Cache is applied per-route to catalog and session reads only.
	// Those responses are identical for every authenticated user;
	// owner-scoped routes (/me, /reservations) must never be cached
	// because cache keys carry no user identity.
	Cache echo.MiddlewareFunc
	// RateLimit runs after JWTAuth on protected groups so its per-user
	// key strategies see the authenticated user id.  On /v1/auth it
	// runs without identity and keys degrade to the client IP.
	RateLimit echo.MiddlewareFunc
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error { return next(c) }
}

// Register mounts every route.
//
// Layout:
//
//	/healthz                     liveness, no auth
//	/v1/auth/*                   register, login, token exchange
//	/v1/*                        reads and reservations, any authenticated role
//	/v1/* (writes)               catalog and session management, ADMIN only
func Register(e *echo.Echo, h Handlers, mw Middleware, jwtSecret string) {
	if mw.Cache == nil {
		mw.Cache = passthrough
	}
	if mw.RateLimit == nil {
		mw.RateLimit = passthrough
	}

	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth")
	g.Use(mw.RateLimit)
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/refresh-access", h.Auth.RefreshAccess)
	// Logout needs no JWT so a session can always be closed with just
	// its refresh token.
	g.POST("/logout", h.Auth.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.Use(mw.RateLimit)

	auth.GET("/me", h.Auth.Me)

	auth.GET("/shows", h.Shows.List, mw.Cache)
	auth.GET("/shows/:id", h.Shows.Get, mw.Cache)
	auth.GET("/themes", h.Themes.List, mw.Cache)
	auth.GET("/themes/:id", h.Themes.Get, mw.Cache)
	auth.GET("/domes", h.Domes.List, mw.Cache)
	auth.GET("/domes/:id", h.Domes.Get, mw.Cache)
	auth.GET("/sessions", h.Sessions.List, mw.Cache)
	auth.GET("/sessions/:id", h.Sessions.Get, mw.Cache)

	auth.POST("/reservations", h.Reservations.Create)
	auth.GET("/reservations", h.Reservations.List)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.Use(mw.RateLimit)

	admin.POST("/shows", h.Shows.Create)
	admin.POST("/themes", h.Themes.Create)
	admin.POST("/domes", h.Domes.Create)
	admin.POST("/sessions", h.Sessions.Create)
	admin.PUT("/sessions/:id", h.Sessions.Update)
	admin.DELETE("/sessions/:id", h.Sessions.Delete)
}
