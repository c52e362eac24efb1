package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/rally-club/email-parser/internal/handler" // import the handlers that implement the endpoints
)

// APIPrefix is where the routes lived when the parser ran as an Azure
// Function; existing mail scripts still call /api/parse-email.
const APIPrefix = "/api"

// RegisterRoutes maps both endpoints at the root and again under APIPrefix.
// Neither route requires authentication.
func RegisterRoutes(e *echo.Echo, eh *handler.EmailHandler, hh *handler.HealthHandler) {
	register := func(g *echo.Group) {
		g.POST("/parse-email", eh.ParseEmail)
		g.GET("/health", hh.Health)
	}
	register(e.Group(""))
	register(e.Group(APIPrefix))
}
