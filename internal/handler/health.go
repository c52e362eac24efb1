package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project

    "github.com/rally-club/email-parser/internal/config"
)

// HealthHandler reports whether the upstream model is configured.  It never
// contacts the provider.
type HealthHandler struct {
    OpenAI config.OpenAIConfig
}

func NewHealthHandler(cfg config.OpenAIConfig) *HealthHandler {
    return &HealthHandler{OpenAI: cfg}
}

// Health always answers 200 with {"status":"ok","openai_configured":bool},
// even when the upstream credentials are missing.
func (h *HealthHandler) Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "status":            "ok",
        "openai_configured": h.OpenAI.Configured(),
    })
}
