package handler

import (
    "encoding/json" // request payload decoding
    "errors"        // errors.As for upstream and http errors
    "io"            // reading the raw request body
    "net/http"      // HTTP status codes

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/rally-club/email-parser/internal/config"  // upstream configuration
    "github.com/rally-club/email-parser/internal/llm"     // UpstreamError
    "github.com/rally-club/email-parser/internal/service" // parse orchestration
)

// Error bodies returned by ParseEmail.  Clients match on these strings.
const (
    msgNotConfigured = "Azure OpenAI not configured"
    msgInvalidJSON   = "Invalid JSON in request body"
    msgTextRequired  = "email_text is required"
    msgAIFailed      = "AI processing failed: "
)

// EmailHandler serves the parse endpoint.  OpenAI is only consulted for the
// configured/not-configured decision; the model client itself lives behind
// Parser and was built from the same values at startup.
type EmailHandler struct {
    OpenAI config.OpenAIConfig
    Parser *service.EmailParser
}

func NewEmailHandler(cfg config.OpenAIConfig, parser *service.EmailParser) *EmailHandler {
    if parser == nil {
        panic("nil parser passed to NewEmailHandler")
    }
    return &EmailHandler{OpenAI: cfg, Parser: parser}
}

// ParseEmail handles POST /parse-email.  The body is a JSON object with a
// required non-empty "email_text" and an optional "email_subject".  It answers
//   500 when the upstream is not configured or the model call fails,
//   400 for an unreadable body or a missing email_text,
//   200 with a ReservationResult otherwise, including when the model reply
//       could not be used (is_reservation=false plus an error message).
func (h *EmailHandler) ParseEmail(c echo.Context) error {
    log := c.Logger()
    log.Info("Processing email parse request")

    if !h.OpenAI.Configured() {
        log.Error(msgNotConfigured)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgNotConfigured})
    }

    raw, err := io.ReadAll(c.Request().Body)
    if err != nil {
        var he *echo.HTTPError
        if errors.As(err, &he) {
            return he // body limit exceeded, echo answers 413
        }
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidJSON})
    }
    var payload map[string]any
    if err := json.Unmarshal(raw, &payload); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidJSON})
    }

    text, _ := payload["email_text"].(string)
    subject, _ := payload["email_subject"].(string)
    if text == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msgTextRequired})
    }

    reqID := c.Response().Header().Get(echo.HeaderXRequestID)
    res, err := h.Parser.Parse(c.Request().Context(), service.ParseRequest{
        Subject:   subject,
        Body:      text,
        RequestID: reqID,
    })
    if err != nil {
        var ue *llm.UpstreamError
        if errors.As(err, &ue) {
            log.Errorf("Azure OpenAI error: %v", ue)
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgAIFailed + err.Error()})
    }
    if res.IsFallback() {
        log.Warnf("model reply rejected (request_id=%s): %s", reqID, *res.Error)
    }
    return c.JSON(http.StatusOK, res)
}
