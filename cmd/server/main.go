package main // Entry point package

import (
	"context"   // shutdown deadline
	"errors"    // http.ErrServerClosed check
	"log"       // Logging library
	"net/http"  // HTTP server
	"os"        // signal channel type
	"os/signal" // SIGINT/SIGTERM handling
	"syscall"   // SIGTERM
	"time"      // server timeouts

	"github.com/google/uuid"                       // request ids
	"github.com/joho/godotenv"                     // optional .env file
	"github.com/labstack/echo/v4"                  // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's bundled middleware
	elog "github.com/labstack/gommon/log"          // Echo logger levels
	"github.com/rs/cors"                           // CORS in front of the router

	"github.com/rally-club/email-parser/internal/config"     // Internal config loader
	"github.com/rally-club/email-parser/internal/handler"    // HTTP handlers
	"github.com/rally-club/email-parser/internal/llm"        // Azure OpenAI client
	"github.com/rally-club/email-parser/internal/middleware" // access log
	"github.com/rally-club/email-parser/internal/router"     // Internal router setup
	"github.com/rally-club/email-parser/internal/service"    // parse orchestration
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	cfg := config.Load() // Load environment config

	if !cfg.OpenAI.Configured() {
		log.Println("warning: AZURE_OPENAI_ENDPOINT / AZURE_OPENAI_API_KEY not set; /parse-email will answer 500")
	}

	var publisher service.EventPublisher
	if cfg.Queue.Enabled {
		publisher = service.NewAMQPPublisher(cfg.Queue)
		log.Printf("publishing parsed reservations to queue %q", cfg.Queue.Name)
	}
	parser := service.NewEmailParser(llm.NewClient(cfg.OpenAI), publisher)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	if cfg.Env == "dev" {
		e.Logger.SetLevel(elog.DEBUG)
	} else {
		e.Logger.SetLevel(elog.INFO)
	}
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.BodyLimit(cfg.MaxBodySize))
	e.Use(middleware.NewAccessLog(cfg.AccessLog))

	router.RegisterRoutes(e, handler.NewEmailHandler(cfg.OpenAI, parser), handler.NewHealthHandler(cfg.OpenAI))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		ExposedHeaders: []string{echo.HeaderXRequestID},
		MaxAge:         cfg.CORS.MaxAge,
	}).Handler(e)

	// write timeout must outlast one model call
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      cfg.OpenAI.Timeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (env=%s, deployment=%s)", server.Addr, cfg.Env, cfg.OpenAI.Deployment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.OpenAI.Timeout+5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
