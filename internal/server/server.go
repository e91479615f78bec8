package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/fetch"
	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/server/middleware"
	"github.com/jonathan/resume-optimizer/internal/server/ratelimit"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

// JobSource resolves a job posting URL to its description text.
type JobSource interface {
	JobDescription(ctx context.Context, url string) (*fetch.JobPosting, error)
}

// Deps are the collaborators of a Server. Generator, Jobs and PDF may be nil, which
// disables the endpoints that need them.
type Deps struct {
	Store     Store
	Generator *generation.Service
	Engine    *validation.Engine
	Jobs      JobSource
	Renderer  *rendering.Renderer
	PDF       rendering.PDFRenderer
	Passwords *config.PasswordConfig
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	generator   *generation.Service
	engine      *validation.Engine
	jobs        JobSource
	renderer    *rendering.Renderer
	pdf         rendering.PDFRenderer
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	allowedOrigins []string
	defaultStyle   string
	defaultTheme   string
	llmTimeout     time.Duration

	closers []func()
}

// New connects to the database, creates the language model client when an API key is
// configured and builds the server.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	engine := validation.NewEngine(&cfg.Validation)
	deps := Deps{
		Store:     database,
		Engine:    engine,
		Renderer:  rendering.NewRenderer(),
		PDF:       rendering.NewChromePDF(),
		Passwords: passwords,
		JWT:       jwtConfig,
		RateLimit: ratelimit.LoadConfig(),
	}

	var browser fetch.Renderer
	if cfg.Generation.UseBrowser {
		browser = fetch.NewChromeRenderer()
	}
	deps.Jobs = fetch.NewJobFetcher(database, browser)

	var client llm.Client
	if cfg.LLM.APIKey != "" {
		client, err = NewLLMClient(ctx, cfg.LLM)
		if err != nil {
			database.Close()
			return nil, err
		}
		tier, _ := llm.ParseTier(cfg.LLM.Tier) // checked by config.Validate
		deps.Generator = generation.NewService(client, engine, tier, cfg.Generation.MaxConcurrent)
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set; resume generation is disabled")
	}

	s, err := NewWithDeps(cfg, deps)
	if err != nil {
		database.Close()
		return nil, err
	}
	s.closers = append(s.closers, database.Close)
	if client != nil {
		s.closers = append(s.closers, func() { _ = client.Close() })
	}
	return s, nil
}

// NewLLMClient creates the language model client described by cfg.
func NewLLMClient(ctx context.Context, cfg config.LLMConfig) (llm.Client, error) {
	tier, err := llm.ParseTier(cfg.Tier)
	if err != nil {
		return nil, err
	}
	llmConfig := llm.DefaultConfig()
	if cfg.Temperature > 0 {
		llmConfig = llmConfig.WithTemperature(cfg.Temperature)
	}
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(tier, cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// NewWithDeps builds a server around the given collaborators.
func NewWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}
	if deps.Passwords == nil || deps.JWT == nil {
		return nil, fmt.Errorf("server requires password and JWT configuration")
	}

	s := &Server{
		store:          deps.Store,
		generator:      deps.Generator,
		engine:         deps.Engine,
		jobs:           deps.Jobs,
		renderer:       deps.Renderer,
		pdf:            deps.PDF,
		rateLimiter:    ratelimit.NewLimiter(deps.RateLimit),
		allowedOrigins: cfg.Server.AllowedOrigins,
		defaultStyle:   cfg.Generation.DefaultStyle,
		defaultTheme:   cfg.Generation.DefaultTheme,
		llmTimeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}
	if s.engine == nil {
		if s.generator != nil {
			s.engine = s.generator.Engine()
		} else {
			s.engine = validation.NewEngine(&cfg.Validation)
		}
	}
	if s.renderer == nil {
		s.renderer = rendering.NewRenderer()
	}
	if s.defaultStyle == "" {
		s.defaultStyle = generation.DefaultStyle
	}
	if s.defaultTheme == "" {
		s.defaultTheme = string(rendering.DefaultTheme)
	}

	s.jwtService = NewJWTService(deps.JWT)
	s.userService = NewUserService(deps.Store, deps.Passwords, s.jwtService)
	s.authHandler = NewAuthHandler(s, s.userService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.withRequestID(s.withLogging(s.withCORS(s.withRateLimit(s.routes())))),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator(), s.userService)
	optional := middleware.OptionalAuth(s.jwtService.AsTokenValidator(), s.userService)
	private := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/example", s.handleExample)

	// Accounts
	mux.HandleFunc("POST /api/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/login", s.authHandler.Login)
	mux.Handle("POST /api/logout", private(s.authHandler.Logout))
	mux.Handle("PUT /api/password", private(s.authHandler.UpdatePassword))

	// Career profile
	mux.Handle("GET /api/profile", private(s.handleGetProfile))
	mux.Handle("PUT /api/profile", private(s.handleUpdateProfile))
	mux.Handle("GET /api/work-experiences", private(s.handleListWorkExperiences))
	mux.Handle("POST /api/work-experiences", private(s.handleCreateWorkExperience))
	mux.Handle("PUT /api/work-experiences/{id}", private(s.handleUpdateWorkExperience))
	mux.Handle("DELETE /api/work-experiences/{id}", private(s.handleDeleteWorkExperience))
	mux.Handle("GET /api/education", private(s.handleListEducation))
	mux.Handle("POST /api/education", private(s.handleCreateEducation))
	mux.Handle("PUT /api/education/{id}", private(s.handleUpdateEducation))
	mux.Handle("DELETE /api/education/{id}", private(s.handleDeleteEducation))
	mux.Handle("GET /api/skills", private(s.handleListSkills))
	mux.Handle("POST /api/skills", private(s.handleCreateSkill))
	mux.Handle("DELETE /api/skills/{id}", private(s.handleDeleteSkill))
	mux.Handle("GET /api/projects", private(s.handleListProjects))
	mux.Handle("POST /api/projects", private(s.handleCreateProject))
	mux.Handle("DELETE /api/projects/{id}", private(s.handleDeleteProject))

	// Stored résumés
	mux.Handle("GET /api/resumes", private(s.handleListResumes))
	mux.Handle("POST /api/resumes", private(s.handleCreateResume))
	mux.Handle("GET /api/resumes/{id}", private(s.handleGetResume))
	mux.Handle("DELETE /api/resumes/{id}", private(s.handleDeleteResume))
	mux.Handle("PUT /api/resumes/{id}/default", private(s.handleSetDefaultResume))
	mux.Handle("POST /api/resumes/{id}/validate", private(s.handleValidateStoredResume))

	// Generation, validation and rendering; a token is optional
	mux.Handle("POST /api/generate-resume", optional(http.HandlerFunc(s.handleGenerateResume)))
	mux.Handle("POST /api/generate-resume-v2", optional(http.HandlerFunc(s.handleGenerateResumeV2)))
	mux.HandleFunc("POST /api/validate-resume", s.handleValidateResume)
	mux.HandleFunc("POST /api/render-resume-html", s.handleRenderHTML)
	mux.HandleFunc("POST /api/resume-pdf", s.handleResumePDF)

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled or the process receives SIGINT/SIGTERM, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.Close()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// Close releases the rate limiter, the model client and the database pool.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
