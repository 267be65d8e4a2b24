package server

import (
	"net/http"

	"github.com/TharHtet236401/cyber-security/internal/console/handler"
	"github.com/TharHtet236401/cyber-security/internal/infra"
	"github.com/TharHtet236401/cyber-security/internal/infra/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Интерфейс для проверки токенов (RS256)
	authValidator auth.TokenValidator

	// Обработчики бизнес-доменов
	authHandler  *handler.AuthHandler      // /auth/token
	dashHandler  *handler.DashboardHandler // /api/v1/dashboard
	auditHandler *handler.AuditHandler     // /v1/audit (журнал запросов)
}

// NewConsoleServer инициализирует сервер консоли аналитики со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	validator auth.TokenValidator,
	authH *handler.AuthHandler,
	dashH *handler.DashboardHandler,
	auditH *handler.AuditHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:        chi.NewRouter(),
		logger:        logger.Named("console-api"),
		cfg:           cfg,
		authValidator: validator,
		authHandler:   authH,
		dashHandler:   dashH,
		auditHandler:  auditH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(handler.TracingMiddleware)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ ---
	r.Group(func(r chi.Router) {
		// Логин должен быть доступен без токена
		r.Post("/auth/token", s.authHandler.Login)

		// Healthcheck для мониторинга
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (Требуют RS256 токен) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))

		// Метаданные фильтров
		r.Get("/api/v1/dimensions", s.dashHandler.GetDimensions)

		// Аналитика: выборка приходит в теле, поэтому POST
		r.Route("/api/v1/dashboard", func(r chi.Router) {
			r.Post("/report", s.dashHandler.BuildReport)      // KPI + чарты
			r.Post("/incidents", s.dashHandler.ListIncidents) // Таблица Data Explorer
			r.Post("/map", s.dashHandler.BuildMap)            // Choropleth-слой
		})

		// Журнал запросов (Observability)
		r.Get("/v1/audit", s.auditHandler.GetLogs)
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
