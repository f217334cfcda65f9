package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"bookeasy/internal/config"
	"bookeasy/internal/domain/identity"
	"bookeasy/internal/domain/listing"
	"bookeasy/internal/domain/navigation"
	"bookeasy/internal/domain/reservation"
	"bookeasy/internal/domain/session"
	"bookeasy/internal/middleware"
	jwtsvc "bookeasy/internal/pkg/jwt"
	"bookeasy/internal/pkg/response"
)

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{
		&identity.Account{},
		&listing.Listing{},
		&reservation.Reservation{},
	}
}

// Auth bundles the token verifier with the local issuer, which is nil
// unless the local identity provider is active.
type Auth struct {
	Verifier identity.Verifier
	Tokens   *jwtsvc.Service
}

// NewAuth selects token verification by AUTH_MODE.
func NewAuth(ctx context.Context, cfg *config.Config) (Auth, error) {
	switch cfg.AuthMode {
	case config.AuthModeLocal:
		tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
		return Auth{Verifier: identity.NewTokenVerifier(tokens), Tokens: tokens}, nil
	case config.AuthModeHS256:
		return Auth{Verifier: identity.NewTokenVerifier(jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL))}, nil
	case config.AuthModeJWKS:
		v, err := identity.NewJWKSVerifier(ctx, cfg.JWKSURL)
		if err != nil {
			return Auth{}, fmt.Errorf("jwks verifier: %w", err)
		}
		return Auth{Verifier: v}, nil
	default:
		return Auth{}, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

// Server is the assembled HTTP surface. Sessions must be started by the
// caller and closed on shutdown.
type Server struct {
	Handler  http.Handler
	Engine   *gin.Engine
	Sessions *session.Store
	Notifier *session.Notifier
}

func New(cfg *config.Config, db *gorm.DB, broker session.Broker, auth Auth, log zerolog.Logger) *Server {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	store := session.NewStore(broker, log)
	notifier := session.NewNotifier(broker, store)

	accounts := identity.NewAccountRepository(db)
	identitySvc := identity.NewService(accounts, auth.Tokens, notifier, log)
	identityHandler := identity.NewHandler(identitySvc, navigation.HomePath)

	listingSvc := listing.NewService(listing.NewRepository(db), accounts, log)
	listingHandler := listing.NewHandler(listingSvc)

	reservationSvc := reservation.NewService(
		reservation.NewRepository(db),
		listingSvc,
		accounts,
		reservation.Options{PreventOverlap: cfg.PreventOverlap},
		log,
	)
	reservationHandler := reservation.NewHandler(reservationSvc)

	navigationHandler := navigation.NewHandler()
	wsHandler := session.NewWSHandler(store, auth.Verifier, cfg.CORSAllowedOrigins, log)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
	)
	r.GET("/healthz", health(db))

	v1 := r.Group("/api/v1")
	v1.Use(limiter.Middleware())
	{
		if auth.Tokens != nil {
			identityHandler.RegisterPublicRoutes(v1)
		}
		wsHandler.RegisterRoutes(v1)

		open := v1.Group("")
		open.Use(middleware.OptionalAuth(auth.Verifier))
		navigationHandler.RegisterRoutes(open)

		protected := v1.Group("")
		protected.Use(middleware.Auth(auth.Verifier, notifier, log))
		{
			identityHandler.RegisterProtectedRoutes(protected)
			listingHandler.RegisterRoutes(protected)
			reservationHandler.RegisterRoutes(protected)

			provider := protected.Group("/provider")
			provider.Use(middleware.RequireRole(identity.RoleProvider, identity.RoleAdministrator))
			listingHandler.RegisterProviderRoutes(provider)
			reservationHandler.RegisterProviderRoutes(provider)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			listingHandler.RegisterAdminRoutes(admin)
			reservationHandler.RegisterAdminRoutes(admin)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Route not found")
	})

	return &Server{
		Handler:  middleware.CORS(cfg.CORSAllowedOrigins)(r),
		Engine:   r,
		Sessions: store,
		Notifier: notifier,
	}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
