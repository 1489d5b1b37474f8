package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"tourline/docs" //this is required to generate swagger docs
	"tourline/internal/auth"
	"tourline/internal/contentgen"
	"tourline/internal/events"
	"tourline/internal/mailer"
	"tourline/internal/notifications"
	"tourline/internal/ratelimiter"
	"tourline/internal/store"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	push          notifications.PushSender
	events        *events.Producer
	contentgen    *contentgen.Generator
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
	kafka       kafkaConfig
	genai       genaiConfig
	shareSalt   string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}
type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}
type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	exp       time.Duration
	fromEmail string
	mailtrap  mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type kafkaConfig struct {
	brokers       []string
	activityTopic string
	riskTopic     string
	enabled       bool
}

type genaiConfig struct {
	apiKey string
	model  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		// Route that does NOT require authentication
		r.Put("/users/activate/{token}", app.activateUserHandler)

		// Share links are capability URLs; no login required to preview.
		r.Get("/shared/{code}", app.getSharedTourHandler)

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me", app.getCurrentUserHandler)
			r.Put("/", app.updateUserHandler)
			r.Post("/logout", app.logoutHandler)
			r.Post("/push-tokens", app.savePushTokenHandler)
			r.Delete("/push-tokens", app.removePushTokenHandler)
		})

		r.Route("/venues", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.createVenueHandler)
			r.Get("/", app.listVenuesHandler)
			r.Route("/{venueID}", func(r chi.Router) {
				r.Get("/", app.getVenueHandler)
				r.Patch("/", app.updateVenueHandler)
				r.Delete("/", app.deleteVenueHandler)
				r.Post("/photos", app.uploadVenuePhotoHandler)
				r.Delete("/photos", app.deleteVenuePhotoHandler) // DELETE /venues/{venueID}/photos?photo_url={url}
			})
		})

		r.Route("/artists", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.createArtistHandler)
			r.Get("/", app.listArtistsHandler)
			r.Route("/{artistID}", func(r chi.Router) {
				r.Get("/", app.getArtistHandler)
				r.Patch("/", app.updateArtistHandler)
				r.Delete("/", app.deleteArtistHandler)
				r.Post("/image", app.uploadArtistImageHandler)
			})
		})

		r.Route("/tours", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.createTourHandler)
			r.Get("/", app.listToursHandler)
			r.Route("/{tourID}", func(r chi.Router) {
				r.Use(app.RequireTourMember)
				r.Get("/", app.getTourHandler)
				r.Patch("/", app.updateTourHandler)
				r.Delete("/", app.deleteTourHandler)
				r.Post("/share", app.createShareLinkHandler)
				r.Post("/members", app.addTourMemberHandler)
				r.Delete("/members/{userID}", app.removeTourMemberHandler)
				r.Get("/shows", app.listTourShowsHandler)
				r.Post("/route-plan", app.planRouteHandler)
				r.Get("/settlements", app.listSettlementsHandler)
				r.Get("/exports/settlements.csv", app.exportSettlementCSVHandler)
				r.Get("/exports/calendar.ics", app.exportCalendarHandler)
			})
		})

		r.Route("/shows", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.createShowHandler)
			r.Get("/", app.listShowsHandler)
			r.Route("/{showID}", func(r chi.Router) {
				r.Get("/", app.getShowHandler)
				r.Patch("/", app.updateShowHandler)
				r.Delete("/", app.deleteShowHandler)
				r.Put("/status", app.updateShowStatusHandler)
				r.Post("/snapshots", app.createSnapshotHandler)
				r.Get("/snapshots", app.listSnapshotsHandler)
				r.Get("/risk", app.showRiskHandler)
				r.Get("/pacing", app.showPacingHandler)
				r.Post("/risk/alert", app.sendRiskAlertHandler)
				r.Put("/deal", app.upsertDealHandler)
				r.Get("/deal", app.getDealHandler)
				r.Post("/settlement", app.createSettlementHandler)
				r.Post("/promo-copy", app.generatePromoCopyHandler)
			})
		})

		r.Route("/activity", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listActivityHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		if app.events != nil {
			if err := app.events.Close(); err != nil {
				app.logger.Errorw("error closing event producer", "error", err)
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
