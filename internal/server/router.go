package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/sm1l43s/movies/internal/auth"
	moviesmiddleware "github.com/sm1l43s/movies/internal/middleware"
	"github.com/sm1l43s/movies/internal/proxy"
	"github.com/sm1l43s/movies/internal/repository"
	"github.com/sm1l43s/movies/internal/services/catalog"
	"github.com/sm1l43s/movies/internal/services/iam"
	"github.com/sm1l43s/movies/internal/services/validation"
	"github.com/sm1l43s/movies/internal/telemetry"
)

// RouterOptions controls the construction of the movies HTTP router.
// IAM, Catalog and Validator are required; everything else has a default.
type RouterOptions struct {
	IAM           iam.Service
	Catalog       *catalog.Service
	Validator     validation.Validator
	Relay         *proxy.Relay
	Policy        *auth.Policy
	Metrics       *telemetry.Metrics
	Logger        logrus.FieldLogger
	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
	ExtraRoutes   func(chi.Router)
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization", proxy.TraceHeader},
		ExposedHeaders:   []string{proxy.TraceHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with the shared middleware chain and every
// REST handler mounted. Authentication resolves the caller before the rule
// table is consulted, so handlers only run for authorized requests.
func NewRouter(opts RouterOptions) (chi.Router, error) {
	if opts.IAM == nil || opts.Catalog == nil || opts.Validator == nil {
		return nil, errors.New("router requires IAM, catalog and validator")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	policy := opts.Policy
	if policy == nil {
		policy = auth.NewPolicy(auth.DefaultRules())
	}
	writeErr := errorWriter(logger)

	authn, err := moviesmiddleware.NewAuthnMiddleware(opts.IAM, logger)
	if err != nil {
		return nil, err
	}
	authz, err := moviesmiddleware.NewAuthzMiddleware(moviesmiddleware.AuthzDependencies{
		Policy:     policy,
		WriteError: writeErr,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	api := &API{
		iam:       opts.IAM,
		catalog:   opts.Catalog,
		validator: opts.Validator,
		log:       logger,
		writeErr:  writeErr,
	}

	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(moviesmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(moviesmiddleware.Metrics(opts.Metrics))

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Use(authn)
	r.Use(authz)

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", api.HandleSignIn(opts.Metrics))
			r.Post("/signup", api.HandleSignUp())
			r.Get("/me", api.HandleMe())
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", api.handle(api.listMovies))
			r.Post("/", api.handle(api.createMovie))
			r.Put("/", api.handle(api.updateMovie))
			r.Delete("/", api.handle(api.deleteMovieByBody))
			r.Post("/list", api.handle(api.createMovies))

			r.Put("/reviews", api.handle(api.updateReview))
			r.Get("/reviews/{id}/authors", api.handle(api.reviewAuthor))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.handle(api.getMovie))
				r.Delete("/", api.handle(api.deleteMovie))
				r.Get("/votes", api.handle(api.voters))
				r.Post("/votes", api.handle(api.vote))
				r.Get("/reviews", api.handle(api.movieReviews))
				r.Post("/reviews", api.handle(api.addReview))
				r.Delete("/reviews", api.handle(api.deleteReview))
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", api.handle(api.listPersons))
			r.Post("/", api.handle(api.createPerson))
			r.Put("/", api.handle(api.updatePerson))
			r.Delete("/", api.handle(api.deletePersonByBody))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.handle(api.getPerson))
				r.Delete("/", api.handle(api.deletePerson))
				r.Get("/movies", api.handle(api.personMovies))
				r.Put("/movies", api.handle(api.setPersonMovies))
				r.Delete("/movies", api.handle(api.clearPersonMovies))
			})
		})

		mountDictionary(r, api, "/genres", opts.Catalog.Genres())
		mountDictionary(r, api, "/countries", opts.Catalog.Countries())
		mountDictionary(r, api, "/professions", opts.Catalog.Professions())
		mountDictionary(r, api, "/types", opts.Catalog.Types())

		r.Route("/users", func(r chi.Router) {
			r.Get("/", api.handle(api.listUsers))
			r.Post("/", api.handle(api.createUser))
			r.Put("/", api.handle(api.updateUser))
			r.Delete("/", api.handle(api.deleteUserByBody))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.handle(api.getUser))
				r.Delete("/", api.handle(api.deleteUser))
				r.Get("/privileges", api.handle(api.userPrivileges))
				r.Put("/privileges", api.handle(api.setUserPrivileges))
			})
		})

		r.Get("/privileges", api.handle(api.listPrivileges))
		r.Get("/privileges/{id}", api.handle(api.getPrivilege))
	})

	if opts.Relay != nil {
		r.Handle("/proxy/*", api.handle(api.proxyHandler(opts.Relay)))
	}

	if opts.ExtraRoutes != nil {
		opts.ExtraRoutes(r)
	}

	return r, nil
}

func mountDictionary[T any](r chi.Router, api *API, path string, repo repository.DictionaryRepository[T]) {
	r.Get(path, api.handle(listDictionary(repo)))
	r.Get(path+"/{id}", api.handle(getDictionary(repo)))
}

// NewH2CHandler wraps the router with an h2c server to provide HTTP/2 over
// cleartext alongside HTTP/1.1.
func NewH2CHandler(opts RouterOptions) (http.Handler, error) {
	router, err := NewRouter(opts)
	if err != nil {
		return nil, err
	}
	return h2c.NewHandler(router, &http2.Server{}), nil
}
