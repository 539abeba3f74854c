// Package web serves the wheel over HTTP: a page with the editing table, a
// JSON API and a server-sent frame stream for spins.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xtding233/spinwheel/internal/config"
	"github.com/xtding233/spinwheel/internal/metrics"
	"github.com/xtding233/spinwheel/internal/session"
	"github.com/xtding233/spinwheel/internal/wheel"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const cookieName = "spinwheel_sid"

// Transport label for spin metrics.
const transport = "http"

type Server struct {
	Sessions *session.Registry
	// Settings returns the current normalized configuration. It is called
	// per request so config reloads take effect.
	Settings func() config.Settings
	// Loader and Preset resolve per-request overrides for /api/simulate.
	// Without a Loader overrides are applied to Settings directly.
	Loader *config.Loader
	Preset string
	// Frames paces one spin. Sources with a Stop method are stopped when
	// the spin ends.
	Frames      func() wheel.FrameSource
	Tmpl        *template.Template
	CORSOrigins []string
}

var funcs = template.FuncMap{
	// css marks a color computed from option order as safe in style
	// attributes. It never carries user input.
	"css": func(s string) template.CSS { return template.CSS(s) },
}

// ParseTemplates loads the embedded page templates.
func ParseTemplates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/", s.handleIndex)
	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(rr chi.Router) {
		rr.Get("/state", s.handleState)

		rr.Route("/options", func(or chi.Router) {
			or.Get("/", s.handleListOptions)
			or.Post("/", s.handleAddOption)
			or.Put("/", s.handleReplaceOptions)
			or.Patch("/{index}", s.handleUpdateOption)
			or.Delete("/{index}", s.handleDeleteOption)
			or.Post("/{index}/increment", s.handleIncrement)
			or.Post("/{index}/decrement", s.handleDecrement)
		})

		rr.Post("/spin", s.handleSpin)
		rr.Get("/spin/stream", s.handleSpinStream)
		rr.Get("/result", s.handleResult)

		rr.Get("/hover", s.handleHover)
		rr.Get("/simulate", s.handleSimulate)
		rr.Get("/wheel.svg", s.handleSVG)
		rr.Get("/wheel.pdf", s.handlePDF)
	})
	return r
}

func (s *Server) settings() config.Settings {
	if s.Settings == nil {
		return config.Normalize(config.RawConfig{})
	}
	return s.Settings()
}

// wheelFor returns the visitor's wheel, issuing a session cookie when the
// request carries none or an unusable one.
func (s *Server) wheelFor(w http.ResponseWriter, r *http.Request) *wheel.Controller {
	id := ""
	if c, err := r.Cookie(cookieName); err == nil {
		id = c.Value
	}
	ctrl, used := s.Sessions.Get(r.Context(), id)
	if used != id {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    used,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctrl
}

func (s *Server) frames() (wheel.FrameSource, func()) {
	var src wheel.FrameSource
	if s.Frames != nil {
		src = s.Frames()
	} else {
		src = wheel.NewTickerFrames(s.settings().FrameInterval)
	}
	stop := func() {}
	if st, ok := src.(interface{ Stop() }); ok {
		stop = st.Stop
	}
	return src, stop
}
