package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"todokeep/internal/config"
	"todokeep/internal/httpmw"
	"todokeep/internal/kv"
	"todokeep/internal/logging"
	"todokeep/internal/telemetry"
	"todokeep/internal/todo"
	staticfiles "todokeep/static"
)

type Options struct {
	Config    *config.Config
	StaticDir string
	Logger    *log.Logger
	Clock     todo.Clock
}

// App is the composed application: one store and one filter selector
// shared by every request.
type App struct {
	Config   *config.Config
	Store    *todo.Store
	Selector *todo.Selector
	Events   *telemetry.MemoryRepository
	logger   *log.Logger
}

// NewApp opens storage and loads the task list.
func NewApp(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg := opts.Config

	backing, err := kv.Open(cfg.Storage.Driver, cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	var events *telemetry.MemoryRepository
	storeOpts := todo.Options{
		Adapter:        todo.NewAdapter(backing, cfg.Storage.Key),
		Clock:          opts.Clock,
		Logger:         opts.Logger,
		ConfirmMessage: cfg.UI.ConfirmMessage,
	}
	if cfg.Stats.Enabled {
		events = telemetry.NewMemoryRepository()
		storeOpts.Events = events
	}
	store := todo.NewStore(storeOpts)
	tasks := store.Load()

	selector := todo.NewSelector()
	mode, err := todo.ParseFilterMode(cfg.UI.DefaultFilter)
	if err != nil {
		logging.Warn(opts.Logger, "bad_default_filter", logging.Fields{"filter": cfg.UI.DefaultFilter})
		mode = todo.FilterAll
	}
	selector.SetMode(mode)

	logging.Info(opts.Logger, "store_loaded", logging.Fields{
		"driver": cfg.Storage.Driver,
		"key":    cfg.Storage.Key,
		"tasks":  len(tasks),
	})

	return &App{
		Config:   cfg,
		Store:    store,
		Selector: selector,
		Events:   events,
		logger:   opts.Logger,
	}, nil
}

func NewHandler(opts Options) (http.Handler, error) {
	app, err := NewApp(opts)
	if err != nil {
		return nil, err
	}
	return app.Handler(opts.StaticDir), nil
}

func (a *App) Handler(staticDir string) http.Handler {
	if strings.TrimSpace(staticDir) == "" {
		staticDir = "static"
	}

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if a.Config.Server.DevStatic {
		staticHandler = http.FileServer(http.Dir(staticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "todokeep",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := a.Store.Healthy(); err != nil {
			logging.Warn(a.logger, "storage_unready", logging.Fields{"error": err.Error()})
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "todokeep",
			"tasks":   a.Store.Len(),
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	taskHandler := todo.NewHandler(a.Store, a.Selector)
	if a.Events != nil {
		taskHandler.SetEvents(a.Events)
	}
	mux.HandleFunc("/api/tasks", taskHandler.TasksRoot)
	mux.HandleFunc("/api/tasks/", taskHandler.TasksSub)
	mux.HandleFunc("/api/filter", taskHandler.Filter)
	mux.HandleFunc("/api/stats", taskHandler.Stats)

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a.Config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})

	ui := &uiHandler{app: a}
	mux.HandleFunc("/ui/add", ui.add)
	mux.HandleFunc("/ui/toggle", ui.toggle)
	mux.HandleFunc("/ui/delete", ui.remove)
	mux.HandleFunc("/ui/clear-completed", ui.clearCompleted)
	mux.HandleFunc("/ui/clear-all", ui.clearAll)
	mux.HandleFunc("/{$}", ui.index)

	return httpmw.Chain(
		mux,
		httpmw.WithRequestID,
		httpmw.WithAccessLog(httpmw.AccessLog{Logger: a.logger, Tasks: a.Store.Len}),
		httpmw.WithRecover(a.logger),
	)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
