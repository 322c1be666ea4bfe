package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"weld-schedule/internal/audit"
	"weld-schedule/internal/auth"
	"weld-schedule/internal/observability/metrics"
	"weld-schedule/internal/welding/application"
	"weld-schedule/internal/welding/infrastructure/memory"
	weldpostgres "weld-schedule/internal/welding/infrastructure/postgres"
	"weld-schedule/internal/welding/interfaces"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	if err := rootCmd(logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(logger *log.Logger) *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:           "weldsched",
		Short:         "Weld property extraction and weld numbering for piping models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&modelPath, "model", "", "YAML model snapshot; DATABASE_URL or PG_DSN is used when empty")

	cmd.AddCommand(&cobra.Command{
		Use:   "set-weld-prop",
		Short: "Write both sides' pipe attributes onto every weld",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd.Context(), logger, modelPath, (*application.Service).ExtractProperties)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-weld-number",
		Short: "Number welds per class, sharing numbers between identical joints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd.Context(), logger, modelPath, (*application.Service).AssignNumbers)
		},
	})
	cmd.AddCommand(exportCmd(logger, &modelPath))
	cmd.AddCommand(importCmd(logger, &modelPath))
	cmd.AddCommand(serveCmd(logger, &modelPath))
	return cmd
}

func exportCmd(logger *log.Logger, modelPath *string) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the current weld schedule as xlsx or pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "xlsx" && format != "pdf" {
				return fmt.Errorf("unknown format %q", format)
			}
			cfg, err := application.LoadConfig()
			if err != nil {
				return err
			}
			env, err := openEnv(logger, *modelPath)
			if err != nil {
				return err
			}
			defer env.close()
			service, err := env.service(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			report, err := service.Schedule(cmd.Context())
			if err != nil {
				metrics.ObserveScheduleExport(format, metrics.ResultError, time.Since(start))
				return err
			}
			meta := interfaces.ScheduleMeta{Title: cfg.Export.Title, Project: cfg.Export.Project}
			var data []byte
			if format == "xlsx" {
				data, err = interfaces.BuildScheduleXLSX(meta, report)
			} else {
				data, err = interfaces.BuildSchedulePDF(meta, report)
			}
			if err != nil {
				metrics.ObserveScheduleExport(format, metrics.ResultError, time.Since(start))
				return err
			}
			metrics.ObserveScheduleExport(format, metrics.ResultSuccess, time.Since(start))
			if out == "" {
				out = "weld-schedule." + format
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			logger.Printf("export: %d welds written to %s", len(report.Joints), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "xlsx", "Output format (xlsx, pdf)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default weld-schedule.<format>)")
	return cmd
}

func importCmd(logger *log.Logger, modelPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy a YAML model snapshot into the Postgres plant tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if *modelPath == "" {
				return errors.New("import needs --model")
			}
			dsn := databaseURL()
			if dsn == "" {
				return errors.New("DATABASE_URL or PG_DSN is required")
			}
			model, err := memory.LoadModelFile(*modelPath)
			if err != nil {
				return err
			}
			db, err := openDB(dsn)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := weldpostgres.ImportModel(cmd.Context(), db, model); err != nil {
				return err
			}
			logger.Printf("import: %d parts, %d rows from %s", len(model.Parts()), len(model.RowIDs()), *modelPath)
			return nil
		},
	}
}

func serveCmd(logger *log.Logger, modelPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the weld API, metrics and health checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := application.LoadConfig()
			if err != nil {
				return err
			}
			httpCfg := loadHTTPConfig()
			if httpCfg.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is required")
			}
			env, err := openEnv(logger, *modelPath)
			if err != nil {
				return err
			}
			defer env.close()
			service, err := env.service(cfg)
			if err != nil {
				return err
			}

			handler, err := serveHandler(logger, env, service, cfg, httpCfg)
			if err != nil {
				return err
			}
			server := &http.Server{Addr: httpCfg.HTTPAddr, Handler: handler}
			logger.Printf("http listening on %s", httpCfg.HTTPAddr)
			return server.ListenAndServe()
		},
	}
}

// serveHandler builds the authenticated API mux. In snapshot mode every
// write pass saves the model file before answering.
func serveHandler(logger *log.Logger, env *storeEnv, service *application.Service, cfg application.Config, httpCfg httpConfig) (http.Handler, error) {
	var auditLogger audit.Logger = audit.NewLogLogger(logger)
	if env.db != nil {
		auditLogger = audit.NewRepository(env.db)
	}
	var opts []interfaces.WeldHandlerOption
	if env.model != nil {
		opts = append(opts, interfaces.WithAfterRun(func(ctx context.Context, report *application.RunReport) error {
			return env.save()
		}))
	}
	weldHandler, err := interfaces.NewWeldHandler(service, interfaces.ScheduleMeta{Title: cfg.Export.Title, Project: cfg.Export.Project}, auditLogger, opts...)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/welds/", weldHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if env.db != nil {
			if err := env.db.PingContext(r.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authMiddleware := auth.NewMiddleware([]byte(httpCfg.JWTSecret), auth.NewDefaultPolicy("/healthz", "/metrics"))
	return loggingMiddleware(authMiddleware.Wrap(mux), logger), nil
}

type passFunc func(*application.Service, context.Context) (*application.RunReport, error)

func runPass(ctx context.Context, logger *log.Logger, modelPath string, pass passFunc) error {
	cfg, err := application.LoadConfig()
	if err != nil {
		return err
	}
	env, err := openEnv(logger, modelPath)
	if err != nil {
		return err
	}
	defer env.close()
	service, err := env.service(cfg)
	if err != nil {
		return err
	}

	report, passErr := pass(service, ctx)
	if report != nil {
		for _, joint := range report.Joints {
			logger.Printf("weld %s %s number=%q A=%s/%s/%s B=%s/%s/%s", joint.ID, joint.Class, joint.Number,
				joint.PortA.OD, joint.PortA.WallThickness, joint.PortA.Material,
				joint.PortB.OD, joint.PortB.WallThickness, joint.PortB.Material)
		}
		logger.Printf("%s run %s: %d welds, %d warnings", report.Command, report.RunID, len(report.Joints), len(report.Warnings))
	}
	if report != nil {
		if err := env.save(); err != nil {
			return errors.Join(passErr, err)
		}
	}
	return passErr
}

// storeEnv holds the adapters selected by --model or the database URL.
type storeEnv struct {
	logger    *log.Logger
	db        *sql.DB
	model     *memory.Model
	modelPath string
	graph     application.ConnectivityGraph
	store     application.PropertyStore
	saveMu    sync.Mutex
}

func openEnv(logger *log.Logger, modelPath string) (*storeEnv, error) {
	env := &storeEnv{logger: logger}
	if modelPath != "" {
		model, err := memory.LoadModelFile(modelPath)
		if err != nil {
			return nil, err
		}
		env.model = model
		env.modelPath = modelPath
		env.graph = model
		env.store = model
		metrics.Init(nil, logger)
		return env, nil
	}

	dsn := databaseURL()
	if dsn == "" {
		return nil, errors.New("either --model or DATABASE_URL/PG_DSN is required")
	}
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	env.db = db
	env.graph = weldpostgres.NewConnectivityGraph(db)
	env.store = weldpostgres.NewPropertyStore(db)
	metrics.Init(db, logger)
	return env, nil
}

func (e *storeEnv) service(cfg application.Config) (*application.Service, error) {
	reporter := interfaces.NewLoggingReporter(e.logger, "resolver")
	return application.NewService(e.graph, e.store, reporter, cfg.Numbering)
}

// save writes the snapshot back in snapshot mode.
func (e *storeEnv) save() error {
	if e.model == nil {
		return nil
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	return memory.SaveModelFile(e.modelPath, e.model)
}

func (e *storeEnv) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

type httpConfig struct {
	HTTPAddr  string
	JWTSecret string
}

func loadHTTPConfig() httpConfig {
	return httpConfig{
		HTTPAddr:  getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret: getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
}

func databaseURL() string {
	return getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", ""))
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
