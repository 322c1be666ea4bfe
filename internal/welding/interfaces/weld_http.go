package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"weld-schedule/internal/audit"
	"weld-schedule/internal/auth"
	"weld-schedule/internal/observability/metrics"
	"weld-schedule/internal/welding/application"
	welding "weld-schedule/internal/welding/domain"
)

// WeldHandler serves the weld passes and schedule exports under /api/v1/welds.
type WeldHandler struct {
	service     *application.Service
	meta        ScheduleMeta
	auditLogger audit.Logger
	afterRun    func(ctx context.Context, report *application.RunReport) error
}

// WeldHandlerOption configures the handler.
type WeldHandlerOption func(*WeldHandler)

// WithAfterRun registers a hook called after every write pass that built joints.
// A hook error fails the request.
func WithAfterRun(hook func(ctx context.Context, report *application.RunReport) error) WeldHandlerOption {
	return func(h *WeldHandler) {
		h.afterRun = hook
	}
}

// NewWeldHandler constructs a handler. auditLogger may be nil.
func NewWeldHandler(service *application.Service, meta ScheduleMeta, auditLogger audit.Logger, opts ...WeldHandlerOption) (*WeldHandler, error) {
	if service == nil {
		return nil, errors.New("weld handler: nil service")
	}
	h := &WeldHandler{service: service, meta: meta, auditLogger: auditLogger}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type runResponse struct {
	*application.RunReport
	Counts map[welding.ClassTag]int `json:"counts"`
	Error  string                   `json:"error,omitempty"`
}

// ServeHTTP routes weld requests.
func (h *WeldHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/welds/properties":
		if r.Method == http.MethodPost {
			h.handleRun(w, r, "weld.properties", h.service.ExtractProperties)
			return
		}
	case "/api/v1/welds/numbers":
		if r.Method == http.MethodPost {
			h.handleRun(w, r, "weld.numbers", h.service.AssignNumbers)
			return
		}
	case "/api/v1/welds/schedule":
		if r.Method == http.MethodGet {
			h.handleSchedule(w, r)
			return
		}
	case "/api/v1/welds/schedule.xlsx":
		if r.Method == http.MethodGet {
			h.handleExport(w, r, "xlsx")
			return
		}
	case "/api/v1/welds/schedule.pdf":
		if r.Method == http.MethodGet {
			h.handleExport(w, r, "pdf")
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *WeldHandler) handleRun(w http.ResponseWriter, r *http.Request, action string, pass func(ctx context.Context) (*application.RunReport, error)) {
	report, err := pass(r.Context())
	if report == nil {
		respondServiceError(w, err)
		return
	}
	if h.afterRun != nil {
		if hookErr := h.afterRun(r.Context(), report); hookErr != nil {
			err = errors.Join(err, hookErr)
		}
	}
	resp := runResponse{RunReport: report, Counts: report.CountByClass()}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
	h.logAudit(r, report.RunID, action, map[string]any{
		"joints":   len(report.Joints),
		"warnings": len(report.Warnings),
		"failed":   err != nil,
	})
}

func (h *WeldHandler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Schedule(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{RunReport: report, Counts: report.CountByClass()})
}

func (h *WeldHandler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveScheduleExport(format, result, time.Since(start))
	}()

	report, err := h.service.Schedule(r.Context())
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	var data []byte
	contentType := "application/pdf"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		data, err = BuildScheduleXLSX(h.meta, report)
	} else {
		data, err = BuildSchedulePDF(h.meta, report)
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export "+format+" error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="weld-schedule.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *WeldHandler) logAudit(r *http.Request, runID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	projectID := auth.ProjectIDFromContext(r.Context())
	if projectID == "" {
		projectID = h.meta.Project
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		ProjectID:    projectID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "weld_run",
		ResourceID:   runID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, welding.ErrNoConnectors) {
		http.Error(w, welding.ErrNoConnectors.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
