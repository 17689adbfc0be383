// Package web serves the upload-and-select recommendation page.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	logpkg "github.com/KaramelBytes/alsobought-cli/internal/logger"
	"github.com/KaramelBytes/alsobought-cli/internal/metrics"
	"github.com/KaramelBytes/alsobought-cli/internal/orders"
	"github.com/KaramelBytes/alsobought-cli/internal/pipeline"
	"github.com/KaramelBytes/alsobought-cli/internal/recommend"
	"github.com/KaramelBytes/alsobought-cli/internal/render"
	"github.com/KaramelBytes/alsobought-cli/internal/utils"
)

var (
	errDatasetNotFound = errors.New("dataset not found or expired")
	errTooLarge        = errors.New("upload too large")
)

// Config holds what the server needs to build and query datasets.
type Config struct {
	Orders   orders.Options
	Pipeline pipeline.Options
	TopK     int
	// MaxUploadBytes bounds the multipart body.
	MaxUploadBytes int64
	CacheSize      int
	CacheTTL       time.Duration
}

// Dataset is one uploaded export and the model built from it.
type Dataset struct {
	ID       string
	Name     string
	Size     int64
	Uploaded time.Time
	Model    *pipeline.Model
}

// Server holds uploaded datasets in a bounded, expiring cache.
type Server struct {
	cfg    Config
	cache  *expirable.LRU[string, *Dataset]
	pages  *template.Template
	logger *zap.Logger
}

// NewServer creates the web UI server.
func NewServer(cfg Config, logger *zap.Logger) *Server {
	if cfg.TopK <= 0 {
		cfg.TopK = recommend.DefaultTopK
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 16
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:    cfg,
		cache:  expirable.NewLRU[string, *Dataset](cfg.CacheSize, nil, cfg.CacheTTL),
		pages:  template.Must(template.New("page").Funcs(render.FuncMap()).Parse(render.TableTemplate + pageTemplate)),
		logger: logger,
	}
}

// Routes returns the router with middleware applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/", s.handleIndex)
	r.Post("/datasets", s.handleUpload)
	r.Get("/datasets/{id}", s.handleDataset)
	r.Get("/datasets/{id}/recommendations", s.handleRecommendations)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// pageData feeds pageTemplate.
type pageData struct {
	Dataset         *Dataset
	Stats           pipeline.Stats
	Items           []string
	Item            string
	Recommendations []recommend.Recommendation
	Error           string
	Status          int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, pageData{})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		s.renderError(w, r, fmt.Errorf("%w: limit is %d bytes", errTooLarge, s.cfg.MaxUploadBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		if !isMaxBytes(err) {
			err = fmt.Errorf("%w: expected a file in field 'file'", errBadUpload)
		}
		s.renderError(w, r, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	start := time.Now()
	in, err := s.readOrders(hdr.Filename, data)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	model, err := pipeline.Build(r.Context(), in, s.cfg.Pipeline)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	ds := &Dataset{
		ID:       uuid.NewString(),
		Name:     filepath.Base(hdr.Filename),
		Size:     int64(len(data)),
		Uploaded: time.Now(),
		Model:    model,
	}
	s.cache.Add(ds.ID, ds)
	logpkg.FromContext(r.Context()).Info("dataset built",
		zap.String("dataset_id", ds.ID),
		zap.String("file", ds.Name),
		zap.Int("orders", model.Stats.Orders),
		zap.Int("repeat_buyers", model.Stats.RepeatBuyers),
		zap.Int("top_items", model.Stats.TopItems),
		zap.Int("missing_buyer", model.Stats.MissingBuyer),
		zap.Duration("duration", time.Since(start)),
	)
	http.Redirect(w, r, "/datasets/"+ds.ID, http.StatusSeeOther)
}

func (s *Server) readOrders(name string, data []byte) ([]orders.Order, error) {
	opt := s.cfg.Orders
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return orders.ReadXLSX(bytes.NewReader(data), int64(len(data)), opt)
	case ".csv", ".txt":
		return orders.ReadCSV(bytes.NewReader(data), opt)
	case ".tsv":
		if opt.Delimiter == 0 {
			opt.Delimiter = '\t'
		}
		return orders.ReadCSV(bytes.NewReader(data), opt)
	default:
		return nil, fmt.Errorf("%w: %s (upload .csv or .xlsx)", orders.ErrUnsupportedFormat, filepath.Base(name))
	}
}

func (s *Server) dataset(id string) (*Dataset, error) {
	ds, ok := s.cache.Get(id)
	if !ok {
		metrics.DatasetCacheTotal.WithLabelValues("miss").Inc()
		return nil, errDatasetNotFound
	}
	metrics.DatasetCacheTotal.WithLabelValues("hit").Inc()
	return ds, nil
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	data := pageData{Dataset: ds, Stats: ds.Model.Stats, Item: r.URL.Query().Get("item")}
	for _, it := range ds.Model.Items {
		data.Items = append(data.Items, it.Item)
	}
	if data.Item == "" {
		data.Item = ds.Model.DefaultItem()
	}
	recs, err := recommendFor(ds.Model, data.Item, s.cfg.TopK)
	if err != nil {
		data.Status = statusFor(err)
		data.Error = err.Error()
		s.renderPage(w, r, data.Status, data)
		return
	}
	data.Recommendations = recs
	s.renderPage(w, r, http.StatusOK, data)
}

// recommendFor rejects items outside the ranking before querying the matrix.
func recommendFor(m *pipeline.Model, item string, k int) ([]recommend.Recommendation, error) {
	if len(m.Items) > 0 && !m.Has(item) {
		return nil, fmt.Errorf("%w: %q is not among the %d ranked items", recommend.ErrUnknownItem, item, len(m.Items))
	}
	return m.Recommend(item, k)
}

type recommendationsResponse struct {
	Dataset         string                     `json:"dataset"`
	Item            string                     `json:"item"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, err)
		return
	}
	q := r.URL.Query()
	item := q.Get("item")
	if item == "" {
		item = ds.Model.DefaultItem()
	}
	k := s.cfg.TopK
	if v := q.Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSONError(w, fmt.Errorf("%w: k must be a positive integer", errBadUpload))
			return
		}
		k = n
	}
	recs, err := recommendFor(ds.Model, item, k)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{Dataset: ds.ID, Item: item, Recommendations: recs})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.Execute(&buf, data); err != nil {
		logpkg.FromContext(r.Context()).Error("render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logpkg.FromContext(r.Context()).Error("request failed", zap.Error(err))
	}
	s.renderPage(w, r, status, pageData{Error: err.Error(), Status: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeJSONError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeJSON(w, status, map[string]string{"code": errorCode(status), "message": err.Error()})
}
