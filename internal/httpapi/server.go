package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"upscaled/internal/backend"
	"upscaled/internal/upscale"
	"upscaled/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Upscale(ctx context.Context, req types.UpscaleRequest) (types.UpscaleResult, error)
	Status() types.StatusResponse
	Ready() bool
	BackendName() string
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// CORS first so error responses and 404s carry the headers too
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   corsAllowedMethods,
		AllowedHeaders:   corsAllowedHeaders,
		AllowCredentials: corsAllowCredentials,
		MaxAge:           300,
	}))
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		msg := statusMessage
		if msg == "" {
			msg = types.DefaultStatusMessage
		}
		writeJSON(w, types.StatusMessage{Message: msg})
	})

	r.Post("/upscale", func(w http.ResponseWriter, r *http.Request) {
		handleUpscale(svc, w, r)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// handleUpscale godoc
// @Summary      Upscale an image
// @Tags         upscale
// @Accept       multipart/form-data
// @Produce      image/png
// @Produce      json
// @Param        image  formData  file  true   "Image to upscale"
// @Param        scale  formData  int   false  "Scale factor (hybrid backend)"  default(4)
// @Success      200  {file}    binary  "Upscaled image bytes"
// @Failure      400  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /upscale [post]
func handleUpscale(svc Service, w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)

	req, status, detail := readUpscaleRequest(w, r, svc.BackendName() == backend.NameHybrid)
	if status != 0 {
		if lvl >= LevelInfo {
			reqEvent(zlog.Info(), r).Int("status", status).Str("detail", detail).Msg("upscale rejected")
		}
		writeJSONError(w, status, detail)
		return
	}
	if lvl >= LevelInfo {
		reqEvent(zlog.Info(), r).Str("filename", req.Filename).Int("bytes", len(req.Image)).
			Int("scale", req.Scale).Msg("upscale start")
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if upscaleTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(upscaleTimeout)*time.Second)
		defer tcancel()
	}

	res, err := svc.Upscale(ctx, req)
	if err != nil {
		// Client gone: nobody to answer.
		if r.Context().Err() != nil {
			if lvl >= LevelInfo {
				reqEvent(zlog.Info(), r).Dur("dur", time.Since(start)).Msg("upscale canceled")
			}
			return
		}
		if serverBaseCtx.Err() != nil {
			reqEvent(zlog.Warn(), r).Err(err).Dur("dur", time.Since(start)).Msg("upscale aborted by shutdown")
			writeJSONError(w, http.StatusServiceUnavailable, detailShutdown)
			return
		}
		status := writeUpscaleError(w, err)
		if status >= http.StatusInternalServerError {
			reqEvent(zlog.Error(), r).Err(err).Int("status", status).Dur("dur", time.Since(start)).Msg("upscale failed")
		} else if lvl >= LevelInfo {
			reqEvent(zlog.Info(), r).Err(err).Int("status", status).Dur("dur", time.Since(start)).Msg("upscale end")
		}
		return
	}

	ct := res.ContentType
	if ct == "" {
		ct = backend.PNGContentType
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
	if lvl >= LevelInfo {
		reqEvent(zlog.Info(), r).Int("status", http.StatusOK).Int("bytes", len(res.Body)).
			Int("width", res.Width).Int("height", res.Height).Dur("dur", time.Since(start)).Msg("upscale end")
	}
}

// readUpscaleRequest parses the multipart upload. A non-zero status means the
// request was rejected with detail. The scale field is only parsed when
// withScale is set; other backends have a fixed factor and ignore it.
func readUpscaleRequest(w http.ResponseWriter, r *http.Request, withScale bool) (types.UpscaleRequest, int, string) {
	if r.ContentLength > maxBodyBytes {
		return types.UpscaleRequest{}, http.StatusRequestEntityTooLarge, detailTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return types.UpscaleRequest{}, http.StatusRequestEntityTooLarge, detailTooLarge
		}
		return types.UpscaleRequest{}, http.StatusBadRequest, detailInvalidImage
	}
	defer r.MultipartForm.RemoveAll()

	f, hdr, err := r.FormFile("image")
	if err != nil {
		return types.UpscaleRequest{}, http.StatusBadRequest, detailInvalidImage
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil || len(data) == 0 {
		return types.UpscaleRequest{}, http.StatusBadRequest, detailInvalidImage
	}

	scale := types.DefaultScale
	if v := strings.TrimSpace(r.FormValue("scale")); withScale && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return types.UpscaleRequest{}, http.StatusBadRequest, detailInvalidScale
		}
		scale = n
	}
	return types.UpscaleRequest{Image: data, Filename: hdr.Filename, Scale: scale}, 0, ""
}

// writeUpscaleError maps err to a response and returns the status written.
func writeUpscaleError(w http.ResponseWriter, err error) int {
	if ue, ok := backend.AsUpstream(err); ok {
		if ue.ContentType != "" {
			w.Header().Set("Content-Type", ue.ContentType)
		}
		w.WriteHeader(ue.Status)
		_, _ = w.Write(ue.Body)
		return ue.Status
	}
	switch {
	case backend.IsInvalidInput(err):
		writeJSONError(w, http.StatusBadRequest, detailInvalidImage)
		return http.StatusBadRequest
	case backend.IsImageTooLarge(err):
		writeJSONError(w, http.StatusRequestEntityTooLarge, detailTooLarge)
		return http.StatusRequestEntityTooLarge
	case upscale.IsTooBusy(err):
		writeJSONError(w, http.StatusTooManyRequests, detailBusy)
		return http.StatusTooManyRequests
	case backend.IsDependencyUnavailable(err):
		writeJSONError(w, http.StatusServiceUnavailable, detailUnavailable)
		return http.StatusServiceUnavailable
	}
	var he HTTPError
	if errors.As(err, &he) && he.StatusCode() < http.StatusInternalServerError {
		writeJSONError(w, he.StatusCode(), http.StatusText(he.StatusCode()))
		return he.StatusCode()
	}
	writeJSONError(w, http.StatusInternalServerError, detailInternal)
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
