package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"upscaled/internal/pixels"
	"upscaled/pkg/types"
)

// Remote defaults.
const (
	DefaultRemoteEndpoint = "https://api.stability.ai/v2beta/stable-image/upscale/conservative"
	DefaultRemotePrompt   = "Upscale this image to a higher resolution, preserving fine detail and sharpness."
	DefaultRemoteTimeout  = 120 * time.Second
	maxUpstreamBytes      = 64 << 20
)

// RemoteOptions configures the hosted upscaling API client.
type RemoteOptions struct {
	Endpoint     string
	APIKey       string
	Prompt       string
	OutputFormat string
	Timeout      time.Duration
	// HTTPClient overrides the default pooled client (tests).
	HTTPClient *http.Client
}

// Remote forwards uploads to a hosted upscaling API and relays its answer.
type Remote struct {
	endpoint     string
	apiKey       string
	prompt       string
	outputFormat string
	timeout      time.Duration
	httpClient   *http.Client
	log          zerolog.Logger
}

// NewRemote validates opts. The API key must come from configuration or the
// environment; there is no built-in credential.
func NewRemote(opts RemoteOptions, log zerolog.Logger) (*Remote, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("remote: api key not configured (set UPSCALED_REMOTE_API_KEY)")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultRemoteEndpoint
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultRemotePrompt
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = "png"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRemoteTimeout
	}
	cli := opts.HTTPClient
	if cli == nil {
		tr := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		// Deadlines come from the request context.
		cli = &http.Client{Transport: tr}
	}
	return &Remote{
		endpoint:     opts.Endpoint,
		apiKey:       opts.APIKey,
		prompt:       opts.Prompt,
		outputFormat: opts.OutputFormat,
		timeout:      opts.Timeout,
		httpClient:   cli,
		log:          log.With().Str("backend", NameRemote).Logger(),
	}, nil
}

func (r *Remote) Name() string { return NameRemote }

func (r *Remote) Upscale(ctx context.Context, req types.UpscaleRequest) (types.UpscaleResult, error) {
	if _, _, err := pixels.DecodeConfig(req.Image); err != nil {
		return types.UpscaleResult{}, ErrInvalidInput(err)
	}
	body, contentType, err := r.form(req)
	if err != nil {
		return types.UpscaleResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return types.UpscaleResult{}, fmt.Errorf("remote request: %w", err)
	}
	hreq.Header.Set("Content-Type", contentType)
	hreq.Header.Set("Authorization", "Bearer "+r.apiKey)
	hreq.Header.Set("Accept", "image/*")

	start := time.Now()
	resp, err := r.httpClient.Do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			return types.UpscaleResult{}, ctx.Err()
		}
		return types.UpscaleResult{}, fmt.Errorf("remote request: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBytes))
	if err != nil {
		return types.UpscaleResult{}, fmt.Errorf("remote response: %w", err)
	}
	r.log.Debug().Int("status", resp.StatusCode).Int("bytes", len(data)).Dur("dur", time.Since(start)).Msg("remote response")

	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.UpscaleResult{}, &UpstreamError{Status: resp.StatusCode, Body: data, ContentType: ct}
	}
	if ct == "" {
		ct = PNGContentType
	}
	return types.UpscaleResult{Body: data, ContentType: ct}, nil
}

func (r *Remote) form(req types.UpscaleRequest) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	name := req.Filename
	if name == "" {
		name = "image"
	}
	fw, err := mw.CreateFormFile("image", filepath.Base(name))
	if err != nil {
		return nil, "", fmt.Errorf("remote form: %w", err)
	}
	if _, err := fw.Write(req.Image); err != nil {
		return nil, "", fmt.Errorf("remote form: %w", err)
	}
	if err := mw.WriteField("prompt", r.prompt); err != nil {
		return nil, "", fmt.Errorf("remote form: %w", err)
	}
	if err := mw.WriteField("output_format", r.outputFormat); err != nil {
		return nil, "", fmt.Errorf("remote form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("remote form: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}

func (r *Remote) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}
