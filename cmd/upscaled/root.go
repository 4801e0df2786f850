package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"upscaled/internal/backend"
	"upscaled/internal/config"
	"upscaled/internal/httpapi"
	"upscaled/internal/upscale"
)

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// rootOptions receives flag values before they are merged in resolveConfig.
type rootOptions struct {
	cfgPath string
	flags   config.Config
}

func newRootCmd() *cobra.Command { return newRootCmdWith(&rootOptions{}) }

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "upscaled",
		Short:         "Image upscaling HTTP service",
		Long:          "upscaled serves POST /upscale with one of: " + strings.Join(backend.Names(), ", ") + ".",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts.cfgPath, opts.flags)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, os.Stderr)
		},
	}

	f := root.Flags()
	f.StringVar(&opts.cfgPath, "config", "", "Path to config file (.yaml|.yml|.json|.toml)")
	f.StringVar(&opts.flags.Addr, "addr", config.DefaultAddr, "HTTP listen address, e.g. :8000")
	f.StringVar(&opts.flags.Backend, "backend", config.DefaultBackend, "Backend: "+strings.Join(backend.Names(), "|"))
	f.StringVar(&opts.flags.LogLevel, "log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error")
	f.StringVar(&opts.flags.LogFormat, "log-format", config.DefaultLogFormat, "Log format: json|console")
	f.IntVar(&opts.flags.MaxBodyMB, "max-body-mb", config.DefaultMaxBodyMB, "Maximum upload size in MiB")
	f.Int64Var(&opts.flags.MaxPixels, "max-pixels", backend.DefaultMaxPixels, "Maximum decoded image size in pixels (width*height)")
	f.String("cors-origins", "*", "Comma-separated allowed CORS origins")
	f.StringVar(&opts.flags.EDSRWeights, "edsr-weights", backend.DefaultEDSRWeights, "EDSR weight file")
	f.StringVar(&opts.flags.RealESRGANWeights, "realesrgan-weights", backend.DefaultRealESRGANWeights, "Real-ESRGAN ONNX weight file")
	f.StringVar(&opts.flags.ONNXLibrary, "onnx-lib", "", "Path to the onnxruntime shared library")
	f.StringVar(&opts.flags.RemoteEndpoint, "remote-endpoint", backend.DefaultRemoteEndpoint, "Remote upscaling API endpoint")
	_ = root.RegisterFlagCompletionFunc("backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return backend.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.MarkFlagFilename("config", "yaml", "yml", "json", "toml")
	return root
}

// resolveConfig merges file, env and explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, path string, fl config.Config) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if err := config.FromEnv(&cfg); err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = fl.Addr
	}
	if flags.Changed("backend") {
		cfg.Backend = fl.Backend
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fl.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = fl.LogFormat
	}
	if flags.Changed("max-body-mb") {
		cfg.MaxBodyMB = fl.MaxBodyMB
	}
	if flags.Changed("max-pixels") {
		cfg.MaxPixels = fl.MaxPixels
	}
	if flags.Changed("cors-origins") {
		v, _ := flags.GetString("cors-origins")
		cfg.CORSOrigins = splitCSV(v)
	}
	if flags.Changed("edsr-weights") {
		cfg.EDSRWeights = fl.EDSRWeights
	}
	if flags.Changed("realesrgan-weights") {
		cfg.RealESRGANWeights = fl.RealESRGANWeights
	}
	if flags.Changed("onnx-lib") {
		cfg.ONNXLibrary = fl.ONNXLibrary
	}
	if flags.Changed("remote-endpoint") {
		cfg.RemoteEndpoint = fl.RemoteEndpoint
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func newLogger(cfg config.Config, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (want json|console)", cfg.LogFormat)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "upscaled").Logger(), nil
}

func backendConfig(cfg config.Config) backend.Config {
	return backend.Config{
		Name:         cfg.Backend,
		ResizeFactor: cfg.ResizeFactor,
		EDSRWeights:  cfg.EDSRWeights,
		MaxPixels:    cfg.MaxPixels,
		RealESRGAN: backend.RealESRGANOptions{
			WeightsPath:   cfg.RealESRGANWeights,
			MaxDimension:  cfg.RealESRGANMaxDim,
			InputName:     cfg.ONNXInputName,
			OutputName:    cfg.ONNXOutputName,
			SharedLibrary: cfg.ONNXLibrary,
		},
		Remote: backend.RemoteOptions{
			Endpoint: cfg.RemoteEndpoint,
			APIKey:   cfg.RemoteAPIKey,
			Prompt:   cfg.RemotePrompt,
			Timeout:  time.Duration(cfg.RemoteTimeoutSeconds) * time.Second,
		},
	}
}

// run builds the backend before listening so a missing model fails startup,
// then serves until SIGINT/SIGTERM.
func run(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, err := newLogger(cfg, logOut)
	if err != nil {
		return err
	}

	be, err := backend.New(backendConfig(cfg), log)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Backend).Msg("backend init failed")
		return fmt.Errorf("backend %s: %w", cfg.Backend, err)
	}
	svc := upscale.New(be, upscale.Config{
		MaxInflight:   cfg.MaxInflight,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       time.Duration(cfg.MaxWaitMS) * time.Millisecond,
	}, log)

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(int64(cfg.MaxBodyMB) << 20)
	httpapi.SetUpscaleTimeoutSeconds(int64(cfg.UpscaleTimeoutSeconds))
	httpapi.SetStatusMessage(cfg.StatusMessage)
	httpapi.SetCORSOptions(cfg.CORSOrigins, cfg.CORSHeaders, true)

	baseCtx, cancelBase := context.WithCancel(ctx)
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend", be.Name()).Msg("upscaled listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	var serveErr error
	select {
	case <-sigCtx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	cancelBase()
	if err := svc.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("backend close error")
	}
	if serveErr != nil {
		return fmt.Errorf("server error: %w", serveErr)
	}
	log.Info().Msg("upscaled stopped")
	return nil
}
