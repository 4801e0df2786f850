package backend

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Backend ids accepted by New.
const (
	NameResize     = "resize"
	NameEDSR       = "edsr"
	NameRealESRGAN = "realesrgan"
	NameRemote     = "remote"
	NameHybrid     = "hybrid"
)

// Names lists the backend ids in a stable order.
func Names() []string {
	return []string{NameResize, NameEDSR, NameRealESRGAN, NameRemote, NameHybrid}
}

// Config selects and configures one backend.
type Config struct {
	Name         string
	ResizeFactor int
	EDSRWeights  string
	RealESRGAN   RealESRGANOptions
	Remote       RemoteOptions
	// MaxPixels caps width*height of decoded uploads; 0 means DefaultMaxPixels.
	MaxPixels int64
}

// New builds the configured backend. Model weights are loaded here, so a
// missing file surfaces before the server starts listening.
func New(cfg Config, log zerolog.Logger) (Backend, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	switch name {
	case NameResize:
		return WrapWithLimit(name, Interpolator{Factor: cfg.ResizeFactor}, cfg.MaxPixels, log), nil
	case NameEDSR:
		m, err := NewEDSR(cfg.EDSRWeights, log)
		if err != nil {
			return nil, err
		}
		return WrapWithLimit(name, m, cfg.MaxPixels, log), nil
	case NameRealESRGAN:
		m, err := LoadRealESRGAN(cfg.RealESRGAN, log)
		if err != nil {
			return nil, err
		}
		return WrapWithLimit(name, m, cfg.MaxPixels, log), nil
	case NameRemote:
		r, err := NewRemote(cfg.Remote, log)
		if err != nil {
			return nil, err
		}
		return r, nil
	case NameHybrid:
		m, err := LoadRealESRGAN(cfg.RealESRGAN, log)
		if err != nil {
			return nil, err
		}
		return WrapWithLimit(name, &Hybrid{Model: m, Interp: Interpolator{Factor: 2}}, cfg.MaxPixels, log), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want one of %s)", cfg.Name, strings.Join(Names(), ", "))
	}
}
