// Package source turns a "kind:target" string into a capture surface.
package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/capture/screen"
	"github.com/osse101/ExpTracker_Go/internal/capture/video"
	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Kind names a capture backend.
type Kind string

const (
	KindScreen Kind = "screen"
	KindVideo  Kind = "video"
	KindImage  Kind = "image"
)

// Spec is a parsed capture source.
type Spec struct {
	Kind   Kind
	Target string
}

func (s Spec) String() string {
	return string(s.Kind) + ":" + s.Target
}

// Parse reads "screen:<display>", "video:<device-or-url>" or "image:<path>".
// A bare "screen" means display 0.
func Parse(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	kind, target, _ := strings.Cut(raw, ":")
	spec := Spec{Kind: Kind(strings.ToLower(kind)), Target: target}

	switch spec.Kind {
	case KindScreen:
		if spec.Target == "" {
			spec.Target = "0"
		}
		if n, err := strconv.Atoi(spec.Target); err != nil || n < 0 {
			return Spec{}, fmt.Errorf("%w: display must be a non-negative index, got %q", domain.ErrInvalidInput, spec.Target)
		}
	case KindVideo, KindImage:
		if spec.Target == "" {
			return Spec{}, fmt.Errorf("%w: %s source needs a target", domain.ErrInvalidInput, spec.Kind)
		}
	default:
		return Spec{}, fmt.Errorf("%w: unknown capture source %q", domain.ErrInvalidInput, raw)
	}
	return spec, nil
}

// Open starts the surface described by spec.
func Open(spec Spec) (capture.Surface, error) {
	switch spec.Kind {
	case KindScreen:
		display, err := strconv.Atoi(spec.Target)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return screen.Open(display)
	case KindVideo:
		return video.Open(spec.Target)
	case KindImage:
		return capture.OpenImage(spec.Target)
	default:
		return nil, fmt.Errorf("%w: unknown capture source %q", domain.ErrInvalidInput, spec.Kind)
	}
}
