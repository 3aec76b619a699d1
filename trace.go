package quirc

import (
	"sync"

	"github.com/google/uuid"
)

// Stage names a pipeline phase a Tracer can be notified about.
type Stage int

const (
	StageThreshold Stage = iota
	StageRegion
	StageCapstone
	StageGrid
	StageDecode
)

func (s Stage) String() string {
	switch s {
	case StageThreshold:
		return "threshold"
	case StageRegion:
		return "region"
	case StageCapstone:
		return "capstone"
	case StageGrid:
		return "grid"
	case StageDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Event is what a Tracer receives after each pipeline stage runs.
type Event struct {
	TraceID string
	Stage   Stage
	Count   int // number of items the stage produced (regions, capstones, grids)
	Err     error
}

// Tracer is an optional, pull-based observability sink: the engine never
// logs on its own (spec.md §11 ambient stack), but a caller that wants
// visibility into why a frame failed to decode can register one.
type Tracer interface {
	Trace(Event)
}

// NoopTracer discards every event; it is the default.
type NoopTracer struct{}

// Trace implements Tracer by doing nothing.
func (NoopTracer) Trace(Event) {}

type tracerRegistry struct {
	mu     sync.RWMutex
	tracer Tracer
}

var defaultTracerRegistry = &tracerRegistry{tracer: NoopTracer{}}

// RegisterTracer installs the process-wide default Tracer used by any
// Context that wasn't given one explicitly via NewContextWithTracer.
func RegisterTracer(t Tracer) {
	defaultTracerRegistry.mu.Lock()
	defer defaultTracerRegistry.mu.Unlock()
	if t == nil {
		t = NoopTracer{}
	}
	defaultTracerRegistry.tracer = t
}

func defaultTracer() Tracer {
	defaultTracerRegistry.mu.RLock()
	defer defaultTracerRegistry.mu.RUnlock()
	return defaultTracerRegistry.tracer
}

func newTraceID() string {
	return uuid.NewString()
}
