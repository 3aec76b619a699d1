package quirc

import (
	"github.com/go-quirc/quirc/internal/bitstream"
	"github.com/go-quirc/quirc/internal/capstone"
	"github.com/go-quirc/quirc/internal/grid"
	"github.com/go-quirc/quirc/internal/raster"
	"github.com/go-quirc/quirc/internal/region"
)

// version is the engine's build-and-spec version string.
const version = "1.0"

// Version returns the engine's version string.
func Version() string {
	return version
}

// Context is the decoder's working state: one pixel buffer, reused across
// frames, plus whatever grids the most recent End() located. It is not
// safe for concurrent use by multiple goroutines.
type Context struct {
	buf    *raster.Buffer
	grids  []grid.Grid
	caps   []capstone.Capstone
	table  *region.Table
	tracer Tracer
	id     string
}

// NewContext creates a Context with no buffer. Resize must be called
// before Begin.
func NewContext() *Context {
	return &Context{tracer: defaultTracer(), id: newTraceID()}
}

// NewContextWithTracer creates a Context that reports pipeline events to
// the given Tracer instead of the process-wide default.
func NewContextWithTracer(t Tracer) *Context {
	if t == nil {
		t = NoopTracer{}
	}
	return &Context{tracer: t, id: newTraceID()}
}

// Resize (re)allocates the context's pixel buffer. On failure (non-positive
// w or h) the context is left unmodified, matching the original's
// realloc-or-fail contract translated to Go's allocate-then-swap idiom
// (spec.md §4.J).
func (c *Context) Resize(w, h int) error {
	buf, err := raster.NewBuffer(w, h)
	if err != nil {
		return err
	}
	c.buf = buf
	return nil
}

// Begin returns the writable grayscale buffer for the caller to fill with
// luminance values, plus the buffer's width and height.
func (c *Context) Begin() (gray []byte, w, h int) {
	c.buf.Reset()
	return c.buf.Gray, c.buf.Width, c.buf.Height
}

// End runs the detection pipeline (threshold, region labelling, capstone
// search, grid assembly) over whatever was written into Begin's buffer.
// After End, Count reports how many grids were located until the next
// Begin.
func (c *Context) End() {
	raster.Threshold(c.buf)
	c.tracer.Trace(Event{TraceID: c.id, Stage: StageThreshold})

	c.table = region.Label(c.buf, region.DefaultScratchCapacity(c.buf.Height))
	c.tracer.Trace(Event{TraceID: c.id, Stage: StageRegion, Count: c.table.Len()})

	c.caps = capstone.Find(c.buf, c.table)
	c.tracer.Trace(Event{TraceID: c.id, Stage: StageCapstone, Count: len(c.caps)})

	c.grids = grid.Assemble(c.buf, c.table, c.caps)
	c.tracer.Trace(Event{TraceID: c.id, Stage: StageGrid, Count: len(c.grids)})
}

// Destroy releases the context's buffers. The Context must not be used
// afterward. Go's garbage collector would reclaim this memory regardless;
// Destroy exists so long-lived callers can drop a large frame buffer
// without waiting on GC, mirroring quirc_destroy's lifecycle in the
// original C API.
func (c *Context) Destroy() {
	c.buf = nil
	c.grids = nil
	c.caps = nil
	c.table = nil
}

// Count returns how many grids End() located.
func (c *Context) Count() int {
	return len(c.grids)
}

// Extract samples grid i into a Code, ready for Decode. index must satisfy
// 0 <= index < Count().
func (c *Context) Extract(index int) Code {
	g := c.grids[index]
	bm := grid.Sample(c.buf, g)

	tl := c.caps[g.CapIndices[0]]
	tr := c.caps[g.CapIndices[1]]
	bl := c.caps[g.CapIndices[2]]
	br := g.C.MapPoint(float64(g.GridSize), float64(g.GridSize))

	corners := [4]Point{
		{X: tl.Corners[0].X, Y: tl.Corners[0].Y},
		{X: tr.Corners[1].X, Y: tr.Corners[1].Y},
		{X: br.X, Y: br.Y},
		{X: bl.Corners[3].X, Y: bl.Corners[3].Y},
	}

	return Code{
		Corners: corners,
		Size:    g.GridSize,
		Bitmap:  bm.Bits,
	}
}

// Decode parses a Code's sampled bitmap into Data, running format/version
// recovery, Reed-Solomon correction, and segment parsing (stage G-I).
func (c *Context) Decode(code *Code) (*Data, error) {
	result, err := bitstream.Decode(code.toBitstreamBitmap())
	if c.tracer != nil {
		c.tracer.Trace(Event{TraceID: c.id, Stage: StageDecode, Err: err})
	}
	if err != nil {
		return nil, decodeErrorFrom(err)
	}
	return &Data{
		Version:  result.Version,
		ECCLevel: result.Level.String(),
		Mask:     result.Mask,
		DataType: DataType(result.DataType),
		Payload:  result.Payload,
		ECI:      result.ECI,
		HasECI:   result.HasECI,
	}, nil
}

func decodeErrorFrom(err error) DecodeError {
	switch err {
	case bitstream.ErrInvalidGridSize:
		return ErrorInvalidGridSize
	case bitstream.ErrInvalidVersion:
		return ErrorInvalidVersion
	case bitstream.ErrFormatECC:
		return ErrorFormatECC
	case bitstream.ErrDataECC:
		return ErrorDataECC
	case bitstream.ErrUnknownDataType:
		return ErrorUnknownDataType
	case bitstream.ErrDataOverflow:
		return ErrorDataOverflow
	case bitstream.ErrDataUnderflow:
		return ErrorDataUnderflow
	default:
		return ErrorDataECC
	}
}
