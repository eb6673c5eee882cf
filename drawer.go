package debugdraw

import (
	"fmt"

	"github.com/gogpu/debugdraw/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// State is the accumulation mode of a Drawer.
type State uint8

const (
	// StateUpdate is the normal mode: appends land in the group named
	// at the call site.
	StateUpdate State = iota

	// StateCapturingGizmos marks a host gizmo capture in progress.
	// Entered by BeginGizmoCapture, which clears the gizmo group.
	StateCapturingGizmos

	// StateIgnore drops every append and refuses every prepare.
	StateIgnore
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUpdate:
		return "update"
	case StateCapturingGizmos:
		return "capturing-gizmos"
	case StateIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Drawer accumulates debug shapes on the CPU and renders them as a
// polyline overlay over an already-rendered scene. Shapes are appended
// between ticks, mirrored to the GPU when a view is prepared, and drawn
// in two depth passes: a faded pass where scene geometry occludes them
// and a full-strength pass where it does not.
//
// Drawer is NOT safe for concurrent use. Append and render from the
// same goroutine, or add external synchronization.
type Drawer struct {
	device hal.Device
	queue  hal.Queue
	opts   drawerOptions

	state         State
	gizmosEnabled bool

	// lastTime is the host game time of the previous tick, valid only
	// when haveTime is set. tickSeq counts Tick calls and feeds the
	// once-per-tick draw guard.
	lastTime float64
	haveTime bool
	tickSeq  uint64

	frame group
	gizmo group

	// lastRendered maps View.ID to the tickSeq of its latest prepared
	// draw, so one view is drawn at most once per tick.
	lastRendered map[uint32]uint64

	// GPU state, created lazily by the first PrepareFrame and released
	// by ReleaseGPUResources or Close.
	gpuReady bool
	pipes    [kindCount]*gpu.PipelineSet
	meshes   [kindCount]*gpu.Mesh
	viewBuf  hal.Buffer
	frameRes groupResources
	gizmoRes groupResources
	staging  []byte

	closed bool
}

// New creates a Drawer on an existing HAL device and queue.
//
// Example:
//
//	dd, err := debugdraw.New(device, queue)
//	if err != nil {
//	    return err
//	}
//	defer dd.Close()
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Drawer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.settings = o.settings.normalize()

	d := &Drawer{
		device:        device,
		queue:         queue,
		opts:          o,
		gizmosEnabled: true,
		frame:         newGroup(o.settings.Capacities),
		gizmo:         newGroup(o.settings.Capacities),
		lastRendered:  make(map[uint32]uint64),
	}
	d.frameRes.init("debugdraw_frame")
	d.gizmoRes.init("debugdraw_gizmo")
	return d, nil
}

// Close releases CPU and GPU resources. The drawer is unusable
// afterwards; create a new one with New. Safe to call repeatedly.
func (d *Drawer) Close() {
	if d.closed {
		return
	}
	d.releaseGPU()
	d.frame.reset()
	d.gizmo.reset()
	d.lastRendered = nil
	d.closed = true
}

// Tick advances the drawer to the host's current game time, in seconds.
// Call once per render tick, before appending that tick's shapes.
//
// When now equals the previous tick's time the game is paused: the
// frame group is retained and redrawn as-is. When time changes the
// frame group is cleared for fresh accumulation. The gizmo group is
// governed by the capture cycle instead and is never cleared here.
func (d *Drawer) Tick(now float64) {
	if d.closed {
		return
	}
	d.tickSeq++
	if !d.haveTime {
		d.haveTime = true
		d.lastTime = now
		return
	}
	if now == d.lastTime {
		return
	}
	d.lastTime = now
	// TODO: expire frame records by their recorded duration instead of
	// clearing the whole group.
	d.frame.clear()
}

// BeginGizmoCapture enters gizmo capture. The gizmo group is cleared on
// entry so shapes never leak across capture cycles. Calling it while a
// capture is already in progress is a no-op, as is calling it while
// ignoring.
func (d *Drawer) BeginGizmoCapture() {
	if d.closed || d.state != StateUpdate {
		return
	}
	d.state = StateCapturingGizmos
	d.gizmo.clear()
}

// EndGizmoCapture leaves gizmo capture. A no-op outside a capture.
func (d *Drawer) EndGizmoCapture() {
	if d.closed || d.state != StateCapturingGizmos {
		return
	}
	d.state = StateUpdate
}

// CaptureGizmos runs fn between BeginGizmoCapture and EndGizmoCapture.
// A nested call runs fn without re-clearing the gizmo group or ending
// the outer capture early.
func (d *Drawer) CaptureGizmos(fn func()) {
	if fn == nil {
		return
	}
	entered := !d.closed && d.state == StateUpdate
	if entered {
		d.BeginGizmoCapture()
	}
	fn()
	if entered {
		d.EndGizmoCapture()
	}
}

// SetIgnore switches the drawer dormant or active. While ignoring,
// every append is discarded, captures cannot start, and PrepareFrame
// skips every view. Turning ignore off returns to StateUpdate; a
// capture interrupted by ignore does not resume.
func (d *Drawer) SetIgnore(ignore bool) {
	if d.closed {
		return
	}
	if ignore {
		d.state = StateIgnore
		return
	}
	if d.state == StateIgnore {
		d.state = StateUpdate
	}
}

// SetGizmosEnabled toggles the global render gate. While disabled,
// ShouldRender refuses every view; accumulation is unaffected.
func (d *Drawer) SetGizmosEnabled(enabled bool) {
	d.gizmosEnabled = enabled
}

// GizmosEnabled reports the global render gate.
func (d *Drawer) GizmosEnabled() bool {
	return d.gizmosEnabled
}

// State returns the current accumulation mode.
func (d *Drawer) State() State {
	return d.state
}

// GroupStats counts the records held in one accumulation group.
type GroupStats struct {
	Lines         int
	Arcs          int
	Boxes         int
	OutlineGroups int
}

func (g GroupStats) total() int {
	return g.Lines + g.Arcs + g.Boxes + g.OutlineGroups
}

// Stats is a point-in-time snapshot of drawer occupancy, for overlays
// and logs.
type Stats struct {
	// Frame and Gizmo count the records held per accumulation group.
	Frame GroupStats
	Gizmo GroupStats

	// State is the accumulation mode at snapshot time.
	State State

	// Ticks is the tick sequence number.
	Ticks uint64

	// MirrorBytes is the GPU memory held by the record and side-channel
	// mirrors, in bytes. Zero until the first prepared frame.
	MirrorBytes uint64
}

// String returns a human-readable one-line form of the snapshot.
func (s Stats) String() string {
	return fmt.Sprintf("debugdraw: state=%s ticks=%d frame=%d gizmo=%d gpu=%dB",
		s.State, s.Ticks, s.Frame.total(), s.Gizmo.total(), s.MirrorBytes)
}

// Stats returns a snapshot of the drawer's occupancy.
func (d *Drawer) Stats() Stats {
	return Stats{
		Frame:       groupStats(&d.frame),
		Gizmo:       groupStats(&d.gizmo),
		State:       d.state,
		Ticks:       d.tickSeq,
		MirrorBytes: d.frameRes.mirrorBytes() + d.gizmoRes.mirrorBytes(),
	}
}

func groupStats(g *group) GroupStats {
	return GroupStats{
		Lines:         g.lines.count(),
		Arcs:          g.arcs.count(),
		Boxes:         g.boxes.count(),
		OutlineGroups: g.outlines.count(),
	}
}
