package debugdraw

// Kind identifies one shape kind. Kinds also fix the draw order: batches
// are synced and drawn in ascending Kind order, and the shared-buffer
// offsets handed to the shaders accumulate in that same order.
type Kind uint8

const (
	KindLine Kind = iota
	KindArc
	KindBox
	KindOutlineGroup
)

// kindCount is the number of shape kinds.
const kindCount = 4

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArc:
		return "arc"
	case KindBox:
		return "box"
	case KindOutlineGroup:
		return "outline"
	default:
		return "unknown"
	}
}

// stride returns the GPU record size for the kind in bytes.
func (k Kind) stride() int {
	switch k {
	case KindLine:
		return lineStride
	case KindArc:
		return arcStride
	case KindBox:
		return boxStride
	case KindOutlineGroup:
		return outlineGroupStride
	default:
		return 0
	}
}

// Shared side-channel strides in bytes.
const (
	// colorStride: one vec4<f32> per record.
	colorStride = 16

	// modStride: one u32 per record.
	modStride = 4
)

// initialBatchCapacity is the allocation size of a batch's buffers on
// first append when no capacity hint is configured.
const initialBatchCapacity = 32

// record is a fixed-size shape payload that knows its GPU encoding.
type record interface {
	appendTo(dst []byte) []byte
}

// sideChannels holds the per-record metadata buffers kept in lockstep
// with a batch's record buffer. Lockstep is structural rather than
// validated: the only append path is batch.append, which pushes all four
// buffers together.
type sideChannels struct {
	colors    []Color
	mods      []DrawModifications
	durations []float32
}

// batch accumulates records of one shape kind plus their side channels.
// Records are append-only between clears; indices are stable within a
// frame.
type batch[R record] struct {
	sideChannels
	kind    Kind
	initCap int
	recs    []R
	dirty   bool
}

// ensureCreated allocates all four buffers together on first use.
// Idempotent; the buffers survive clears and are reused until reset.
func (b *batch[R]) ensureCreated() {
	if b.recs != nil {
		return
	}
	c := b.initCap
	if c <= 0 {
		c = initialBatchCapacity
	}
	b.recs = make([]R, 0, c)
	b.colors = make([]Color, 0, c)
	b.mods = make([]DrawModifications, 0, c)
	b.durations = make([]float32, 0, c)
}

// append pushes one record with its side-channel triple and marks the
// batch dirty. Returns the record's index within the batch.
func (b *batch[R]) append(rec R, c Color, m DrawModifications, duration float32) int {
	b.ensureCreated()
	b.recs = append(b.recs, rec)
	b.colors = append(b.colors, c)
	b.mods = append(b.mods, m)
	b.durations = append(b.durations, duration)
	b.dirty = true
	return len(b.recs) - 1
}

// clear empties the batch, retaining capacity. A clear on an empty batch
// is a no-op and does not touch the dirty flag.
func (b *batch[R]) clear() {
	if len(b.recs) == 0 {
		return
	}
	b.recs = b.recs[:0]
	b.colors = b.colors[:0]
	b.mods = b.mods[:0]
	b.durations = b.durations[:0]
	b.dirty = true
}

// reset releases the CPU buffers entirely. The next append re-creates
// them.
func (b *batch[R]) reset() {
	b.recs = nil
	b.colors = nil
	b.mods = nil
	b.durations = nil
	b.dirty = false
}

func (b *batch[R]) kindID() Kind { return b.kind }

func (b *batch[R]) count() int { return len(b.recs) }

func (b *batch[R]) capacity() int { return cap(b.recs) }

func (b *batch[R]) isDirty() bool { return b.dirty }

func (b *batch[R]) markClean() { b.dirty = false }

// appendRecords packs every record to dst in append order.
func (b *batch[R]) appendRecords(dst []byte) []byte {
	for i := range b.recs {
		dst = b.recs[i].appendTo(dst)
	}
	return dst
}

// appendColors packs every color to dst in append order.
func (b *batch[R]) appendColors(dst []byte) []byte {
	for _, c := range b.colors {
		dst = appendFloat32(dst, c.R)
		dst = appendFloat32(dst, c.G)
		dst = appendFloat32(dst, c.B)
		dst = appendFloat32(dst, c.A)
	}
	return dst
}

// appendMods packs every modification word to dst in append order.
func (b *batch[R]) appendMods(dst []byte) []byte {
	for _, m := range b.mods {
		dst = appendUint32(dst, uint32(m))
	}
	return dst
}

// anyBatch is the kind-erased view of a batch used by the frame
// controller and the GPU sync path.
type anyBatch interface {
	kindID() Kind
	count() int
	capacity() int
	isDirty() bool
	markClean()
	clear()
	reset()
	appendRecords(dst []byte) []byte
	appendColors(dst []byte) []byte
	appendMods(dst []byte) []byte
}
