package render

import "sync/atomic"

// FrameStats summarizes the work done since the last Clear.
type FrameStats struct {
	Faces          int64 // Faces filled or outlined (DrawTriangle, Render, RenderWireframe)
	PixelsWritten  int64 // Writes that won the depth test
	PixelsRejected int64 // Writes discarded by the depth test
}

// counters is updated concurrently by rasterization tasks.
type counters struct {
	faces    atomic.Int64
	written  atomic.Int64
	rejected atomic.Int64
}

func (c *counters) reset() {
	c.faces.Store(0)
	c.written.Store(0)
	c.rejected.Store(0)
}

// tally accumulates pixel outcomes locally before publishing them once.
type tally struct {
	written, rejected int64
}

func (t *tally) record(ok bool) {
	if ok {
		t.written++
	} else {
		t.rejected++
	}
}

func (c *counters) add(t tally) {
	if t.written != 0 {
		c.written.Add(t.written)
	}
	if t.rejected != 0 {
		c.rejected.Add(t.rejected)
	}
}

// Stats returns the counters for the current frame.
func (d *Device) Stats() FrameStats {
	return FrameStats{
		Faces:          d.stats.faces.Load(),
		PixelsWritten:  d.stats.written.Load(),
		PixelsRejected: d.stats.rejected.Load(),
	}
}
