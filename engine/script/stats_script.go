package script

import (
	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/lbuffer"
	"github.com/Carmen-Shannon/lumen/engine/profiler"
	"github.com/Carmen-Shannon/lumen/engine/scene"
)

// StatsScriptName is the script name of every StatsScript.
const StatsScriptName = "stats"

// LBufferSource exposes the light buffer built for the most recent camera.
// lbuffer.Processor satisfies it.
type LBufferSource interface {
	LBuffer() *lbuffer.LBuffer
}

// StatsReport is one sample reported by a StatsScript.
type StatsReport struct {
	profiler.Stats
	Nodes  int
	Lights lbuffer.Counts
}

// StatsScript samples frame timing and memory once per interval and logs it together with
// the scene size and the light counts of the last light buffer.
type StatsScript struct {
	scene.ScriptBase

	profiler *profiler.Profiler
	lights   LBufferSource
	last     StatsReport
	reports  int
}

var _ scene.Script = &StatsScript{}

// StatsScriptOption is a functional option for configuring a StatsScript.
type StatsScriptOption func(*statsScriptConfig)

type statsScriptConfig struct {
	lights   LBufferSource
	profiler []profiler.ProfilerBuilderOption
}

// WithLBufferSource adds the light counts of src to every report.
//
// Parameters:
//   - src: the light buffer source, usually the renderer's LBuffer pass
//
// Returns:
//   - StatsScriptOption: a function that applies the source option
func WithLBufferSource(src LBufferSource) StatsScriptOption {
	return func(c *statsScriptConfig) {
		c.lights = src
	}
}

// WithProfilerOptions configures the underlying profiler.
func WithProfilerOptions(opts ...profiler.ProfilerBuilderOption) StatsScriptOption {
	return func(c *statsScriptConfig) {
		c.profiler = append(c.profiler, opts...)
	}
}

// NewStatsScript creates a StatsScript.
//
// Parameters:
//   - opts: variadic list of StatsScriptOption functions
//
// Returns:
//   - *StatsScript: the newly created script
func NewStatsScript(opts ...StatsScriptOption) *StatsScript {
	var c statsScriptConfig
	for _, opt := range opts {
		opt(&c)
	}
	// The script writes its own line including the scene figures.
	popts := append([]profiler.ProfilerBuilderOption{profiler.WithLogging(false)}, c.profiler...)
	return &StatsScript{
		profiler: profiler.NewProfiler(popts...),
		lights:   c.lights,
	}
}

// Name returns StatsScriptName.
func (ss *StatsScript) Name() string {
	return StatsScriptName
}

// Update counts the frame and logs a report when the sample interval has elapsed.
func (ss *StatsScript) Update(_ float64, s scene.Scene) error {
	stats, ok := ss.profiler.Tick()
	if !ok {
		return nil
	}

	report := StatsReport{Stats: stats, Nodes: s.Graph().Len()}
	if ss.lights != nil {
		if lb := ss.lights.LBuffer(); lb != nil {
			report.Lights = lb.Counts()
		}
	}

	common.Logger().Info("stats: frame report",
		"scene", s.Name(),
		"fps", report.FPS,
		"spf", report.SPF,
		"heap_mb", report.HeapMB,
		"sys_mb", report.SysMB,
		"nodes", report.Nodes,
		"lights", report.Lights.Total(),
		"shadowed_lights", report.Lights.ShadowedDirectional+report.Lights.ShadowedOmni+report.Lights.ShadowedSpot)

	ss.last = report
	ss.reports++
	return nil
}

// Last returns the most recent report and whether one was produced yet.
func (ss *StatsScript) Last() (StatsReport, bool) {
	return ss.last, ss.reports > 0
}
