// Package profiling is a lightweight per-frame CPU profiler for
// tick-level insight into the streaming pipeline. The spans recorded
// are streaming.Tick, streaming.DrainResults and upload.ApplyFrame.
//
// No example repo in the pack imports a third-party profiling/metrics
// library (no expvar, no prometheus client, nothing under any go.mod's
// require block touches this concern anywhere in the corpus), so this
// stays stdlib-only by necessity — see DESIGN.md. The accumulator is
// grounded on dantero-ps-mini-mc-go/internal/profiling/profiling.go's
// named-duration idea, restructured from a bag of package-level
// globals into an owned Profiler value (so a future caller that wants a
// second independent timeline — say, a headless benchmark alongside a
// live world — isn't forced to share state with it), with a
// package-level Default instance and forwarding functions so existing
// defer profiling.Track("name")() call sites need no Profiler plumbed
// through them.
package profiling

import (
	"maps"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates named durations for the current frame. Zero
// value is ready to use.
type Profiler struct {
	mu     sync.Mutex
	totals map[string]time.Duration
}

// New builds an empty Profiler.
func New() *Profiler {
	return &Profiler{totals: make(map[string]time.Duration)}
}

// Track starts timing name and returns a stop function that records
// the elapsed duration on return. Usage:
//
//	defer p.Track("streaming.DrainResults")()
func (p *Profiler) Track(name string) func() {
	start := time.Now()
	return func() {
		p.Add(name, time.Since(start))
	}
}

// Add folds an already-measured duration into name's running total.
// Non-positive durations are ignored.
func (p *Profiler) Add(name string, d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	if p.totals == nil {
		p.totals = make(map[string]time.Duration)
	}
	p.totals[name] += d
	p.mu.Unlock()
}

// ResetFrame discards every accumulated total. Call once at the start
// of each tick, before any Track spans for that tick begin.
func (p *Profiler) ResetFrame() {
	p.mu.Lock()
	clear(p.totals)
	p.mu.Unlock()
}

// Snapshot returns a defensive copy of the current per-name totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.totals))
	maps.Copy(out, p.totals)
	return out
}

// Total sums every accumulated duration this frame.
func (p *Profiler) Total() time.Duration {
	var sum time.Duration
	for _, d := range p.Snapshot() {
		sum += d
	}
	return sum
}

// SumWithPrefix sums the durations of every name starting with any of
// prefixes, e.g. SumWithPrefix("terrain.") for total generation time.
func (p *Profiler) SumWithPrefix(prefixes ...string) time.Duration {
	var sum time.Duration
	for name, d := range p.Snapshot() {
		for _, prefix := range prefixes {
			if strings.HasPrefix(name, prefix) {
				sum += d
				break
			}
		}
	}
	return sum
}

// entry pairs a tracked name with its accumulated duration, for TopN's
// sort step.
type entry struct {
	name string
	dur  time.Duration
}

// TopN renders the n longest-running names this frame as a
// comma-joined "name:durationMs" list, longest first, e.g.
// "streaming.DrainResults:4.2ms, upload.ApplyFrame:2.1ms". n is clamped
// to however many names were actually tracked.
func (p *Profiler) TopN(n int) string {
	snap := p.Snapshot()
	entries := make([]entry, 0, len(snap))
	for name, d := range snap {
		entries = append(entries, entry{name: name, dur: d})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].dur > entries[j].dur })

	if n > len(entries) {
		n = len(entries)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = entries[i].name + ":" + formatMillis(entries[i].dur)
	}
	return strings.Join(parts, ", ")
}

// formatMillis renders d as milliseconds with at most one decimal
// place and no trailing ".0", e.g. 4.2ms or 7ms.
func formatMillis(d time.Duration) string {
	millis := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(millis, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + "ms"
}

// Default is the shared Profiler used by the package-level functions
// below, which is what every call site in this module drives.
var Default = New()

// Track is Default.Track.
func Track(name string) func() { return Default.Track(name) }

// ResetFrame is Default.ResetFrame.
func ResetFrame() { Default.ResetFrame() }

// Snapshot is Default.Snapshot.
func Snapshot() map[string]time.Duration { return Default.Snapshot() }

// Total is Default.Total.
func Total() time.Duration { return Default.Total() }

// SumWithPrefix is Default.SumWithPrefix.
func SumWithPrefix(prefixes ...string) time.Duration { return Default.SumWithPrefix(prefixes...) }

// Add is Default.Add.
func Add(name string, d time.Duration) { Default.Add(name, d) }

// TopN is Default.TopN.
func TopN(n int) string { return Default.TopN(n) }
