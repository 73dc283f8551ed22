// Command benchmark measures trace matching throughput against a synthetic
// path network. It lays out a deterministic grid of winding paths, derives
// noisy ride traces from them, and reports how fast the matcher chews
// through the batch, so matcher or index changes can be compared run to run.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/geo"
	"github.com/waycover/waycover/internal/matcher"
)

const (
	defaultPaths       = 2000
	defaultRides       = 500
	defaultConcurrency = 5
	defaultNoiseM      = 8.0
	defaultToleranceM  = 25.0
	defaultSampleStepM = 20.0
	defaultGapFactor   = 4.0

	// Synthetic network layout around a rural origin
	originLat     = 52.0
	originLon     = -1.5
	pathSpacingKM = 0.4  // Grid spacing between path starting points
	segmentKM     = 0.08 // Length of one path segment
	pointsPerPath = 10

	metersPerDegreeLat = 111320.0
)

// pathTypeCycle assigns designations round-robin so grouped results stay
// comparable across runs
var pathTypeCycle = []string{"Footpath", "Bridleway", "Byway", "Restricted Byway"}

type Config struct {
	Paths       int
	Rides       int
	Concurrency int     // Number of concurrent matching workers
	NoiseM      float64 // GPS noise added to ride points, in meters
	ToleranceM  float64
	SampleStepM float64
	GapFactor   float64
	Seed        int64  // Seed for the synthetic data, same seed same run
	OutputFile  string // Output markdown file path (optional)
	Debug       bool
}

// TraceResult holds the outcome of matching one synthetic trace
type TraceResult struct {
	Latency   time.Duration
	PathsHit  int
	CoveredKM float64
	Err       error
}

// BenchmarkStats aggregates a full run
type BenchmarkStats struct {
	Config       *Config
	NetworkPaths int
	NetworkKM    float64
	BuildTime    time.Duration
	MatchTime    time.Duration
	Traces       int
	Matched      int // Traces that hit at least one path
	Unmatched    int
	Failed       int
	TotalHits    int
	CoveredKM    float64
	Latencies    []time.Duration // Sorted ascending
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	rng := rand.New(rand.NewSource(cfg.Seed))

	fmt.Printf("Generating synthetic network (%d paths, seed: %d)...\n", cfg.Paths, cfg.Seed)
	paths := generateNetwork(rng, cfg.Paths)
	networkKM := 0.0
	for i := range paths {
		networkKM += paths[i].LengthKM
	}

	matcherCfg := matcher.Config{
		ToleranceKM:  cfg.ToleranceM / 1000.0,
		SampleStepKM: cfg.SampleStepM / 1000.0,
		GapFactor:    cfg.GapFactor,
		DistanceMode: geo.DistanceModeHaversine,
	}

	buildStart := time.Now()
	m := matcher.New(matcherCfg, paths)
	buildTime := time.Since(buildStart)
	fmt.Printf("Built matcher over %d paths (%.1f km) in %s\n", m.Len(), networkKM, formatDuration(buildTime))

	fmt.Printf("Generating %d ride traces (noise: %.1fm)...\n", cfg.Rides, cfg.NoiseM)
	traces := generateRides(rng, paths, cfg.Rides, cfg.NoiseM)

	fmt.Printf("Matching with %d workers...\n", cfg.Concurrency)
	results, matchTime := runMatches(ctx, m, traces, cfg)

	stats := summarize(cfg, m.Len(), networkKM, buildTime, matchTime, results)

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("BENCHMARK RESULTS")
	fmt.Println(strings.Repeat("=", 80))
	printBenchmarkStats(stats)

	// Write to markdown file if specified
	if cfg.OutputFile != "" {
		if err := writeMarkdownReport(cfg.OutputFile, stats); err != nil {
			fmt.Printf("\n⚠️  Warning: Failed to write markdown file: %v\n", err)
		} else {
			fmt.Printf("\n✓ Report written to: %s\n", cfg.OutputFile)
		}
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.Paths, "paths", defaultPaths, "Number of synthetic network paths")
	flag.IntVar(&cfg.Rides, "rides", defaultRides, "Number of synthetic ride traces")
	flag.IntVar(&cfg.Concurrency, "concurrency", defaultConcurrency, "Number of concurrent workers")
	flag.Float64Var(&cfg.NoiseM, "noise", defaultNoiseM, "GPS noise added to ride points in meters")
	flag.Float64Var(&cfg.ToleranceM, "tolerance", defaultToleranceM, "Matching tolerance in meters")
	flag.Float64Var(&cfg.SampleStepM, "sample-step", defaultSampleStepM, "Sampling step in meters")
	flag.Float64Var(&cfg.GapFactor, "gap-factor", defaultGapFactor, "Gap limit as a multiple of the tolerance")
	flag.Int64Var(&cfg.Seed, "seed", 1, "Random seed for the synthetic data")
	flag.StringVar(&cfg.OutputFile, "output", "", "Output markdown file path (optional)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")

	configFile := flag.String("config", "", "Path to config file (optional)")

	flag.Parse()

	if cfg.Paths <= 0 {
		cfg.Paths = defaultPaths
	}
	if cfg.Rides <= 0 {
		cfg.Rides = defaultRides
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	// Load from config file if specified
	if *configFile != "" {
		fileCfg, err := LoadConfig(*configFile)
		if err != nil {
			fmt.Printf("Warning: failed to load config file: %v\n", err)
		} else {
			// Override with file values if not set via flags
			if cfg.ToleranceM == defaultToleranceM && fileCfg.ToleranceM > 0 {
				cfg.ToleranceM = fileCfg.ToleranceM
			}
			if cfg.SampleStepM == defaultSampleStepM && fileCfg.SampleStepM > 0 {
				cfg.SampleStepM = fileCfg.SampleStepM
			}
			if cfg.GapFactor == defaultGapFactor && fileCfg.GapFactor > 0 {
				cfg.GapFactor = fileCfg.GapFactor
			}
		}
	}

	return cfg
}

// generateNetwork lays out a grid of winding paths. Every path gets a stable
// ID so runs with the same seed produce the same network.
func generateNetwork(rng *rand.Rand, count int) []domain.Path {
	grid := int(math.Ceil(math.Sqrt(float64(count))))
	paths := make([]domain.Path, 0, count)

	for i := 0; i < count; i++ {
		row := i / grid
		col := i % grid
		lat := originLat + kmToLat(float64(row)*pathSpacingKM)
		lon := originLon + kmToLon(float64(col)*pathSpacingKM, originLat)

		heading := rng.Float64() * 2 * math.Pi
		line := make(geo.Polyline, 0, pointsPerPath)
		line = append(line, geo.Point{Lat: lat, Lon: lon})
		for p := 1; p < pointsPerPath; p++ {
			heading += (rng.Float64() - 0.5) * math.Pi / 4
			lat += kmToLat(segmentKM * math.Cos(heading))
			lon += kmToLon(segmentKM*math.Sin(heading), lat)
			line = append(line, geo.Point{Lat: lat, Lon: lon})
		}

		paths = append(paths, domain.Path{
			ID:       fmt.Sprintf("bench-%04d", i),
			PathType: pathTypeCycle[i%len(pathTypeCycle)],
			Geometry: line,
			LengthKM: line.LengthKM(geo.DistanceModeHaversine),
		})
	}
	return paths
}

// generateRides derives traces from randomly chosen paths, perturbing every
// point with GPS noise
func generateRides(rng *rand.Rand, paths []domain.Path, count int, noiseM float64) []geo.Polyline {
	traces := make([]geo.Polyline, 0, count)
	for i := 0; i < count; i++ {
		p := paths[rng.Intn(len(paths))]
		trace := make(geo.Polyline, 0, len(p.Geometry))
		for _, pt := range p.Geometry {
			trace = append(trace, geo.Point{
				Lat: pt.Lat + kmToLat((rng.Float64()-0.5)*2*noiseM/1000.0),
				Lon: pt.Lon + kmToLon((rng.Float64()-0.5)*2*noiseM/1000.0, pt.Lat),
			})
		}
		traces = append(traces, trace)
	}
	return traces
}

// runMatches pushes every trace through the matcher on a bounded pool and
// measures per-trace latency
func runMatches(ctx context.Context, m *matcher.Matcher, traces []geo.Polyline, cfg *Config) ([]TraceResult, time.Duration) {
	results := make([]TraceResult, len(traces))
	pool := pond.NewPool(cfg.Concurrency)

	var done atomic.Int64
	start := time.Now()
	for i := range traces {
		if ctx.Err() != nil {
			break
		}
		pool.Submit(func() {
			matchStart := time.Now()
			hits, err := m.Match(traces[i])
			result := TraceResult{Latency: time.Since(matchStart), Err: err}
			if err == nil {
				result.PathsHit = len(hits)
				for _, intervals := range hits {
					result.CoveredKM += coverage.TotalLength(intervals)
				}
			}
			results[i] = result

			n := done.Add(1)
			if cfg.Debug {
				fmt.Printf("[DEBUG] trace %d: %d paths, %.3f km, %s\n", i, result.PathsHit, result.CoveredKM, result.Latency)
			} else if n%100 == 0 {
				fmt.Printf("\r⏳ Matched %d/%d traces...", n, len(traces))
			}
		})
	}
	pool.StopAndWait()
	total := time.Since(start)

	fmt.Printf("\r✓ Matched %d traces in %s                    \n", len(traces), formatDuration(total))
	return results, total
}

func summarize(cfg *Config, networkPaths int, networkKM float64, buildTime, matchTime time.Duration, results []TraceResult) *BenchmarkStats {
	stats := &BenchmarkStats{
		Config:       cfg,
		NetworkPaths: networkPaths,
		NetworkKM:    networkKM,
		BuildTime:    buildTime,
		MatchTime:    matchTime,
		Traces:       len(results),
	}

	for _, r := range results {
		if r.Err != nil {
			stats.Failed++
			continue
		}
		stats.Latencies = append(stats.Latencies, r.Latency)
		if r.PathsHit > 0 {
			stats.Matched++
		} else {
			stats.Unmatched++
		}
		stats.TotalHits += r.PathsHit
		stats.CoveredKM += r.CoveredKM
	}

	sort.Slice(stats.Latencies, func(i, j int) bool {
		return stats.Latencies[i] < stats.Latencies[j]
	})
	return stats
}

// percentileDuration reads the p-th percentile from an ascending-sorted list
func percentileDuration(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func printBenchmarkStats(stats *BenchmarkStats) {
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("Network:\n")
	fmt.Printf("  Paths:          %d\n", stats.NetworkPaths)
	fmt.Printf("  Total Length:   %.1f km\n", stats.NetworkKM)
	fmt.Printf("  Build Time:     %s\n", formatDuration(stats.BuildTime))
	fmt.Println()

	emoji := outcomeEmoji(stats.Matched, stats.Unmatched+stats.Failed)
	fmt.Printf("%s Matching:\n", emoji)
	fmt.Printf("  Traces:         %d\n", stats.Traces)
	fmt.Printf("  Matched:        %d (%s)\n", stats.Matched, percentageString(stats.Matched, stats.Traces))
	if stats.Unmatched > 0 {
		fmt.Printf("  Unmatched:      %d (%s)\n", stats.Unmatched, percentageString(stats.Unmatched, stats.Traces))
	}
	if stats.Failed > 0 {
		fmt.Printf("  Failed:         %d (%s)\n", stats.Failed, percentageString(stats.Failed, stats.Traces))
	}
	fmt.Printf("  Paths Hit:      %d\n", stats.TotalHits)
	fmt.Printf("  Covered:        %.1f km\n", stats.CoveredKM)
	fmt.Println()

	fmt.Printf("Throughput:\n")
	fmt.Printf("  Wall Time:      %s\n", formatDuration(stats.MatchTime))
	fmt.Printf("  Rate:           %s\n", formatRate(stats.Traces, stats.MatchTime))
	if len(stats.Latencies) > 0 {
		fmt.Printf("  Latency p50:    %s\n", formatDuration(percentileDuration(stats.Latencies, 50)))
		fmt.Printf("  Latency p95:    %s\n", formatDuration(percentileDuration(stats.Latencies, 95)))
		fmt.Printf("  Latency max:    %s\n", formatDuration(stats.Latencies[len(stats.Latencies)-1]))
	}
	fmt.Println(strings.Repeat("-", 80))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func writeMarkdownReport(path string, stats *BenchmarkStats) error {
	var sb strings.Builder

	sb.WriteString("# Matching Benchmark\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	sb.WriteString("## Setup\n\n")
	sb.WriteString("| Setting | Value |\n")
	sb.WriteString("|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Paths | %d |\n", stats.NetworkPaths))
	sb.WriteString(fmt.Sprintf("| Network | %.1f km |\n", stats.NetworkKM))
	sb.WriteString(fmt.Sprintf("| Traces | %d |\n", stats.Traces))
	sb.WriteString(fmt.Sprintf("| Tolerance | %.1f m |\n", stats.Config.ToleranceM))
	sb.WriteString(fmt.Sprintf("| Sample Step | %.1f m |\n", stats.Config.SampleStepM))
	sb.WriteString(fmt.Sprintf("| Noise | %.1f m |\n", stats.Config.NoiseM))
	sb.WriteString(fmt.Sprintf("| Workers | %d |\n", stats.Config.Concurrency))
	sb.WriteString(fmt.Sprintf("| Seed | %d |\n", stats.Config.Seed))
	sb.WriteString("\n")

	sb.WriteString("## Results\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Build Time | %s |\n", formatDuration(stats.BuildTime)))
	sb.WriteString(fmt.Sprintf("| Match Wall Time | %s |\n", formatDuration(stats.MatchTime)))
	sb.WriteString(fmt.Sprintf("| Rate | %s |\n", formatRate(stats.Traces, stats.MatchTime)))
	sb.WriteString(fmt.Sprintf("| Matched | %d (%s) |\n", stats.Matched, percentageString(stats.Matched, stats.Traces)))
	sb.WriteString(fmt.Sprintf("| Unmatched | %d (%s) |\n", stats.Unmatched, percentageString(stats.Unmatched, stats.Traces)))
	sb.WriteString(fmt.Sprintf("| Failed | %d (%s) |\n", stats.Failed, percentageString(stats.Failed, stats.Traces)))
	sb.WriteString(fmt.Sprintf("| Paths Hit | %d |\n", stats.TotalHits))
	sb.WriteString(fmt.Sprintf("| Covered | %.1f km |\n", stats.CoveredKM))
	if len(stats.Latencies) > 0 {
		sb.WriteString(fmt.Sprintf("| Latency p50 | %s |\n", formatDuration(percentileDuration(stats.Latencies, 50))))
		sb.WriteString(fmt.Sprintf("| Latency p95 | %s |\n", formatDuration(percentileDuration(stats.Latencies, 95))))
		sb.WriteString(fmt.Sprintf("| Latency max | %s |\n", formatDuration(stats.Latencies[len(stats.Latencies)-1])))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func kmToLat(km float64) float64 {
	return km * 1000.0 / metersPerDegreeLat
}

func kmToLon(km float64, lat float64) float64 {
	return km * 1000.0 / (metersPerDegreeLat * math.Cos(lat*math.Pi/180.0))
}
