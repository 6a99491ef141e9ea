// Package stats reports service health: live browser sessions, Open-Meteo
// call volume and failures, and process memory and runtime figures.
package stats

import (
	"runtime"
	"sync"
	"time"

	"github.com/alexivanou/geoweather/internal/weather"
)

const memStatsCacheDuration = 5 * time.Second

type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Sessions  SessionStats  `json:"sessions"`
	Upstream  UpstreamStats `json:"upstream"`
	Memory    MemoryStats   `json:"memory"`
	Runtime   RuntimeStats  `json:"runtime"`
}

type SessionStats struct {
	Active int `json:"active"`
}

// UpstreamStats totals Open-Meteo usage across services
type UpstreamStats struct {
	Requests  uint64                 `json:"requests"`
	Errors    uint64                 `json:"errors"`
	ErrorRate float64                `json:"error_rate"`
	Services  []weather.ServiceUsage `json:"services"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	HeapInuse  uint64 `json:"heap_inuse"`
	NumGC      uint32 `json:"num_gc"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// SessionCounter reports how many browser sessions are live
type SessionCounter interface {
	Len() int
}

// UsageReporter reports per-service upstream call counts
type UsageReporter interface {
	Usage() []weather.ServiceUsage
}

type Collector struct {
	sessions  SessionCounter
	upstream  UsageReporter
	startTime time.Time

	memMu     sync.Mutex
	cachedMem *MemoryStats
	memReadAt time.Time
}

// NewCollector creates a collector. Either source may be nil.
func NewCollector(sessions SessionCounter, upstream UsageReporter) *Collector {
	return &Collector{
		sessions:  sessions,
		upstream:  upstream,
		startTime: time.Now(),
	}
}

func (c *Collector) Collect() *Stats {
	stats := &Stats{
		Timestamp: time.Now(),
		Upstream:  c.collectUpstreamStats(),
		Memory:    c.collectMemoryStats(),
		Runtime: RuntimeStats{
			NumGoroutines: runtime.NumGoroutine(),
			NumCPU:        runtime.NumCPU(),
			UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
		},
	}
	if c.sessions != nil {
		stats.Sessions.Active = c.sessions.Len()
	}
	return stats
}

func (c *Collector) collectUpstreamStats() UpstreamStats {
	up := UpstreamStats{Services: []weather.ServiceUsage{}}
	if c.upstream == nil {
		return up
	}

	up.Services = c.upstream.Usage()
	for _, s := range up.Services {
		up.Requests += s.Requests
		up.Errors += s.Errors()
	}
	if up.Requests > 0 {
		up.ErrorRate = float64(up.Errors) / float64(up.Requests)
	}
	return up
}

// collectMemoryStats reuses a reading for memStatsCacheDuration
func (c *Collector) collectMemoryStats() MemoryStats {
	c.memMu.Lock()
	defer c.memMu.Unlock()

	if c.cachedMem != nil && time.Since(c.memReadAt) < memStatsCacheDuration {
		return *c.cachedMem
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.cachedMem = &MemoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		HeapInuse:  m.HeapInuse,
		NumGC:      m.NumGC,
	}
	c.memReadAt = time.Now()
	return *c.cachedMem
}
