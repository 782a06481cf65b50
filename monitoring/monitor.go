// Package monitoring turns a running simulation into an HTTP server that
// reports producer state and lets the user pause and continue the engine.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/blockgen/item"
	"github.com/sarchlab/blockgen/monitoring/web"
	"github.com/sarchlab/blockgen/producer"
	"github.com/sarchlab/blockgen/timing"
)

// Monitor serves the state of a simulation over HTTP.
type Monitor struct {
	engine    timing.Engine
	producers []*producer.Comp
	metrics   *Metrics

	portNumber      int
	profileDuration time.Duration
	log             zerolog.Logger

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server   *http.Server
	listener net.Listener
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:         NewMetrics(),
		profileDuration: time.Second,
		log:             zerolog.Nop(),
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1024 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1024 {
		m.log.Warn().
			Int("port", portNumber).
			Msg("port not allowed for monitoring, using a random port")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger.
func (m *Monitor) WithLogger(l zerolog.Logger) *Monitor {
	m.log = l
	return m
}

// RegisterEngine registers the engine that drives the simulation.
func (m *Monitor) RegisterEngine(e timing.Engine) {
	m.engine = e
}

// RegisterProducer makes a producer visible and feeds its hooks into the
// metrics.
func (m *Monitor) RegisterProducer(p *producer.Comp) {
	m.producers = append(m.producers, p)
	p.AcceptHook(m.metrics)
}

// Metrics returns the Prometheus metrics of the monitored producers.
func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			bars = append(bars, b)
		}
	}

	m.progressBars = bars
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/producers", m.listProducers)
	r.HandleFunc("/api/producer/{name}", m.producerDetails)
	r.HandleFunc("/api/producer/{name}/buffer", m.producerBuffer)
	r.HandleFunc("/api/tick/{name}", m.tick)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.Handle("/metrics", m.metrics.Handler())
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the URL.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", m.portNumber))
	if err != nil {
		return "", fmt.Errorf("monitoring: listening: %w", err)
	}

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error().Err(err).Msg("monitor stopped")
		}
	}()

	return url, nil
}

// OpenInBrowser opens the monitor page in the default browser.
func (m *Monitor) OpenInBrowser(url string) error {
	return browser.OpenURL(url)
}

// Stop shuts the server down.
func (m *Monitor) Stop(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, struct {
		Now timing.VTimeInCycle `json:"now"`
	}{m.engine.CurrentTime()})
}

type producerSummary struct {
	Name    string     `json:"name"`
	Binding string     `json:"binding"`
	Recipe  string     `json:"recipe,omitempty"`
	Buffer  item.Stack `json:"buffer"`
}

func (m *Monitor) listProducers(w http.ResponseWriter, _ *http.Request) {
	summaries := make([]producerSummary, 0, len(m.producers))

	for _, p := range m.producers {
		status := p.Status()
		summaries = append(summaries, producerSummary{
			Name:    p.Name(),
			Binding: status.Binding.String(),
			Recipe:  string(status.Recipe),
			Buffer:  status.Buffer,
		})
	}

	m.writeJSON(w, summaries)
}

// producerDetail is what the detail endpoint dumps. It is filled from a
// Status so that the dump does not read the producer while it ticks.
type producerDetail struct {
	Name       string
	Modifier   float64
	Binding    string
	Recipe     string
	BufferItem string
	BufferSize int
}

func (m *Monitor) producerDetails(w http.ResponseWriter, r *http.Request) {
	p := m.findProducerOr404(w, mux.Vars(r)["name"])
	if p == nil {
		return
	}

	status := p.Status()
	detail := producerDetail{
		Name:       p.Name(),
		Modifier:   p.Kind().ProductionModifier(),
		Binding:    status.Binding.String(),
		Recipe:     string(status.Recipe),
		BufferItem: string(status.Buffer.Item),
		BufferSize: status.Buffer.Count,
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(detail)
	serializer.SetMaxDepth(1)

	var buf bytes.Buffer
	if err := serializer.Serialize(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	m.write(w, buf.Bytes())
}

func (m *Monitor) producerBuffer(w http.ResponseWriter, r *http.Request) {
	p := m.findProducerOr404(w, mux.Vars(r)["name"])
	if p == nil {
		return
	}

	m.writeJSON(w, p.Buffer())
}

func (m *Monitor) tick(w http.ResponseWriter, r *http.Request) {
	p := m.findProducerOr404(w, mux.Vars(r)["name"])
	if p == nil {
		return
	}

	p.TickLater()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) findProducerOr404(
	w http.ResponseWriter,
	name string,
) *producer.Comp {
	for _, p := range m.producers {
		if p.Name() == name {
			return p
		}
	}

	http.Error(w, "Producer not found", http.StatusNotFound)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, prof)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	m.write(w, data)
}

func (m *Monitor) write(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		m.log.Debug().Err(err).Msg("response not delivered")
	}
}
