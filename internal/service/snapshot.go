package service

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/network"
)

// Snapshot pairs reference data with the graph built from it. Searches read
// a snapshot without locking; a reload swaps in a new one.
type Snapshot struct {
	Ref      *domain.ReferenceData
	Graph    *network.Graph
	LoadedAt time.Time
}

// Snapshots holds the current Snapshot.
type Snapshots struct {
	current atomic.Pointer[Snapshot]
	logger  *slog.Logger
	nowFn   func() time.Time
	onLoad  func(*Snapshot)
}

// NewSnapshots returns an empty holder. Current is nil until Load succeeds.
func NewSnapshots(logger *slog.Logger) *Snapshots {
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapshots{logger: logger, nowFn: time.Now}
}

// OnLoad registers fn to run after every swap.
func (s *Snapshots) OnLoad(fn func(*Snapshot)) {
	s.onLoad = fn
}

// Load builds the reaction graph for ref and makes it current.
func (s *Snapshots) Load(ref *domain.ReferenceData) *Snapshot {
	started := s.nowFn()
	g := network.BuildFromReference(ref, s.logger)
	snap := &Snapshot{Ref: ref, Graph: g, LoadedAt: s.nowFn()}
	s.current.Store(snap)

	s.logger.Info("reference data loaded",
		"reactions", len(ref.Reactions),
		"compounds", len(ref.Compounds),
		"enzymes", len(ref.Enzymes),
		"links", g.EdgeCount(),
		"duration_ms", snap.LoadedAt.Sub(started).Milliseconds(),
	)
	if s.onLoad != nil {
		s.onLoad(snap)
	}
	return snap
}

// Current returns the active snapshot or nil.
func (s *Snapshots) Current() *Snapshot {
	return s.current.Load()
}
