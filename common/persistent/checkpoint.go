package persistent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nupic-community/seedrand/common/logging"
	"github.com/nupic-community/seedrand/common/random"
)

// CheckpointServiceName is the service store used for generator
// checkpoints.
const CheckpointServiceName = "checkpoints"

var (
	checkpointOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrand_checkpoint_operations_total",
			Help: "Number of generator checkpoint operations.",
		},
		[]string{"op", "result"},
	)

	checkpointCollectors = []prometheus.Collector{
		checkpointOps,
	}

	metricsOnce sync.Once
)

// CheckpointStore stores named generator checkpoints.
type CheckpointStore struct {
	logger *logging.Logger
	svc    *ServiceStore
}

// NewCheckpointStore creates a checkpoint store on top of the common store.
func NewCheckpointStore(cs *CommonStore) (*CheckpointStore, error) {
	metricsOnce.Do(func() {
		prometheus.MustRegister(checkpointCollectors...)
	})

	svc, err := cs.GetServiceStore(CheckpointServiceName)
	if err != nil {
		return nil, err
	}

	return &CheckpointStore{
		logger: logging.GetLogger("common/persistent/checkpoint"),
		svc:    svc,
	}, nil
}

// Save stores the current state of the generator under the given name,
// replacing any previous checkpoint with the same name.
func (s *CheckpointStore) Save(name string, g *random.Generator) error {
	return s.save(name, g, s.svc.PutCBOR)
}

// Create stores the current state of the generator under the given name.
// It fails with ErrExists if the name is taken.
func (s *CheckpointStore) Create(name string, g *random.Generator) error {
	return s.save(name, g, s.svc.InsertCBOR)
}

func (s *CheckpointStore) save(name string, g *random.Generator, put func([]byte, interface{}) error) error {
	snap := g.Snapshot()
	err := put([]byte(name), &snap)
	s.observe("save", err)
	if err != nil {
		return fmt.Errorf("persistent: failed to save checkpoint '%s': %w", name, err)
	}

	s.logger.Debug("saved checkpoint",
		"name", name,
		"seed", snap.Seed,
	)
	return nil
}

// Load restores the generator stored under the given name.
func (s *CheckpointStore) Load(name string, opts ...random.Option) (*random.Generator, error) {
	var snap random.Snapshot
	err := s.svc.GetCBOR([]byte(name), &snap)
	s.observe("load", err)
	if err != nil {
		return nil, fmt.Errorf("persistent: failed to load checkpoint '%s': %w", name, err)
	}

	return random.FromSnapshot(snap, opts...)
}

// List returns the names of all stored checkpoints, sorted.
func (s *CheckpointStore) List() ([]string, error) {
	keys, err := s.svc.Keys()
	s.observe("list", err)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes the checkpoint stored under the given name.
func (s *CheckpointStore) Remove(name string) error {
	err := s.svc.Delete([]byte(name))
	s.observe("remove", err)
	if err != nil {
		return fmt.Errorf("persistent: failed to remove checkpoint '%s': %w", name, err)
	}
	return nil
}

func (s *CheckpointStore) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	checkpointOps.WithLabelValues(op, result).Inc()
}
