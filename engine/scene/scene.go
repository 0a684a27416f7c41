package scene

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-skel/common"
	"github.com/Carmen-Shannon/oxy-skel/engine/game_object"
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
	"github.com/Carmen-Shannon/oxy-skel/engine/renderer/palette"
)

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]game_object.GameObject
	nextID   uint64

	// computePool runs object ticks in parallel. Workers persist across frames.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
}

// Scene is a collection of animated GameObjects advanced together once per engine tick.
// Objects may share models; each owns its playback state, so ticks run in parallel.
type Scene interface {
	// Name returns the name of the scene.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Active returns whether the engine updates this scene.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive sets whether the engine updates this scene.
	//
	// Parameters:
	//   - active: true to activate
	SetActive(active bool)

	// Add registers an object. Objects with ID 0 are assigned the next free ID.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove unregisters an object.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - bool: true if the object was registered
	Remove(id uint64) bool

	// Count returns the number of registered objects.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Objects returns the registered objects in ascending ID order.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject

	// Update ticks every registered object by deltaTime on the compute pool and waits for all of them.
	// A failing object does not stop the others.
	//
	// Parameters:
	//   - deltaTime: elapsed seconds since the last update
	//
	// Returns:
	//   - []error: the tick errors in ascending object ID order, or nil
	Update(deltaTime float32) []error

	// Palettes returns a world-space copy of every object's palette keyed by object ID.
	//
	// Returns:
	//   - map[uint64][]common.Mat4: the palettes
	Palettes() map[uint64][]common.Mat4

	// StagePalettes stages the world palettes of every object playing m, one instance slot
	// per object in ascending ID order.
	//
	// Parameters:
	//   - m: the shared model
	//   - stager: the stager of the model's bone buffer
	//
	// Returns:
	//   - []uint64: the staged object IDs, indexed by instance slot
	StagePalettes(m model.Model, stager *palette.Stager) []uint64
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given options.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         true,
		registry:       make(map[uint64]game_object.GameObject),
		nextID:         1,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

// add registers obj. Caller must hold the write lock.
func (s *scene) add(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		for s.registry[s.nextID] != nil {
			s.nextID++
		}
		obj.SetID(s.nextID)
		s.nextID++
	}
	s.registry[obj.ID()] = obj
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registry[id]; !ok {
		return false
	}
	delete(s.registry, id)
	return true
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedObjects()
}

// sortedObjects returns the registry in ascending ID order. Caller must hold a lock.
func (s *scene) sortedObjects() []game_object.GameObject {
	objs := make([]game_object.GameObject, 0, len(s.registry))
	for _, obj := range s.registry {
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].ID() < objs[j].ID() })
	return objs
}

func (s *scene) Update(deltaTime float32) []error {
	objs := s.Objects()
	if len(objs) == 0 {
		return nil
	}

	// A WaitGroup gives a per-frame barrier; pool.Wait blocks until workers idle out.
	errs := make([]error, len(objs))
	var wg sync.WaitGroup
	for i, obj := range objs {
		wg.Add(1)
		idx, o := i, obj
		s.computePool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				errs[idx] = o.Tick(deltaTime)
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()

	var out []error
	for _, err := range errs {
		if err != nil {
			out = append(out, fmt.Errorf("scene %q: %w", s.Name(), err))
		}
	}
	return out
}

func (s *scene) Palettes() map[uint64][]common.Mat4 {
	objs := s.Objects()
	out := make(map[uint64][]common.Mat4, len(objs))
	for _, obj := range objs {
		dst := make([]common.Mat4, obj.Instance().BoneCount())
		obj.WorldPalette(dst)
		out[obj.ID()] = dst
	}
	return out
}

func (s *scene) StagePalettes(m model.Model, stager *palette.Stager) []uint64 {
	var ids []uint64
	dst := make([]common.Mat4, stager.BoneCount())
	for _, obj := range s.Objects() {
		if obj.Model() != m {
			continue
		}
		n := obj.WorldPalette(dst)
		stager.StageInstance(len(ids), dst[:n])
		ids = append(ids, obj.ID())
	}
	return ids
}
