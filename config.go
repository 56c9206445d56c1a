package phys2d

// config.go: World configuration. The functional-options shape is
// grounded on gazed-vu/config.go's Attr func(*Config) pattern; the YAML
// preset loader is grounded on gazed-vu/load/shd.go's use of
// gopkg.in/yaml.v3 to decode a data structure used to configure a
// subsystem (see SPEC_FULL.md §10.3/§11).

import (
	"io"

	"gopkg.in/yaml.v3"
)

// BroadphaseKind selects which SpatialIndex implementation backs the
// world's broad-phase (spec §4.1 configuration options).
type BroadphaseKind int

const (
	BruteForce BroadphaseKind = iota
	SpatialHashGrid
	BoundingVolumeHierarchy
)

func (k BroadphaseKind) String() string {
	switch k {
	case SpatialHashGrid:
		return "spatial_hash_grid"
	case BoundingVolumeHierarchy:
		return "bvh"
	default:
		return "brute_force"
	}
}

// WorldConfig centralizes every tunable spec §4.1 lists, including the
// correction-bias/slop defaults that spec §9's Open Questions call out as
// inconsistent across the source and asks to be centralized.
type WorldConfig struct {
	Gravity Vector2

	Broadphase BroadphaseKind
	// SHG bounds and cell size (spec §4.2). Bodies outside Bounds are
	// clamped to the nearest edge cell rather than dropped.
	SHGBounds    AABB
	SHGCellWidth float64
	SHGCellHeight float64

	AllowSleeping bool
	WarmStarting  bool

	CorrectionBias  float64 // Baumgarte-style positional bias fraction, (0, 1]
	PenetrationSlop float64 // allowed overlap tolerance, >= 0

	LinearSleepThreshold  float64
	AngularSleepThreshold float64
	SleepFrames           int

	// RestitutionVelocityThreshold below which restitution bias is not
	// applied (spec §4.5 step 1), avoiding jitter on resting contacts.
	RestitutionVelocityThreshold float64

	LinearDamping  float64
	AngularDamping float64

	VelocityIterations   int
	PositionIterations   int
	ConstraintIterations int
	Substeps             int

	// DetectNonFinite turns on the optional NaN/Inf body-state check
	// (spec §7); off by default (release-mode default per spec §7).
	DetectNonFinite bool

	// ParallelNarrowphase enables the worker-pool narrow-phase mode of
	// spec §5 once the candidate pair count reaches ParallelPairThreshold.
	// Broad-phase always runs on the calling goroutine.
	ParallelNarrowphase  bool
	ParallelWorkers      int
	ParallelPairThreshold int

	Logger Logger
}

// DefaultWorldConfig returns the engine's defaults: 8 velocity, 4 position
// and 4 constraint iterations, one substep, correction bias 0.2 and
// penetration slop 0.005, with sleeping and warm-starting on.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:                      Vector2{0, -10},
		Broadphase:                   SpatialHashGrid,
		SHGBounds:                    NewAABB(-1000, -1000, 1000, 1000),
		SHGCellWidth:                 2,
		SHGCellHeight:                2,
		AllowSleeping:                true,
		WarmStarting:                 true,
		CorrectionBias:               0.2,
		PenetrationSlop:              0.005,
		LinearSleepThreshold:         0.05,
		AngularSleepThreshold:        0.05,
		SleepFrames:                  30,
		RestitutionVelocityThreshold: 0.5,
		LinearDamping:                0,
		AngularDamping:               0,
		VelocityIterations:           8,
		PositionIterations:           4,
		ConstraintIterations:         4,
		Substeps:                     1,
		DetectNonFinite:              false,
		ParallelNarrowphase:          false,
		ParallelWorkers:              4,
		ParallelPairThreshold:        256,
		Logger:                       NewNopLogger(),
	}
}

// Option mutates a WorldConfig under construction, mirroring gazed-vu's
// Attr func(*Config) pattern.
type Option func(*WorldConfig)

func WithGravity(g Vector2) Option { return func(c *WorldConfig) { c.Gravity = g } }

func WithBroadphase(kind BroadphaseKind) Option {
	return func(c *WorldConfig) { c.Broadphase = kind }
}

func WithSpatialHashGrid(bounds AABB, cellWidth, cellHeight float64) Option {
	return func(c *WorldConfig) {
		c.Broadphase = SpatialHashGrid
		c.SHGBounds = bounds
		c.SHGCellWidth = cellWidth
		c.SHGCellHeight = cellHeight
	}
}

func WithSleeping(allow bool) Option { return func(c *WorldConfig) { c.AllowSleeping = allow } }
func WithWarmStarting(on bool) Option { return func(c *WorldConfig) { c.WarmStarting = on } }

func WithCorrectionBias(bias float64) Option {
	return func(c *WorldConfig) { c.CorrectionBias = bias }
}

func WithPenetrationSlop(slop float64) Option {
	return func(c *WorldConfig) { c.PenetrationSlop = slop }
}

func WithIterations(velocity, position, constraint int) Option {
	return func(c *WorldConfig) {
		c.VelocityIterations = velocity
		c.PositionIterations = position
		c.ConstraintIterations = constraint
	}
}

func WithSubsteps(n int) Option {
	return func(c *WorldConfig) {
		if n < 1 {
			n = 1
		}
		c.Substeps = n
	}
}

func WithLogger(l Logger) Option { return func(c *WorldConfig) { c.Logger = l } }

func WithParallelNarrowphase(workers, pairThreshold int) Option {
	return func(c *WorldConfig) {
		c.ParallelNarrowphase = true
		c.ParallelWorkers = workers
		c.ParallelPairThreshold = pairThreshold
	}
}

func WithDetectNonFinite(on bool) Option { return func(c *WorldConfig) { c.DetectNonFinite = on } }

// yamlWorldConfig is the on-disk shape for LoadConfigYAML: a plain,
// name-based preset decoded with gopkg.in/yaml.v3, independent of the
// functional-option surface above so presets stay stable API-wise even
// as Option constructors change.
type yamlWorldConfig struct {
	Gravity    *[2]float64 `yaml:"gravity"`
	Broadphase string      `yaml:"broadphase"`

	SHGBounds     [4]float64 `yaml:"shg_bounds"`
	SHGCellWidth  float64    `yaml:"shg_cell_width"`
	SHGCellHeight float64    `yaml:"shg_cell_height"`

	AllowSleeping *bool `yaml:"allow_sleeping"`
	WarmStarting  *bool `yaml:"warm_starting"`

	CorrectionBias  float64 `yaml:"correction_bias"`
	PenetrationSlop float64 `yaml:"penetration_slop"`

	LinearSleepThreshold  float64 `yaml:"linear_sleep_threshold"`
	AngularSleepThreshold float64 `yaml:"angular_sleep_threshold"`
	SleepFrames           int     `yaml:"sleep_frames"`

	VelocityIterations   int `yaml:"velocity_iterations"`
	PositionIterations   int `yaml:"position_iterations"`
	ConstraintIterations int `yaml:"constraint_iterations"`
	Substeps             int `yaml:"substeps"`
}

// LoadConfigYAML decodes a world configuration preset (gravity,
// broadphase kind, iteration counts, sleep policy) from r. The core never
// touches the filesystem itself (spec §1 scope boundary: asset loading is
// an external collaborator) — callers supply the io.Reader, e.g. from an
// embedded asset or a file they opened themselves.
func LoadConfigYAML(r io.Reader) (WorldConfig, error) {
	cfg := DefaultWorldConfig()

	var doc yamlWorldConfig
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return cfg, &EngineError{Kind: ErrKindInvalidArgument, Op: "LoadConfigYAML", Err: err}
	}

	if doc.Gravity != nil {
		cfg.Gravity = Vector2{doc.Gravity[0], doc.Gravity[1]}
	}
	switch doc.Broadphase {
	case "spatial_hash_grid", "":
		cfg.Broadphase = SpatialHashGrid
	case "bvh":
		cfg.Broadphase = BoundingVolumeHierarchy
	case "brute_force":
		cfg.Broadphase = BruteForce
	default:
		return cfg, &EngineError{Kind: ErrKindInvalidArgument, Op: "LoadConfigYAML", Err: errUnknownBroadphase(doc.Broadphase)}
	}

	if doc.SHGCellWidth > 0 {
		cfg.SHGBounds = NewAABB(doc.SHGBounds[0], doc.SHGBounds[1], doc.SHGBounds[2], doc.SHGBounds[3])
		cfg.SHGCellWidth = doc.SHGCellWidth
		cfg.SHGCellHeight = doc.SHGCellHeight
	}

	if doc.AllowSleeping != nil {
		cfg.AllowSleeping = *doc.AllowSleeping
	}
	if doc.WarmStarting != nil {
		cfg.WarmStarting = *doc.WarmStarting
	}
	if doc.CorrectionBias > 0 {
		cfg.CorrectionBias = doc.CorrectionBias
	}
	if doc.PenetrationSlop > 0 {
		cfg.PenetrationSlop = doc.PenetrationSlop
	}
	if doc.LinearSleepThreshold > 0 {
		cfg.LinearSleepThreshold = doc.LinearSleepThreshold
	}
	if doc.AngularSleepThreshold > 0 {
		cfg.AngularSleepThreshold = doc.AngularSleepThreshold
	}
	if doc.SleepFrames > 0 {
		cfg.SleepFrames = doc.SleepFrames
	}
	if doc.VelocityIterations > 0 {
		cfg.VelocityIterations = doc.VelocityIterations
	}
	if doc.PositionIterations > 0 {
		cfg.PositionIterations = doc.PositionIterations
	}
	if doc.ConstraintIterations > 0 {
		cfg.ConstraintIterations = doc.ConstraintIterations
	}
	if doc.Substeps > 0 {
		cfg.Substeps = doc.Substeps
	}

	return cfg, nil
}

type errUnknownBroadphase string

func (e errUnknownBroadphase) Error() string { return "unknown broadphase kind: " + string(e) }
