package bank

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/hexbank/internal/bank/cells"
	"github.com/banshee-data/hexbank/internal/bank/classify"
	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/bank/rootfind"
	"github.com/banshee-data/hexbank/internal/metric"
	"github.com/banshee-data/hexbank/internal/monitoring"
)

var (
	// ErrConfig is returned for a GridParam that cannot describe a bank.
	ErrConfig = errors.New("bank: invalid configuration")
	// ErrRunawayGrowth is returned when growth or stitching exceeds its
	// safety cap.
	ErrRunawayGrowth = errors.New("bank: runaway growth")
	// ErrInternal is returned when construction ends in an inconsistent
	// state.
	ErrInternal = errors.New("bank: internal error")
)

// Defaults applied by GridParam.WithDefaults.
const (
	DefaultDedupeRadius = 1.0
	DefaultTolerance    = rootfind.DefaultTolerance
	// passMargin is added to the area-derived growth pass cap.
	passMargin = 100
)

// GridParam configures one bank construction.
type GridParam struct {
	// MinimumMismatch is the tolerated fractional mismatch, in (0, 1).
	MinimumMismatch float64
	// FLower is the low-frequency cutoff in Hz.
	FLower float64
	// Component and total mass ranges in M☉. Zero total bounds default
	// to twice the component bounds.
	MassMin  float64
	MassMax  float64
	TotalMin float64
	TotalMax float64
	// EtaMin is the symmetric mass ratio floor; zero disables it.
	EtaMin float64
	// Box is the search region in the plane. The zero box is replaced by
	// the smallest box holding the physical region.
	Box geometry.Box

	// DedupeRadius is the metric distance, in units of the spawning
	// cell's ellipse, within which a candidate counts as already covered.
	DedupeRadius float64
	// Tolerance is the absolute root-finding tolerance in seconds.
	Tolerance float64
	// MaxPasses caps growth passes and stitch steps per walk. Zero derives
	// the cap from the box area and the seed ellipse.
	MaxPasses int
	// MaxCells caps the number of stored cells. Zero means no cap.
	MaxCells int
}

// Boundary returns the boundary curves for the component mass range.
func (gp GridParam) Boundary() geometry.Boundary {
	return geometry.Boundary{
		Coeffs:  geometry.NewChirpCoeffs(gp.FLower),
		MassMin: gp.MassMin,
		MassMax: gp.MassMax,
	}
}

// WithDefaults fills zero-valued optional fields.
func (gp GridParam) WithDefaults() GridParam {
	if gp.TotalMin == 0 {
		gp.TotalMin = 2 * gp.MassMin
	}
	if gp.TotalMax == 0 {
		gp.TotalMax = 2 * gp.MassMax
	}
	if gp.DedupeRadius == 0 {
		gp.DedupeRadius = DefaultDedupeRadius
	}
	if gp.Tolerance == 0 {
		gp.Tolerance = DefaultTolerance
	}
	if gp.Box == (geometry.Box{}) && gp.FLower > 0 && gp.MassMin > 0 && gp.MassMax > gp.MassMin {
		gp.Box = geometry.SearchLimits(gp.Boundary())
	}
	return gp
}

// Validate reports the first problem with gp. Call it after WithDefaults.
func (gp GridParam) Validate() error {
	switch {
	case !(gp.MinimumMismatch > 0 && gp.MinimumMismatch < 1):
		return fmt.Errorf("%w: minimum mismatch %g not in (0, 1)", ErrConfig, gp.MinimumMismatch)
	case !(gp.FLower > 0):
		return fmt.Errorf("%w: low-frequency cutoff %g must be positive", ErrConfig, gp.FLower)
	case !(gp.MassMin > 0):
		return fmt.Errorf("%w: minimum component mass %g must be positive", ErrConfig, gp.MassMin)
	case !(gp.MassMax > gp.MassMin):
		return fmt.Errorf("%w: maximum component mass %g must exceed minimum %g", ErrConfig, gp.MassMax, gp.MassMin)
	case gp.TotalMax < 2*gp.MassMin:
		return fmt.Errorf("%w: maximum total mass %g is less than twice the minimum component mass %g", ErrConfig, gp.TotalMax, gp.MassMin)
	case !(gp.TotalMin < gp.TotalMax):
		return fmt.Errorf("%w: total mass range [%g, %g] is empty", ErrConfig, gp.TotalMin, gp.TotalMax)
	case gp.EtaMin < 0 || gp.EtaMin > 0.25:
		return fmt.Errorf("%w: eta floor %g not in [0, 0.25]", ErrConfig, gp.EtaMin)
	case !gp.Box.Valid():
		return fmt.Errorf("%w: search box %+v is empty or not at positive t0", ErrConfig, gp.Box)
	case !(gp.DedupeRadius > 0 && gp.DedupeRadius < math.Sqrt(3)):
		return fmt.Errorf("%w: dedupe radius %g not in (0, √3)", ErrConfig, gp.DedupeRadius)
	case !(gp.Tolerance > 0):
		return fmt.Errorf("%w: tolerance %g must be positive", ErrConfig, gp.Tolerance)
	case gp.MaxPasses < 0 || gp.MaxCells < 0:
		return fmt.Errorf("%w: negative cap", ErrConfig)
	}
	return nil
}

// Region returns the classification region for gp.
func (gp GridParam) Region() classify.Region {
	return classify.Region{
		Coeffs:   geometry.NewChirpCoeffs(gp.FLower),
		Box:      gp.Box,
		MassMin:  gp.MassMin,
		MassMax:  gp.MassMax,
		TotalMin: gp.TotalMin,
		TotalMax: gp.TotalMax,
		EtaMin:   gp.EtaMin,
	}
}

// Template is one placed template.
type Template struct {
	ID        int
	T0        float64
	T3        float64
	Mass1     float64
	Mass2     float64
	TotalMass float64
	Eta       float64
	ChirpMass float64
	Ellipse   metric.Ellipse
}

// Stats summarises a construction.
type Stats struct {
	Seed      geometry.Point
	Passes    int
	Cells     int
	EdgeCells int
	Stitched  int
	Corrected int
}

// Bank is the result of Build.
type Bank struct {
	Params    GridParam
	Templates []Template
	Stats     Stats
}

// Build places a template bank. The provider is asked for the unit-mismatch
// ellipse at every stored cell; moments are passed to it untouched. Any
// error aborts construction and no bank is returned.
func Build(gp GridParam, provider metric.Provider, moments metric.Moments) (*Bank, error) {
	gp = gp.WithDefaults()
	if err := gp.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: no metric provider", ErrConfig)
	}

	b := newBuilder(gp, provider, moments)
	if err := b.seed(); err != nil {
		return nil, err
	}
	if err := b.grow(); err != nil {
		return nil, err
	}
	b.stats.EdgeCells = len(b.store.EdgeIDs())
	if err := b.stitch(); err != nil {
		return nil, err
	}
	templates, err := b.assemble()
	if err != nil {
		return nil, err
	}

	b.stats.Passes = b.store.State().Passes
	b.stats.Cells = b.store.Len()
	monitoring.Logf("bank: %d templates from %d cells (%d passes, %d edge cells, %d stitched, %d corrected)",
		len(templates), b.stats.Cells, b.stats.Passes, b.stats.EdgeCells, b.stats.Stitched, b.stats.Corrected)
	return &Bank{Params: gp, Templates: templates, Stats: b.stats}, nil
}

// builder holds the state of one construction.
type builder struct {
	gp        GridParam
	bound     geometry.Boundary
	region    classify.Region
	provider  metric.Provider
	moments   metric.Moments
	scale     float64
	store     *cells.Store
	index     *cells.Index
	maxPasses int
	stats     Stats
}

func newBuilder(gp GridParam, provider metric.Provider, moments metric.Moments) *builder {
	return &builder{
		gp:       gp,
		bound:    gp.Boundary(),
		region:   gp.Region(),
		provider: provider,
		moments:  moments,
		scale:    math.Sqrt(gp.MinimumMismatch),
		store:    cells.NewStore(gp.MaxCells),
	}
}

// ellipseAt returns the provider's ellipse at p scaled to the minimum
// mismatch.
func (b *builder) ellipseAt(p geometry.Point) (metric.Ellipse, error) {
	e, err := b.provider.Metric(p, b.moments)
	if err != nil {
		return metric.Ellipse{}, fmt.Errorf("bank: metric at (%g, %g): %w", p.T0, p.T3, err)
	}
	if err := e.Validate(); err != nil {
		return metric.Ellipse{}, fmt.Errorf("bank: metric at (%g, %g): %w", p.T0, p.T3, err)
	}
	return e.Scaled(b.scale), nil
}

// newCell builds a classified fertile cell at p.
func (b *builder) newCell(p geometry.Point) (cells.Cell, error) {
	e, err := b.ellipseAt(p)
	if err != nil {
		return cells.Cell{}, err
	}
	c := cells.NewCell(p, e)
	b.classifyCell(&c)
	return c, nil
}

func (b *builder) classifyCell(c *cells.Cell) {
	c.Position = b.region.Classify(c.Pos)
	c.Corners = b.region.Corners(c.Pos, c.Ellipse)
}

// insert stores c and indexes its anchor.
func (b *builder) insert(c cells.Cell) (int, error) {
	id, err := b.store.Append(c)
	if err != nil {
		return cells.None, fmt.Errorf("bank: storing cell: %w", err)
	}
	b.index.Insert(id, c.Anchor)
	return id, nil
}

// seedScan is the number of grid steps per box side searched for a seed
// when neither the vertex nor the box centre is valid.
const seedScan = 64

// seedPoint returns the (MassMin, MassMax) vertex when it is valid, else
// the box centre, else the valid grid point of the box closest to the
// centre.
func (b *builder) seedPoint() (geometry.Point, error) {
	p := b.bound.Coeffs.FromMasses(b.gp.MassMin, b.gp.MassMax)
	if b.region.Classify(p) == classify.In {
		return p, nil
	}
	box := b.gp.Box
	centre := box.Center()
	if b.region.Classify(centre) == classify.In {
		monitoring.Logf("bank: seed vertex outside search region, seeding at box centre (%g, %g)", centre.T0, centre.T3)
		return centre, nil
	}

	w, h := box.T0Max-box.T0Min, box.T3Max-box.T3Min
	best, bestDist := geometry.Point{}, math.Inf(1)
	for i := 0; i <= seedScan; i++ {
		for j := 0; j <= seedScan; j++ {
			q := geometry.Point{
				T0: box.T0Min + w*float64(i)/seedScan,
				T3: box.T3Min + h*float64(j)/seedScan,
			}
			if b.region.Classify(q) != classify.In {
				continue
			}
			if d := math.Hypot((q.T0-centre.T0)/w, (q.T3-centre.T3)/h); d < bestDist {
				best, bestDist = q, d
			}
		}
	}
	if math.IsInf(bestDist, 1) {
		return geometry.Point{}, fmt.Errorf("%w: search box %+v holds no valid point", ErrConfig, box)
	}
	monitoring.Logf("bank: seed vertex and box centre outside search region, seeding at (%g, %g)", best.T0, best.T3)
	return best, nil
}

// seed stores the first cell at seedPoint and sizes the index and the pass
// cap from its ellipse.
func (b *builder) seed() error {
	p, err := b.seedPoint()
	if err != nil {
		return err
	}
	c, err := b.newCell(p)
	if err != nil {
		return err
	}

	hx, hy := c.Ellipse.Extent()
	b.index = cells.NewIndex(hx, hy)
	b.maxPasses = b.gp.MaxPasses
	if b.maxPasses == 0 {
		n := math.Min(math.Ceil(b.gp.Box.Area()/(c.Ellipse.A*c.Ellipse.B)), math.MaxInt32)
		b.maxPasses = int(n) + passMargin
	}
	reserve := cells.DefaultBatch
	if b.gp.MaxCells > 0 && b.gp.MaxCells < reserve {
		reserve = b.gp.MaxCells
	}
	if err := b.store.Allocate(reserve); err != nil {
		return fmt.Errorf("bank: %w", err)
	}
	if _, err := b.insert(c); err != nil {
		return err
	}
	b.stats.Seed = p
	return nil
}
