package outfit

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"armario-outfits/models"
)

// Mode names a selection policy
type Mode string

const (
	ModeRanked  Mode = "ranked"
	ModeSampled Mode = "sampled"
)

// ParseMode validates a client-supplied policy name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRanked:
		return ModeRanked, nil
	case ModeSampled:
		return ModeSampled, nil
	default:
		return "", &InputError{Field: "policy", Err: fmt.Errorf("%w: unknown policy %q", ErrInvalidInput, s)}
	}
}

// Limits bounds how many items a policy puts into an outfit. Zero means no limit.
type Limits struct {
	PerSlot  int
	PerRole  int
	MaxItems int
}

// Policy is a selection strategy plugged into the composition pipeline
type Policy interface {
	Mode() Mode
	Limits() Limits
	// Fetch retrieves the candidate pool for one cascade stage
	Fetch(ctx context.Context, catalog Catalog, filter CatalogFilter) ([]models.CatalogItem, error)
	// Arrange returns candidates in pick order
	Arrange(cands []ScoredCandidate) []ScoredCandidate
}

// Ranked sorts by compatibility and takes the best candidates
type Ranked struct {
	limits Limits
}

// NewRanked creates a Ranked policy
func NewRanked(perSlot, maxItems int) *Ranked {
	if perSlot <= 0 {
		perSlot = 1
	}
	return &Ranked{limits: Limits{PerSlot: perSlot, MaxItems: maxItems}}
}

var _ Policy = (*Ranked)(nil)

func (p *Ranked) Mode() Mode     { return ModeRanked }
func (p *Ranked) Limits() Limits { return p.limits }

// Fetch reads every match. The pool size only bounds sampling; a ranked pick
// must see the whole filtered set.
func (p *Ranked) Fetch(ctx context.Context, catalog Catalog, filter CatalogFilter) ([]models.CatalogItem, error) {
	filter.Limit = 0
	return catalog.Query(ctx, filter)
}

func (p *Ranked) Arrange(cands []ScoredCandidate) []ScoredCandidate {
	out := append([]ScoredCandidate(nil), cands...)
	SortRanked(out)
	return out
}

// Sampled picks uniformly at random from the filtered pool
type Sampled struct {
	limits Limits

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampled creates a Sampled policy. A nil rng seeds from the clock.
func NewSampled(perRole int, rng *rand.Rand) *Sampled {
	if perRole <= 0 {
		perRole = 2
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampled{
		limits: Limits{PerSlot: perRole, PerRole: perRole},
		rng:    rng,
	}
}

var _ Policy = (*Sampled)(nil)

func (p *Sampled) Mode() Mode     { return ModeSampled }
func (p *Sampled) Limits() Limits { return p.limits }

func (p *Sampled) Fetch(ctx context.Context, catalog Catalog, filter CatalogFilter) ([]models.CatalogItem, error) {
	return catalog.Sample(ctx, filter)
}

// Arrange shuffles a copy of the pool. The pool is first put in id order so
// that a seeded source gives the same picks whatever order the catalog
// returned.
func (p *Sampled) Arrange(cands []ScoredCandidate) []ScoredCandidate {
	out := append([]ScoredCandidate(nil), cands...)
	sortByID(out)

	p.mu.Lock()
	p.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	p.mu.Unlock()
	return out
}

func sortByID(cands []ScoredCandidate) {
	sort.Slice(cands, func(i, j int) bool { return cands[i].Item.ID < cands[j].Item.ID })
}
