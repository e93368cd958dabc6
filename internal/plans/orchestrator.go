package plans

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Service is the collaborator surface the orchestrator depends on.
// backend implementations satisfy it.
type Service interface {
	GeneratePlan(ctx context.Context, userID, subject string) (*StudyPlan, error)
	ListPlans(ctx context.Context, userID, subject string) ([]*StudyPlan, error)
	DeletePlan(ctx context.Context, planID, userID string) error
}

// ErrBusy is returned when an operation is attempted on a (user, subject)
// key that already has one in flight. Operations on one key are serialized;
// different keys proceed independently.
var ErrBusy = errors.New("plan operation already in flight for this user and subject")

// ErrNotInRegistry is returned by SetActive for a plan the registry does
// not hold.
var ErrNotInRegistry = errors.New("plan is not in the registry")

// GenerateResult is the outcome of a successful generation. Empty marks a
// heuristically-empty plan: the call succeeded and the plan is in the
// registry, but it lacks substantive content and the caller should warn
// about upstream generation failure.
type GenerateResult struct {
	Plan  *StudyPlan
	Empty bool
}

// Snapshot is a point-in-time copy of one key's registry state. Active, when
// non-nil, is always an element of Plans.
type Snapshot struct {
	Plans  []*StudyPlan
	Active *StudyPlan
}

// Orchestrator owns the plan registry and the active-plan pointer for every
// (user, subject) pair. No other component mutates them.
type Orchestrator struct {
	svc Service
	log *zap.Logger

	mu   sync.Mutex
	keys map[string]*keyState
}

type keyState struct {
	plans    []*StudyPlan // newest first
	active   *StudyPlan
	inFlight bool
	epoch    uint64
}

// NewOrchestrator creates an orchestrator over the given collaborator.
func NewOrchestrator(svc Service, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		svc:  svc,
		log:  log,
		keys: make(map[string]*keyState),
	}
}

func planKey(userID, subject string) string {
	return userID + "/" + subject
}

func (o *Orchestrator) state(userID, subject string) *keyState {
	k := planKey(userID, subject)
	st, ok := o.keys[k]
	if !ok {
		st = &keyState{}
		o.keys[k] = st
	}
	return st
}

// begin marks a key in flight and returns its epoch, or ErrBusy.
func (o *Orchestrator) begin(userID, subject string) (*keyState, uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.state(userID, subject)
	if st.inFlight {
		return nil, 0, ErrBusy
	}
	st.inFlight = true
	st.epoch++
	return st, st.epoch, nil
}

func (o *Orchestrator) end(st *keyState) {
	o.mu.Lock()
	st.inFlight = false
	o.mu.Unlock()
}

// List fetches persisted plans, newest first. On success the registry is
// replaced and, if no plan is currently active, the newest becomes active.
// On failure the registry is emptied and the error only logged: listing is
// advisory and must never block manual generation.
func (o *Orchestrator) List(ctx context.Context, userID, subject string) Snapshot {
	st, epoch, err := o.begin(userID, subject)
	if err != nil {
		return o.Snapshot(userID, subject)
	}
	defer o.end(st)

	fetched, err := o.svc.ListPlans(ctx, userID, subject)

	o.mu.Lock()
	defer o.mu.Unlock()

	if st.epoch != epoch {
		return snapshotLocked(st)
	}

	if err != nil {
		o.log.Warn("listing study plans failed, continuing with empty registry",
			zap.String("user_id", userID),
			zap.String("subject", subject),
			zap.Error(err))
		st.plans = nil
		st.active = nil
		return snapshotLocked(st)
	}

	sortNewestFirst(fetched)
	st.plans = fetched
	if st.active != nil {
		// Re-point at the freshly fetched element so the active selection
		// survives refreshes by ID, not by stale pointer.
		st.active = findPlan(st.plans, st.active.ID)
	}
	if st.active == nil && len(st.plans) > 0 {
		st.active = st.plans[0]
	}
	return snapshotLocked(st)
}

// Generate issues a long-running generation request for the key. On success
// the plan joins the registry and becomes active, including heuristically
// empty plans, which are flagged in the result rather than discarded. On
// transport or server failure the registry is left untouched.
//
// Generation is slow (60-90s observed); callers should budget a generous
// timeout on ctx. A response arriving after ctx is cancelled, or after a
// newer operation on the key, is discarded rather than applied.
func (o *Orchestrator) Generate(ctx context.Context, userID, subject string) (GenerateResult, error) {
	st, epoch, err := o.begin(userID, subject)
	if err != nil {
		return GenerateResult{}, err
	}
	defer o.end(st)

	plan, err := o.svc.GeneratePlan(ctx, userID, subject)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("generate study plan: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if ctx.Err() != nil || st.epoch != epoch {
		o.log.Info("discarding stale study plan generation result",
			zap.String("user_id", userID),
			zap.String("subject", subject))
		if ctx.Err() != nil {
			return GenerateResult{}, ctx.Err()
		}
		return GenerateResult{}, ErrBusy
	}

	st.plans = append([]*StudyPlan{plan}, st.plans...)
	st.active = plan

	return GenerateResult{Plan: plan, Empty: !plan.IsSubstantive()}, nil
}

// SetActive reassigns which registry entry is displayed. Purely local; the
// plan must already be in the registry, or nil to clear the selection.
func (o *Orchestrator) SetActive(userID, subject string, plan *StudyPlan) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := o.state(userID, subject)
	if plan == nil {
		st.active = nil
		return nil
	}
	entry := findPlan(st.plans, plan.ID)
	if entry == nil {
		return ErrNotInRegistry
	}
	// Keep the active pointer aimed at the registry's own element, not the
	// caller's copy.
	st.active = entry
	return nil
}

// Delete removes a plan. On success it leaves the registry without the plan
// and, when the deleted plan was active, promotes the newest remaining plan
// (or clears the selection when none remain). On failure the registry is
// untouched and the error surfaced.
func (o *Orchestrator) Delete(ctx context.Context, userID, subject, planID string) error {
	st, epoch, err := o.begin(userID, subject)
	if err != nil {
		return err
	}
	defer o.end(st)

	if err := o.svc.DeletePlan(ctx, planID, userID); err != nil {
		return fmt.Errorf("delete study plan: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if st.epoch != epoch {
		return nil
	}

	wasActive := st.active != nil && st.active.ID == planID
	kept := st.plans[:0:0]
	for _, p := range st.plans {
		if p.ID != planID {
			kept = append(kept, p)
		}
	}
	st.plans = kept

	if wasActive {
		if len(st.plans) > 0 {
			st.active = st.plans[0]
		} else {
			st.active = nil
		}
	}
	return nil
}

// Snapshot returns a copy of the registry state for a key. The active
// pointer, when set, always references an element of the returned plans.
func (o *Orchestrator) Snapshot(userID, subject string) Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return snapshotLocked(o.state(userID, subject))
}

func snapshotLocked(st *keyState) Snapshot {
	out := Snapshot{Active: st.active}
	out.Plans = make([]*StudyPlan, len(st.plans))
	copy(out.Plans, st.plans)
	return out
}

func findPlan(plans []*StudyPlan, id string) *StudyPlan {
	for _, p := range plans {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func sortNewestFirst(plans []*StudyPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
}
