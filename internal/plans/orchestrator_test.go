package plans

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeService is a scriptable plan backend for orchestrator tests.
type fakeService struct {
	mu sync.Mutex

	generateFn func(ctx context.Context, userID, subject string) (*StudyPlan, error)
	listFn     func(ctx context.Context, userID, subject string) ([]*StudyPlan, error)
	deleteFn   func(ctx context.Context, planID, userID string) error

	generateCalls int
	deleteCalls   int
}

func (f *fakeService) GeneratePlan(ctx context.Context, userID, subject string) (*StudyPlan, error) {
	f.mu.Lock()
	f.generateCalls++
	f.mu.Unlock()
	if f.generateFn != nil {
		return f.generateFn(ctx, userID, subject)
	}
	return substantivePlan(userID, subject), nil
}

func (f *fakeService) ListPlans(ctx context.Context, userID, subject string) ([]*StudyPlan, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID, subject)
	}
	return nil, nil
}

func (f *fakeService) DeletePlan(ctx context.Context, planID, userID string) error {
	f.mu.Lock()
	f.deleteCalls++
	f.mu.Unlock()
	if f.deleteFn != nil {
		return f.deleteFn(ctx, planID, userID)
	}
	return nil
}

func substantivePlan(userID, subject string) *StudyPlan {
	return &StudyPlan{
		ID:      uuid.NewString(),
		UserID:  userID,
		Subject: subject,
		WeekPlan: map[string]WeekPlan{
			"week_1": {Number: 1, Focus: "algebra basics"},
		},
		DailyTasks: map[string]DailyTask{},
		Status:     StatusActive,
		CreatedAt:  time.Now().UTC(),
	}
}

func emptyPlan(userID, subject string) *StudyPlan {
	return &StudyPlan{
		ID:         uuid.NewString(),
		UserID:     userID,
		Subject:    subject,
		WeekPlan:   map[string]WeekPlan{},
		DailyTasks: map[string]DailyTask{},
		Status:     StatusActive,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestGenerate_SuccessBecomesActive(t *testing.T) {
	o := NewOrchestrator(&fakeService{}, nil)

	res, err := o.Generate(context.Background(), "u1", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Empty {
		t.Error("substantive plan flagged empty")
	}

	snap := o.Snapshot("u1", "math")
	if len(snap.Plans) != 1 {
		t.Fatalf("expected 1 plan in registry, got %d", len(snap.Plans))
	}
	if snap.Active == nil || snap.Active.ID != res.Plan.ID {
		t.Error("generated plan should be active")
	}
}

func TestGenerate_EmptyPlanKeptAndFlagged(t *testing.T) {
	svc := &fakeService{
		generateFn: func(_ context.Context, userID, subject string) (*StudyPlan, error) {
			return emptyPlan(userID, subject), nil
		},
	}
	o := NewOrchestrator(svc, nil)

	res, err := o.Generate(context.Background(), "u1", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Empty {
		t.Error("plan with no weeks and no modules should be flagged empty")
	}

	snap := o.Snapshot("u1", "math")
	if len(snap.Plans) != 1 {
		t.Fatal("empty plan should still enter the registry")
	}
	if snap.Active == nil || snap.Active.ID != res.Plan.ID {
		t.Error("empty plan should still become active")
	}
}

func TestGenerate_FailureLeavesRegistryUntouched(t *testing.T) {
	svc := &fakeService{}
	o := NewOrchestrator(svc, nil)

	first, err := o.Generate(context.Background(), "u1", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.generateFn = func(_ context.Context, _, _ string) (*StudyPlan, error) {
		return nil, errors.New("model quota exhausted")
	}
	if _, err := o.Generate(context.Background(), "u1", "math"); err == nil {
		t.Fatal("expected error")
	}

	snap := o.Snapshot("u1", "math")
	if len(snap.Plans) != 1 || snap.Plans[0].ID != first.Plan.ID {
		t.Errorf("failed generation mutated the registry: %+v", snap.Plans)
	}
	if snap.Active == nil || snap.Active.ID != first.Plan.ID {
		t.Error("active plan changed after failed generation")
	}
}

func TestGenerate_CancelledContextDiscardsResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &fakeService{
		generateFn: func(_ context.Context, userID, subject string) (*StudyPlan, error) {
			cancel() // Cancel while the request is "in flight".
			return substantivePlan(userID, subject), nil
		},
	}
	o := NewOrchestrator(svc, nil)

	_, err := o.Generate(ctx, "u1", "math")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	snap := o.Snapshot("u1", "math")
	if len(snap.Plans) != 0 || snap.Active != nil {
		t.Error("stale result should not be applied")
	}
}

func TestGenerate_ConcurrentSecondCallBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{
		generateFn: func(_ context.Context, userID, subject string) (*StudyPlan, error) {
			if userID == "u1" {
				close(started)
				<-release
			}
			return substantivePlan(userID, subject), nil
		},
	}
	o := NewOrchestrator(svc, nil)

	done := make(chan error, 1)
	go func() {
		_, err := o.Generate(context.Background(), "u1", "math")
		done <- err
	}()
	<-started

	if _, err := o.Generate(context.Background(), "u1", "math"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	// A different key is independent.
	if _, err := o.Generate(context.Background(), "u2", "math"); err != nil {
		t.Errorf("different key should not be blocked: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
}

func TestList_ReplacesRegistryNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	older := substantivePlan("u1", "math")
	older.CreatedAt = now.Add(-time.Hour)
	newer := substantivePlan("u1", "math")
	newer.CreatedAt = now

	svc := &fakeService{
		listFn: func(_ context.Context, _, _ string) ([]*StudyPlan, error) {
			return []*StudyPlan{older, newer}, nil
		},
	}
	o := NewOrchestrator(svc, nil)

	snap := o.List(context.Background(), "u1", "math")
	if len(snap.Plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(snap.Plans))
	}
	if snap.Plans[0].ID != newer.ID {
		t.Error("plans not ordered newest first")
	}
	if snap.Active == nil || snap.Active.ID != newer.ID {
		t.Error("newest plan should become active when none was")
	}
}

func TestList_FailureEmptiesRegistry(t *testing.T) {
	svc := &fakeService{}
	o := NewOrchestrator(svc, nil)

	if _, err := o.Generate(context.Background(), "u1", "math"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.listFn = func(_ context.Context, _, _ string) ([]*StudyPlan, error) {
		return nil, errors.New("server unreachable")
	}
	snap := o.List(context.Background(), "u1", "math")
	if len(snap.Plans) != 0 || snap.Active != nil {
		t.Errorf("failed list should empty the registry, got %+v", snap)
	}
}

func TestList_KeepsActiveWhenStillPresent(t *testing.T) {
	svc := &fakeService{}
	o := NewOrchestrator(svc, nil)

	res, err := o.Generate(context.Background(), "u1", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newer := substantivePlan("u1", "math")
	newer.CreatedAt = time.Now().Add(time.Hour)
	svc.listFn = func(_ context.Context, _, _ string) ([]*StudyPlan, error) {
		return []*StudyPlan{res.Plan, newer}, nil
	}

	snap := o.List(context.Background(), "u1", "math")
	if snap.Active == nil || snap.Active.ID != res.Plan.ID {
		t.Error("active plan should survive a list that still contains it")
	}
}

func TestSetActive(t *testing.T) {
	o := NewOrchestrator(&fakeService{}, nil)

	res, err := o.Generate(context.Background(), "u1", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stranger := substantivePlan("u1", "math")
	if err := o.SetActive("u1", "math", stranger); !errors.Is(err, ErrNotInRegistry) {
		t.Errorf("expected ErrNotInRegistry, got %v", err)
	}

	if err := o.SetActive("u1", "math", nil); err != nil {
		t.Fatalf("clearing selection failed: %v", err)
	}
	if snap := o.Snapshot("u1", "math"); snap.Active != nil {
		t.Error("selection should be cleared")
	}

	if err := o.SetActive("u1", "math", res.Plan); err != nil {
		t.Fatalf("reactivating registry plan failed: %v", err)
	}
	if snap := o.Snapshot("u1", "math"); snap.Active == nil || snap.Active.ID != res.Plan.ID {
		t.Error("plan should be active again")
	}
}

func TestSetActive_StoresRegistryElement(t *testing.T) {
	o := NewOrchestrator(&fakeService{}, nil)

	res, err := o.Generate(context.Background(), "u1", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Activate via a copy carrying the same ID; the registry keeps its own
	// element, so Active stays pointer-identical to an entry in Plans.
	clone := *res.Plan
	if err := o.SetActive("u1", "math", &clone); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := o.Snapshot("u1", "math")
	found := false
	for _, p := range snap.Plans {
		if p == snap.Active {
			found = true
		}
	}
	if !found {
		t.Error("active should be one of the registry's own elements")
	}
}

func TestDelete_ActivePromotesNewestRemaining(t *testing.T) {
	o := NewOrchestrator(&fakeService{}, nil)

	first, _ := o.Generate(context.Background(), "u1", "math")
	second, _ := o.Generate(context.Background(), "u1", "math")

	// Second is newest and active; delete it.
	if err := o.Delete(context.Background(), "u1", "math", second.Plan.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := o.Snapshot("u1", "math")
	if len(snap.Plans) != 1 || snap.Plans[0].ID != first.Plan.ID {
		t.Fatalf("registry wrong after delete: %+v", snap.Plans)
	}
	if snap.Active == nil || snap.Active.ID != first.Plan.ID {
		t.Error("newest remaining plan should be promoted")
	}

	// Delete the last one; selection clears.
	if err := o.Delete(context.Background(), "u1", "math", first.Plan.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap = o.Snapshot("u1", "math")
	if len(snap.Plans) != 0 || snap.Active != nil {
		t.Errorf("registry should be empty: %+v", snap)
	}
}

func TestDelete_NonActiveLeavesSelection(t *testing.T) {
	o := NewOrchestrator(&fakeService{}, nil)

	first, _ := o.Generate(context.Background(), "u1", "math")
	second, _ := o.Generate(context.Background(), "u1", "math")

	if err := o.Delete(context.Background(), "u1", "math", first.Plan.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := o.Snapshot("u1", "math")
	if snap.Active == nil || snap.Active.ID != second.Plan.ID {
		t.Error("deleting a non-active plan should not change the selection")
	}
}

func TestDelete_FailureLeavesRegistryUntouched(t *testing.T) {
	svc := &fakeService{
		deleteFn: func(_ context.Context, _, _ string) error {
			return errors.New("not found")
		},
	}
	o := NewOrchestrator(svc, nil)

	res, _ := o.Generate(context.Background(), "u1", "math")
	if err := o.Delete(context.Background(), "u1", "math", res.Plan.ID); err == nil {
		t.Fatal("expected error")
	}

	snap := o.Snapshot("u1", "math")
	if len(snap.Plans) != 1 || snap.Active == nil {
		t.Error("failed delete should not mutate the registry")
	}
}

func TestIsSubstantive(t *testing.T) {
	if (*StudyPlan)(nil).IsSubstantive() {
		t.Error("nil plan is not substantive")
	}
	if emptyPlan("u", "math").IsSubstantive() {
		t.Error("plan with no weeks and no modules is not substantive")
	}
	if !substantivePlan("u", "math").IsSubstantive() {
		t.Error("plan with a week entry is substantive")
	}

	withSyllabus := emptyPlan("u", "math")
	withSyllabus.Syllabus = &Syllabus{
		Title:   "Algebra",
		Modules: []Module{{Number: 1, Title: "Linear equations"}},
	}
	if !withSyllabus.IsSubstantive() {
		t.Error("plan with syllabus modules is substantive")
	}
}
