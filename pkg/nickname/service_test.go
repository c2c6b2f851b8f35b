package nickname

import (
	"context"
	"errors"
	"sync"
	"testing"

	"friendsofmonika/masvalidator/pkg/source"
	"friendsofmonika/masvalidator/pkg/tokenize"
)

// scriptFetcher serves a settable script.
type scriptFetcher struct {
	mu     sync.Mutex
	script string
	err    error
	calls  int
}

func (f *scriptFetcher) FetchText(ctx context.Context, repo source.Repo, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.script, f.err
}

func (f *scriptFetcher) set(script string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script, f.err = script, err
}

func newTestService(f source.Fetcher, priority ...Category) *Service {
	return NewService(ServiceConfig{
		Repo:     source.Repo{Owner: "Monika-After-Story", Name: "MonikaModDev", Ref: "master"},
		Path:     "Monika After Story/game/script-story-events.rpy",
		Priority: priority,
	}, f, tokenize.NewWorker(nil), nil, nil)
}

func TestService_LazyLoadAndClassify(t *testing.T) {
	f := &scriptFetcher{script: loadScript(t)}
	svc := newTestService(f)
	ctx := context.Background()

	m, err := svc.Classify(ctx, "fuckface")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if m == nil || m.Category != CategoryBad {
		t.Errorf("Classify() = %+v, want bad", m)
	}

	if m, _ := svc.Classify(ctx, "Yuri"); m != nil {
		t.Errorf("Classify(Yuri) = %+v, want nil", m)
	}

	if f.calls != 1 {
		t.Errorf("script fetched %d times, want 1", f.calls)
	}
}

func TestService_ReloadOnlyOnRevisionChange(t *testing.T) {
	f := &scriptFetcher{script: `mas_awkward_nickname_list = ["mom"]`}
	svc := newTestService(f)
	ctx := context.Background()

	changed, err := svc.Reload(ctx)
	if err != nil || !changed {
		t.Fatalf("first Reload() = %v, %v", changed, err)
	}
	first, _ := svc.Rules(ctx)

	changed, err = svc.Reload(ctx)
	if err != nil || changed {
		t.Fatalf("Reload() with same script = %v, %v, want unchanged", changed, err)
	}
	if again, _ := svc.Rules(ctx); again != first {
		t.Error("rule sets replaced although script did not change")
	}

	f.set(`mas_awkward_nickname_list = ["mom", "dad"]`, nil)
	changed, err = svc.Reload(ctx)
	if err != nil || !changed {
		t.Fatalf("Reload() after change = %v, %v", changed, err)
	}
	if m, _ := svc.Classify(ctx, "Dad"); m == nil || m.Category != CategoryAwkward {
		t.Errorf("Classify(Dad) after reload = %+v", m)
	}
}

func TestService_FallbackWhenUnreachable(t *testing.T) {
	f := &scriptFetcher{err: errors.New("connection refused")}
	svc := newTestService(f)
	ctx := context.Background()

	m, err := svc.Classify(ctx, "BadName")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if m == nil || m.Category != CategoryBad {
		t.Fatalf("Classify() = %+v, want bad via built-in pattern", m)
	}

	rs, _ := svc.Rules(ctx)
	if rs.Revision != "" {
		t.Errorf("fallback revision = %q, want empty", rs.Revision)
	}

	// Once the script is reachable the real lists replace the fallback.
	f.set(loadScript(t), nil)
	changed, err := svc.Reload(ctx)
	if err != nil || !changed {
		t.Fatalf("Reload() = %v, %v", changed, err)
	}
	if m, _ := svc.Classify(ctx, "mommy"); m == nil || m.Category != CategoryAwkward {
		t.Errorf("Classify(mommy) = %+v, want awkward", m)
	}
}

func TestService_KeepsRulesWhenReloadFails(t *testing.T) {
	f := &scriptFetcher{script: loadScript(t)}
	svc := newTestService(f)
	ctx := context.Background()

	if _, err := svc.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	before, _ := svc.Rules(ctx)

	f.set("", errors.New("timeout"))
	if _, err := svc.Reload(ctx); err == nil {
		t.Fatal("Reload() expected error")
	}
	if after, _ := svc.Rules(ctx); after != before {
		t.Error("rules replaced after failed reload")
	}
}

func TestService_Priority(t *testing.T) {
	f := &scriptFetcher{script: `
mas_bad_nickname_list = ["evil"]
mas_good_nickname_list_base = ["evil twin"]
`}
	ctx := context.Background()

	badFirst := newTestService(f, CategoryBad, CategoryPlayerGood)
	if m, _ := badFirst.Classify(ctx, "Evil Twin"); m == nil || m.Category != CategoryBad {
		t.Errorf("bad-first Classify() = %+v", m)
	}

	goodFirst := newTestService(f, CategoryPlayerGood, CategoryBad)
	if m, _ := goodFirst.Classify(ctx, "Evil Twin"); m == nil || m.Category != CategoryPlayerGood {
		t.Errorf("good-first Classify() = %+v", m)
	}

	if got := newTestService(f).Priority(); len(got) != len(Categories) {
		t.Errorf("default Priority() = %v", got)
	}
}

func TestService_Source(t *testing.T) {
	s := newTestService(&scriptFetcher{})
	repo, path := s.Source()
	if repo.Owner != "Monika-After-Story" || repo.Name != "MonikaModDev" {
		t.Errorf("repo = %+v", repo)
	}
	if path != "Monika After Story/game/script-story-events.rpy" {
		t.Errorf("path = %q", path)
	}
}

func TestService_ClassifyWithSnapshot(t *testing.T) {
	f := &scriptFetcher{script: `mas_awkward_nickname_list = ["mom"]`}
	svc := newTestService(f, CategoryBad, CategoryAwkward, CategoryPlayerGood)
	ctx := context.Background()

	old, err := svc.Rules(ctx)
	if err != nil {
		t.Fatal(err)
	}

	f.set(`mas_good_nickname_list_base = ["mom"]`, nil)
	if changed, err := svc.Reload(ctx); err != nil || !changed {
		t.Fatalf("Reload() = %v, %v", changed, err)
	}
	calls := f.calls

	// The snapshot keeps classifying with the rules it was built from.
	if m := svc.ClassifyWith(old, "Mom"); m == nil || m.Category != CategoryAwkward {
		t.Errorf("ClassifyWith(old) = %+v, want awkward", m)
	}
	cur, _ := svc.Rules(ctx)
	if m := svc.ClassifyWith(cur, "Mom"); m == nil || m.Category != CategoryPlayerGood {
		t.Errorf("ClassifyWith(current) = %+v, want playerGood", m)
	}
	if m := svc.ClassifyWith(cur, "Mom", CategoryMonikaGood); m == nil || m.Category != CategoryMonikaGood {
		t.Errorf("ClassifyWith(current, monikaGood) = %+v", m)
	}
	if f.calls != calls {
		t.Errorf("ClassifyWith fetched the script %d times", f.calls-calls)
	}
}
