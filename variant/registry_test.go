package variant

import (
	"strings"
	"testing"

	"gostop-server/scoring"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&Standard{})

	v, ok := r.Get("standard")
	if !ok {
		t.Fatal("expected to find 'standard' in registry")
	}
	if v.Name() != "Go-Stop" {
		t.Errorf("expected Name='Go-Stop', got %q", v.Name())
	}
	if _, ok := r.Get("nonexistent"); ok {
		t.Error("expected Get to return false for a nonexistent variant")
	}
}

func TestRegistryAllKeepsOrder(t *testing.T) {
	r := Default(0)
	all := r.All()
	if len(all) != 2 || all[0].ID() != "standard" || all[1].ID() != "matgo" {
		t.Fatalf("unexpected variants %v", all)
	}
	r.Register(&Standard{Threshold: 5})
	if len(r.All()) != 2 {
		t.Error("re-registering should replace, not append")
	}
}

func TestThresholdOverride(t *testing.T) {
	if got := (&Standard{}).Rules(); got != scoring.StandardRules() {
		t.Errorf("zero threshold should keep defaults, got %+v", got)
	}
	if got := (&Standard{Threshold: 5}).Rules().GoStopThreshold; got != 5 {
		t.Errorf("expected threshold 5, got %d", got)
	}
	if got := (&Matgo{}).Rules().GoStopThreshold; got != 7 {
		t.Errorf("expected matgo threshold 7, got %d", got)
	}
}

func TestOptions(t *testing.T) {
	r := Default(0)
	opts, err := r.Options("matgo", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Rules != scoring.Matgo() || opts.Resolver == nil {
		t.Errorf("unexpected options %+v", opts)
	}

	if _, err := r.Options("matgo", 3, nil); err == nil || !strings.Contains(err.Error(), "2 to 2") {
		t.Errorf("expected a player count error, got %v", err)
	}
	if _, err := r.Options("hwatu-poker", 2, nil); err == nil {
		t.Error("expected an unknown variant error")
	}
}
