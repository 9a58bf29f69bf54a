// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"strings"
	"testing"
)

// resetRegistry clears all registered backends for test isolation.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories = make(map[string]Factory)
}

func TestRegisterAndNewAPI(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("test", func(Config) (API, error) {
		return newMockAPI(), nil
	})

	api, err := NewAPI("test", Config{})
	if err != nil {
		t.Fatalf("NewAPI failed: %v", err)
	}
	if _, ok := api.(*mockAPI); !ok {
		t.Fatalf("api is %T, want *mockAPI", api)
	}
}

func TestNewAPIUnknown(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	_, err := NewAPI("nonexistent", Config{})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "forgotten import") {
		t.Errorf("error %q lacks the import hint", err)
	}
}

func TestNewAPIFactoryError(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	boom := errors.New("no device")
	Register("broken", func(Config) (API, error) { return nil, boom })

	if _, err := NewAPI("broken", Config{}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestRegisterPanics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	t.Run("nil factory", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Register("nil", nil)
	})

	t.Run("duplicate", func(t *testing.T) {
		Register("dup", func(Config) (API, error) { return newMockAPI(), nil })
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Register("dup", func(Config) (API, error) { return newMockAPI(), nil })
	})
}

func TestMustAPI(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("ok", func(Config) (API, error) { return newMockAPI(), nil })
	if MustAPI("ok", Config{}) == nil {
		t.Error("MustAPI returned nil")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown backend")
		}
	}()
	MustAPI("missing", Config{})
}

func TestBackendsSorted(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	for _, name := range []string{"vulkan", "capture", "opengl"} {
		Register(name, func(Config) (API, error) { return newMockAPI(), nil })
	}

	got := Backends()
	want := []string{"capture", "opengl", "vulkan"}
	if len(got) != len(want) {
		t.Fatalf("Backends() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Backends()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if Count() != 3 {
		t.Errorf("Count() = %d", Count())
	}
	if !IsRegistered("opengl") || IsRegistered("metal") {
		t.Error("IsRegistered mismatch")
	}

	Unregister("opengl")
	Unregister("never-registered")
	if IsRegistered("opengl") || Count() != 2 {
		t.Error("Unregister did not remove backend")
	}
}

func TestConfigOptimizerOr(t *testing.T) {
	if _, ok := (Config{}).OptimizerOr().(ForwardOptimizer); !ok {
		t.Error("default optimizer is not ForwardOptimizer")
	}
	d := &BindDedupOptimizer{}
	if (Config{Optimizer: d}).OptimizerOr() != d {
		t.Error("configured optimizer ignored")
	}
}
