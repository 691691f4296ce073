package service

import (
	"errors"
	"reflect"
	"testing"
)

// fakeService records lifecycle calls into a shared log
type fakeService struct {
	name      string
	deps      []string
	failInit  bool
	failStart bool
	log       *[]string
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(args ...any) error {
	*f.log = append(*f.log, "init:"+f.name)
	if f.failInit {
		return errors.New("init failed")
	}
	return nil
}

func (f *fakeService) Start() error {
	*f.log = append(*f.log, "start:"+f.name)
	if f.failStart {
		return errors.New("start failed")
	}
	return nil
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop:"+f.name)
	return nil
}

func TestHub_DependencyOrder(t *testing.T) {
	var calls []string
	h := NewHub()
	h.Register(&fakeService{name: "backend", deps: []string{"audio", "asset"}, log: &calls})
	h.Register(&fakeService{name: "audio", log: &calls})
	h.Register(&fakeService{name: "asset", log: &calls})

	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	h.StopAll()

	want := []string{
		"init:asset", "init:audio", "init:backend",
		"start:asset", "start:audio", "start:backend",
		"stop:backend", "stop:audio", "stop:asset",
	}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("Expected %v, got %v", want, calls)
	}
}

func TestHub_StartFailureRollsBack(t *testing.T) {
	var calls []string
	h := NewHub()
	h.Register(&fakeService{name: "a", log: &calls})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, failStart: true, log: &calls})
	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err == nil {
		t.Fatal("Expected start failure")
	}
	want := []string{"init:a", "init:b", "start:a", "start:b", "stop:a"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("Expected %v, got %v", want, calls)
	}
}

func TestHub_RejectsBadGraphs(t *testing.T) {
	var calls []string

	h := NewHub()
	h.Register(&fakeService{name: "a", deps: []string{"ghost"}, log: &calls})
	if err := h.InitAll(); err == nil {
		t.Error("Expected error for unregistered dependency")
	}

	h = NewHub()
	h.Register(&fakeService{name: "a", deps: []string{"b"}, log: &calls})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, log: &calls})
	if err := h.InitAll(); err == nil {
		t.Error("Expected error for dependency cycle")
	}

	if err := h.Register(&fakeService{name: "a", log: &calls}); err == nil {
		t.Error("Expected duplicate registration rejected")
	}
}

func TestMustGet_Typed(t *testing.T) {
	var calls []string
	h := NewHub()
	svc := &fakeService{name: "a", log: &calls}
	h.Register(svc)
	if got := MustGet[*fakeService](h, "a"); got != svc {
		t.Error("Expected registered instance back")
	}
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for missing service")
		}
	}()
	MustGet[*fakeService](h, "missing")
}
