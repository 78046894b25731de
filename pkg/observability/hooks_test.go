package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEngineHooks{}
	e.OnLayout("rebuilt", 70, 110, time.Millisecond)
	e.OnFrame(2, true)
	e.OnThemeRefresh()

	p := NoopPulseHooks{}
	p.OnSpawn(3)
	p.OnArrive(3)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "file")
	c.OnCacheMiss(ctx, "redis")
	c.OnCacheSet(ctx, "file", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/frame.svg", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Pulse().(NoopPulseHooks); !ok {
		t.Error("Pulse() should return NoopPulseHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customPulse := &testPulseHooks{}
	SetPulseHooks(customPulse)
	if Pulse() != customPulse {
		t.Error("SetPulseHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Reset() should restore NoopServerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)
	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}
	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	e := &testEngineHooks{}
	SetEngineHooks(e)
	Engine().OnFrame(2, false)
	Engine().OnFrame(1, true)
	Engine().OnLayout("rescaled", 1, 2, 0)

	if e.frames != 2 || e.ticks != 3 || e.dropped != 1 {
		t.Errorf("frames/ticks/dropped = %d/%d/%d, want 2/3/1", e.frames, e.ticks, e.dropped)
	}
	if e.lastOutcome != "rescaled" {
		t.Errorf("lastOutcome = %q, want rescaled", e.lastOutcome)
	}
}

type testEngineHooks struct {
	frames, ticks, dropped int
	lastOutcome            string
}

func (h *testEngineHooks) OnLayout(outcome string, _, _ int, _ time.Duration) {
	h.lastOutcome = outcome
}

func (h *testEngineHooks) OnFrame(ticks int, dropped bool) {
	h.frames++
	h.ticks += ticks
	if dropped {
		h.dropped++
	}
}

func (h *testEngineHooks) OnThemeRefresh() {}

type testPulseHooks struct{}

func (*testPulseHooks) OnSpawn(int)  {}
func (*testPulseHooks) OnArrive(int) {}

type testCacheHooks struct{}

func (*testCacheHooks) OnCacheHit(context.Context, string)      {}
func (*testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (*testCacheHooks) OnCacheSet(context.Context, string, int) {}

type testServerHooks struct{}

func (*testServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
