package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/meshdrift/pkg/config"
)

func newTestAnimateModel(t *testing.T) *animateModel {
	t.Helper()
	m, err := newAnimateModel(config.Default(), nil, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("newAnimateModel() error: %v", err)
	}
	return m
}

func TestAnimateWindowSize(t *testing.T) {
	m := newTestAnimateModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 31})

	cols, rows := m.canvas.Size()
	if cols != 100 || rows != 30 {
		t.Errorf("canvas = %dx%d, want 100x30", cols, rows)
	}
	if m.err != nil {
		t.Errorf("resize error: %v", m.err)
	}

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 31 {
		t.Errorf("view has %d lines, want 31", len(lines))
	}
}

func TestAnimateFrameAdvances(t *testing.T) {
	m := newTestAnimateModel(t)
	time.Sleep(80 * time.Millisecond)

	_, cmd := m.Update(frameMsg(time.Now()))
	if cmd == nil {
		t.Error("frame should schedule the next frame")
	}
	if m.engine.Ticks() == 0 {
		t.Error("Ticks() = 0 after a frame 80ms in")
	}
	if m.capture.Count() == 0 {
		t.Error("nothing was drawn")
	}
}

func TestAnimateKeys(t *testing.T) {
	m := newTestAnimateModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.engine.Running() {
		t.Error("space should pause")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("status should say paused")
	}

	ticks := m.engine.Ticks()
	time.Sleep(50 * time.Millisecond)
	m.Update(frameMsg(time.Now()))
	if m.engine.Ticks() != ticks {
		t.Errorf("Ticks() = %d while paused, want %d", m.engine.Ticks(), ticks)
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.engine.Running() {
		t.Error("space should resume")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
