package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/meshdrift/pkg/errors"
	"github.com/matzehuels/meshdrift/pkg/theme"
)

func TestDefaultIsValid(t *testing.T) {
	o := Default()
	if err := o.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if o.TickHz != DefaultTickHz {
		t.Errorf("TickHz = %v, want %v", o.TickHz, DefaultTickHz)
	}
	if o.MaxTicksPerFrame != 2 {
		t.Errorf("MaxTicksPerFrame = %d, want 2", o.MaxTicksPerFrame)
	}
	if got := o.StepMs(); got != 1000.0/30 {
		t.Errorf("StepMs() = %v, want %v", got, 1000.0/30)
	}
}

func TestSetDefaultsIdempotent(t *testing.T) {
	a := Default()
	b := Default()
	b.SetDefaults()
	if !reflect.DeepEqual(a, b) {
		t.Error("SetDefaults changed already-defaulted options")
	}
}

func TestRoundTrip(t *testing.T) {
	want := Default()
	want.Seed = 99
	want.Theme.Pulse = theme.RGB{R: 1, G: 2, B: 3}

	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, want)
	}
}

func TestDecodePartial(t *testing.T) {
	src := `
seed = 7
tick_hz = 60

[theme]
node = "#ff0000"

[pulse]
pool_size = 40
`
	o, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if o.Seed != 7 || o.TickHz != 60 {
		t.Errorf("seed/tick_hz = %d/%v, want 7/60", o.Seed, o.TickHz)
	}
	if o.Theme.Node != (theme.RGB{R: 255}) {
		t.Errorf("Theme.Node = %v, want 255, 0, 0", o.Theme.Node)
	}
	if o.Theme.Edge != theme.DefaultEdge {
		t.Errorf("Theme.Edge = %v, want default", o.Theme.Edge)
	}
	if o.Pulse.PoolSize != 40 {
		t.Errorf("PoolSize = %d, want 40", o.Pulse.PoolSize)
	}
	if len(o.Motion.Bands) != 3 {
		t.Errorf("bands = %d, want defaults", len(o.Motion.Bands))
	}
}

func TestDecodeSeed(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want uint64
	}{
		{"missing", "tick_hz = 30\n", DefaultSeed},
		{"empty file", "", DefaultSeed},
		{"explicit zero", "seed = 0\n", 0},
		{"explicit", "seed = 42\n", 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Decode(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if o.Seed != tt.want {
				t.Errorf("Seed = %d, want %d", o.Seed, tt.want)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "colour = 3\n"},
		{"fractional cycles", "[motion]\n[[motion.bands]]\nz_min = 0\nz_max = 1\nmoving = true\ncycles_per_loop = 1.5\ndirection = 1\n"},
		{"zero cycles", "[motion]\n[[motion.bands]]\nz_min = 0\nz_max = 1\nmoving = true\ncycles_per_loop = 0\ndirection = 1\n"},
		{"pool not above cap", "[pulse]\npool_size = 12\n"},
		{"negative tick rate", "tick_hz = -5\n"},
		{"bad colour", "[theme]\nedge = \"nope\"\n"},
		{"syntax", "seed = = 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Decode() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) = %v, want NOT_FOUND", err)
	}

	path := filepath.Join(dir, "meshdrift.toml")
	if err := os.WriteFile(path, []byte("seed = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if o.Seed != 5 {
		t.Errorf("Seed = %d, want 5", o.Seed)
	}
}
