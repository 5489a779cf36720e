package shaders

import (
	"encoding/binary"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/prim2d"
)

// skipUnsupported skips when a naga backend reports a missing feature
// rather than a problem in the program.
func skipUnsupported(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
		t.Skipf("naga backend limitation: %v", err)
	}
}

func TestCompileSPIRV(t *testing.T) {
	lib := NewLibrary()
	for _, p := range prim2d.Programs() {
		t.Run(p.Name, func(t *testing.T) {
			out, err := lib.Compile(p.Shader, TargetSPIRV, StageVertex)
			if err != nil {
				skipUnsupported(t, err)
				t.Fatalf("Compile: %v", err)
			}
			if len(out.Code) < 20 {
				t.Fatalf("SPIR-V too short: %d bytes", len(out.Code))
			}
			if magic := binary.LittleEndian.Uint32(out.Code); magic != 0x07230203 {
				t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x07230203", magic)
			}
		})
	}
}

func TestCompileTextTargets(t *testing.T) {
	lib := NewLibrary()
	tests := []struct {
		target Target
		stage  Stage
		marker string
	}{
		{TargetGLSL, StageVertex, "#version 330"},
		{TargetGLSL, StageFragment, "#version 330"},
		{TargetGLSLES, StageVertex, "#version 310 es"},
		{TargetGLSLES, StageFragment, "#version 310 es"},
		{TargetMSL, StageVertex, "metal"},
		{TargetHLSL, StageVertex, ""},
		{TargetHLSL, StageFragment, ""},
	}
	for _, p := range prim2d.Programs() {
		for _, tt := range tests {
			t.Run(p.Name+"/"+tt.target.String()+"/"+tt.stage.String(), func(t *testing.T) {
				out, err := lib.Compile(p.Shader, tt.target, tt.stage)
				if err != nil {
					skipUnsupported(t, err)
					t.Fatalf("Compile: %v", err)
				}
				if len(out.Code) == 0 {
					t.Fatal("empty output")
				}
				if !strings.Contains(string(out.Code), tt.marker) {
					t.Errorf("output lacks %q", tt.marker)
				}
			})
		}
	}
}

func TestCompileErrors(t *testing.T) {
	lib := NewLibrary()
	if _, err := lib.Compile("missing.wgsl", TargetSPIRV, StageVertex); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing source: %v", err)
	}
	if _, err := lib.Compile("circle.wgsl", Target(99), StageVertex); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("bad target: %v", err)
	}

	lib.Register("broken.wgsl", "fn vs_main( {")
	if _, err := lib.Compile("broken.wgsl", TargetSPIRV, StageVertex); err == nil {
		t.Error("broken WGSL compiled")
	}
}

func TestParseTarget(t *testing.T) {
	for tgt, name := range targetNames {
		got, err := ParseTarget(strings.ToUpper(name))
		if err != nil || got != tgt {
			t.Errorf("ParseTarget(%q) = %v, %v", name, got, err)
		}
		if tgt.PerStage() != (tgt == TargetGLSL || tgt == TargetGLSLES || tgt == TargetHLSL) {
			t.Errorf("%v.PerStage() wrong", tgt)
		}
	}
	if _, err := ParseTarget("dxil"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("ParseTarget(dxil) = %v", err)
	}
}

func TestStageEntryPoints(t *testing.T) {
	if StageVertex.EntryPoint() != "vs_main" || StageFragment.EntryPoint() != "fs_main" {
		t.Error("unexpected entry point names")
	}
}

func TestCompileCache(t *testing.T) {
	lib := NewLibrary()
	first, err := lib.Compile("circle.wgsl", TargetSPIRV, StageVertex)
	if err != nil {
		skipUnsupported(t, err)
		t.Fatalf("Compile: %v", err)
	}
	// SPIR-V carries both stages, so the fragment request shares the entry.
	if _, err := lib.Compile("circle.wgsl", TargetSPIRV, StageFragment); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if s := lib.compiled.Stats(); s.Len != 1 || s.Hits != 1 {
		t.Errorf("cache stats = %+v, want 1 entry and 1 hit", s)
	}

	// Changing a source invalidates the cached output.
	src, err := lib.Raw("circle.wgsl")
	if err != nil {
		t.Fatal(err)
	}
	lib.Register("circle.wgsl", src+"\n// edited\n")
	if n := lib.compiled.Stats().Len; n != 0 {
		t.Errorf("cache holds %d entries after Register", n)
	}
	second, err := lib.Compile("circle.wgsl", TargetSPIRV, StageVertex)
	if err != nil {
		t.Fatalf("Compile after Register: %v", err)
	}
	if len(second.Code) == 0 || len(first.Code) == 0 {
		t.Error("empty SPIR-V output")
	}
}

func TestCompileConcurrentOnce(t *testing.T) {
	lib := NewLibrary()
	if _, err := lib.Compile("rings.wgsl", TargetMSL, StageVertex); err != nil {
		skipUnsupported(t, err)
		t.Fatalf("Compile: %v", err)
	}
	lib.Invalidate()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = lib.Compile("rings.wgsl", TargetMSL, StageVertex)
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("Compile #%d: %v", i, err)
		}
	}
	// One miss before Invalidate, one after it; the rest are hits.
	if s := lib.compiled.Stats(); s.Len != 1 || s.Misses != 2 || s.Hits != 7 {
		t.Errorf("cache stats = %+v, want 1 entry, 2 misses, 7 hits", s)
	}
}

func TestNewLibraryRegister(t *testing.T) {
	lib := newLibrary(map[string]string{"a.wgsl": "// a\n"})
	lib.Register("b.wgsl", "#include <a.wgsl>\n// b\n")
	lib.Invalidate()
	if err := lib.LoadFS(embedded, "."); err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	got, err := lib.Source("b.wgsl")
	if err != nil {
		t.Fatal(err)
	}
	if got != "// a\n// b\n" {
		t.Errorf("Source = %q", got)
	}
}
