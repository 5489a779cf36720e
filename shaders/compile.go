package shaders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/prim2d"
)

// ErrUnknownTarget is returned for an unsupported compile target.
var ErrUnknownTarget = errors.New("shaders: unknown target")

// Target is a shading language naga can emit.
type Target uint8

const (
	TargetSPIRV Target = iota
	TargetMSL
	TargetGLSL   // desktop GLSL 3.30
	TargetGLSLES // GLSL ES 3.10
	TargetHLSL
)

var targetNames = map[Target]string{
	TargetSPIRV:  "spirv",
	TargetMSL:    "msl",
	TargetGLSL:   "glsl",
	TargetGLSLES: "glsles",
	TargetHLSL:   "hlsl",
}

func (t Target) String() string {
	if n, ok := targetNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Target(%d)", t)
}

// PerStage reports whether the target emits one output per entry point.
func (t Target) PerStage() bool {
	return t == TargetGLSL || t == TargetGLSLES || t == TargetHLSL
}

// ParseTarget maps a name such as "spirv" or "glsles" to a Target.
func ParseTarget(s string) (Target, error) {
	for t, n := range targetNames {
		if strings.EqualFold(s, n) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownTarget)
}

// Stage selects an entry point of a program.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// EntryPoint returns the entry point name for the stage.
func (s Stage) EntryPoint() string {
	if s == StageFragment {
		return prim2d.FragmentEntryPoint
	}
	return prim2d.VertexEntryPoint
}

// Output is the result of compiling one program.
type Output struct {
	Name   string
	Target Target
	Stage  Stage // meaningful for per-stage targets only
	Code   []byte
	// EntryPoints maps WGSL entry point names to their names in Code.
	EntryPoints map[string]string
}

// Module parses, lowers and validates a resolved program.
func (l *Library) Module(name string) (*ir.Module, error) {
	src, err := l.Source(name)
	if err != nil {
		return nil, err
	}
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("shaders: %s: %w", name, err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("shaders: %s: lower: %w", name, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("shaders: %s: validate: %w", name, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("shaders: %s: validation failed: %w", name, &verrs[0])
	}
	return module, nil
}

type compileKey struct {
	name   string
	target Target
	stage  Stage
	gen    uint64
}

// Compile translates a program to target. The stage selects the entry
// point for GLSL and HLSL; SPIR-V and MSL outputs carry both stages.
//
// Outputs are cached until the sources change, and concurrent calls for
// the same output compile it once. Callers must not modify the returned
// Code or EntryPoints.
func (l *Library) Compile(name string, target Target, stage Stage) (Output, error) {
	if !target.PerStage() {
		stage = StageVertex
	}
	l.mu.RLock()
	key := compileKey{name: name, target: target, stage: stage, gen: l.gen}
	l.mu.RUnlock()

	missed := false
	out, err := l.compiled.GetOrCreate(key, func() (Output, error) {
		missed = true
		return l.compile(name, target, stage)
	})
	if err != nil {
		return Output{}, err
	}
	if missed {
		st := l.compiled.Stats()
		prim2d.Logger().Debug("shaders: compile cache", "entries", st.Len, "hits", st.Hits,
			"misses", st.Misses, "evictions", st.Evictions)
	}
	return out, nil
}

func (l *Library) compile(name string, target Target, stage Stage) (Output, error) {
	module, err := l.Module(name)
	if err != nil {
		return Output{}, err
	}
	out := Output{Name: name, Target: target, Stage: stage}

	switch target {
	case TargetSPIRV:
		code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
		if err != nil {
			return Output{}, fmt.Errorf("shaders: %s: %w", name, err)
		}
		out.Code = code
	case TargetMSL:
		code, info, err := msl.Compile(module, msl.DefaultOptions())
		if err != nil {
			return Output{}, fmt.Errorf("shaders: %s: %w", name, err)
		}
		out.Code, out.EntryPoints = []byte(code), info.EntryPointNames
	case TargetGLSL, TargetGLSLES:
		opts := glsl.DefaultOptions()
		opts.EntryPoint = stage.EntryPoint()
		if target == TargetGLSLES {
			opts.LangVersion = glsl.VersionES310
		}
		code, info, err := glsl.Compile(module, opts)
		if err != nil {
			return Output{}, fmt.Errorf("shaders: %s: %w", name, err)
		}
		out.Code, out.EntryPoints = []byte(code), info.EntryPointNames
	case TargetHLSL:
		opts := hlsl.DefaultOptions()
		opts.EntryPoint = stage.EntryPoint()
		code, info, err := hlsl.Compile(module, opts)
		if err != nil {
			return Output{}, fmt.Errorf("shaders: %s: %w", name, err)
		}
		out.Code = []byte(code)
		if info != nil {
			out.EntryPoints = info.EntryPointNames
		}
	default:
		return Output{}, fmt.Errorf("%v: %w", target, ErrUnknownTarget)
	}

	prim2d.Logger().Debug("shaders: compiled", "name", name, "target", target, "stage", stage, "bytes", len(out.Code))
	return out, nil
}

// ProgramSource returns the resolved WGSL of the program drawing kind.
func (l *Library) ProgramSource(kind prim2d.Kind) (string, error) {
	p, err := prim2d.ProgramFor(kind)
	if err != nil {
		return "", err
	}
	return l.Source(p.Shader)
}
