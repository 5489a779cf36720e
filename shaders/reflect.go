package shaders

import (
	"sort"

	"github.com/gogpu/naga/ir"
)

// ResourceKind classifies a bound global.
type ResourceKind uint8

const (
	ResourceUniform ResourceKind = iota
	ResourceTexture
	ResourceSampler
	ResourceOther
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceUniform:
		return "uniform"
	case ResourceTexture:
		return "texture"
	case ResourceSampler:
		return "sampler"
	default:
		return "other"
	}
}

// Resource is one @group/@binding global.
type Resource struct {
	Name    string
	Group   uint32
	Binding uint32
	Kind    ResourceKind
	// Size is the byte size of uniform blocks, 0 otherwise.
	Size uint32
}

// Input is one vertex stage input with a @location.
type Input struct {
	Name       string
	Location   uint32
	Components int
}

// Reflection describes the interface a program declares.
type Reflection struct {
	VertexEntryPoint   string
	FragmentEntryPoint string
	Resources          []Resource // sorted by group, then binding
	VertexInputs       []Input    // sorted by location
}

// Reflect lowers a program and reports its entry points, resource
// bindings and vertex inputs.
func (l *Library) Reflect(name string) (Reflection, error) {
	module, err := l.Module(name)
	if err != nil {
		return Reflection{}, err
	}
	return reflectModule(module), nil
}

func reflectModule(m *ir.Module) Reflection {
	var r Reflection
	for _, ep := range m.EntryPoints {
		switch ep.Stage {
		case ir.StageVertex:
			r.VertexEntryPoint = ep.Name
			r.VertexInputs = vertexInputs(m, &ep.Function)
		case ir.StageFragment:
			r.FragmentEntryPoint = ep.Name
		}
	}

	for _, gv := range m.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		res := Resource{
			Name:    gv.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Kind:    ResourceOther,
		}
		inner := typeInner(m, gv.Type)
		switch t := inner.(type) {
		case ir.ImageType:
			res.Kind = ResourceTexture
		case ir.SamplerType:
			res.Kind = ResourceSampler
		case ir.StructType:
			if gv.Space == ir.SpaceUniform {
				res.Kind = ResourceUniform
				res.Size = t.Span
			}
		}
		r.Resources = append(r.Resources, res)
	}
	sort.Slice(r.Resources, func(i, j int) bool {
		a, b := r.Resources[i], r.Resources[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Binding < b.Binding
	})
	return r
}

func vertexInputs(m *ir.Module, fn *ir.Function) []Input {
	var inputs []Input
	for _, arg := range fn.Arguments {
		if loc, ok := location(arg.Binding); ok {
			inputs = append(inputs, Input{Name: arg.Name, Location: loc, Components: components(m, arg.Type)})
			continue
		}
		st, ok := typeInner(m, arg.Type).(ir.StructType)
		if !ok {
			continue
		}
		for _, mem := range st.Members {
			if loc, ok := location(mem.Binding); ok {
				inputs = append(inputs, Input{Name: mem.Name, Location: loc, Components: components(m, mem.Type)})
			}
		}
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Location < inputs[j].Location })
	return inputs
}

func location(b *ir.Binding) (uint32, bool) {
	if b == nil || *b == nil {
		return 0, false
	}
	switch lb := (*b).(type) {
	case ir.LocationBinding:
		return lb.Location, true
	case *ir.LocationBinding:
		return lb.Location, true
	}
	return 0, false
}

func typeInner(m *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(m.Types) {
		return nil
	}
	return m.Types[h].Inner
}

func components(m *ir.Module, h ir.TypeHandle) int {
	switch t := typeInner(m, h).(type) {
	case ir.ScalarType:
		return 1
	case ir.VectorType:
		return int(t.Size)
	}
	return 0
}
