// Command primc compiles the primitive shader programs with naga.
//
// Usage:
//
//	primc [options] [program...]
//
// Examples:
//
//	primc                                # Validate every program
//	primc -target msl -o out circle      # Write out/circle.msl
//	primc -target glsles -o out          # Write both stages of every program
//	primc -E rings                       # Print rings.wgsl with includes expanded
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/prim2d"
	"github.com/gogpu/prim2d/shaders"
)

var (
	target     = flag.String("target", "spirv", "output language: spirv, msl, glsl, glsles, hlsl")
	stage      = flag.String("stage", "", "entry point for per-stage targets: vertex, fragment (default: both)")
	output     = flag.String("o", "", "output directory (default: validate only)")
	dir        = flag.String("dir", "", "directory of .wgsl files overriding the embedded sources")
	preprocess = flag.Bool("E", false, "print resolved WGSL instead of compiling")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	lib := shaders.NewLibrary()
	if *dir != "" {
		if err := lib.LoadFS(os.DirFS(*dir), "."); err != nil {
			fatalf("Error loading sources: %v", err)
		}
	}

	names, err := programNames(flag.Args())
	if err != nil {
		fatalf("Error: %v", err)
	}

	if *preprocess {
		for _, name := range names {
			src, err := lib.Source(name)
			if err != nil {
				fatalf("Error: %v", err)
			}
			fmt.Print(src)
		}
		return
	}

	t, err := shaders.ParseTarget(*target)
	if err != nil {
		fatalf("Error: %v", err)
	}
	stages, err := parseStages(t, *stage)
	if err != nil {
		fatalf("Error: %v", err)
	}

	if *output != "" {
		if err := os.MkdirAll(*output, 0o755); err != nil {
			fatalf("Error creating output directory: %v", err)
		}
	}

	failed := false
	for _, name := range names {
		for _, s := range stages {
			out, err := lib.Compile(name, t, s)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
				failed = true
				continue
			}
			if *output == "" {
				fmt.Printf("%s: ok (%s, %d bytes)\n", label(out), t, len(out.Code))
				continue
			}
			path := filepath.Join(*output, fileName(out))
			if err := os.WriteFile(path, out.Code, 0o644); err != nil { //nolint:gosec // generated shader output
				fatalf("Error writing output: %v", err)
			}
			fmt.Printf("Compiled %s to %s (%d bytes)\n", out.Name, path, len(out.Code))
		}
	}
	if failed {
		os.Exit(1)
	}
}

// programNames maps program names ("circle") or source names
// ("circle.wgsl") to source names. No arguments selects every program.
func programNames(args []string) ([]string, error) {
	programs := prim2d.Programs()
	if len(args) == 0 {
		names := make([]string, len(programs))
		for i, p := range programs {
			names[i] = p.Shader
		}
		return names, nil
	}

	names := make([]string, 0, len(args))
next:
	for _, arg := range args {
		for _, p := range programs {
			if arg == p.Name || arg == p.Shader {
				names = append(names, p.Shader)
				continue next
			}
		}
		if strings.HasSuffix(arg, ".wgsl") {
			names = append(names, arg)
			continue
		}
		return nil, fmt.Errorf("unknown program %q", arg)
	}
	return names, nil
}

func parseStages(t shaders.Target, s string) ([]shaders.Stage, error) {
	if !t.PerStage() {
		return []shaders.Stage{shaders.StageVertex}, nil
	}
	switch strings.ToLower(s) {
	case "":
		return []shaders.Stage{shaders.StageVertex, shaders.StageFragment}, nil
	case "vertex", "vert":
		return []shaders.Stage{shaders.StageVertex}, nil
	case "fragment", "frag":
		return []shaders.Stage{shaders.StageFragment}, nil
	}
	return nil, fmt.Errorf("unknown stage %q", s)
}

var extensions = map[shaders.Target]string{
	shaders.TargetSPIRV:  "spv",
	shaders.TargetMSL:    "metal",
	shaders.TargetGLSL:   "glsl",
	shaders.TargetGLSLES: "glsl",
	shaders.TargetHLSL:   "hlsl",
}

func label(out shaders.Output) string {
	if out.Target.PerStage() {
		return out.Name + ":" + out.Stage.String()
	}
	return out.Name
}

func fileName(out shaders.Output) string {
	base := strings.TrimSuffix(out.Name, ".wgsl")
	ext := extensions[out.Target]
	switch {
	case !out.Target.PerStage():
		return base + "." + ext
	case out.Stage == shaders.StageFragment:
		return base + ".frag." + ext
	default:
		return base + ".vert." + ext
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: primc [options] [program...]\n\n")
	fmt.Fprintf(os.Stderr, "Programs: ")
	for i, p := range prim2d.Programs() {
		if i > 0 {
			fmt.Fprint(os.Stderr, ", ")
		}
		fmt.Fprint(os.Stderr, p.Name)
	}
	fmt.Fprintf(os.Stderr, "\n\nOptions:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  primc                           Validate every program\n")
	fmt.Fprintf(os.Stderr, "  primc -target msl -o out circle Write out/circle.metal\n")
	fmt.Fprintf(os.Stderr, "  primc -E rings                  Print resolved WGSL\n")
}
