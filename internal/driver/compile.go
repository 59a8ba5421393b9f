// Package driver orchestrates a compilation: parallel parsing,
// sequential lowering and linking, and generation gated on a clean
// diagnostic bag. The driver never touches the filesystem for inputs;
// callers hand it display paths with in-memory content.
package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bproto/internal/ast"
	"bproto/internal/codegen"
	"bproto/internal/codegen/gdgen"
	"bproto/internal/codegen/rustgen"
	"bproto/internal/diag"
	"bproto/internal/ir"
	"bproto/internal/linker"
	"bproto/internal/lower"
	"bproto/internal/parser"
	"bproto/internal/source"
)

// Input is one schema file to compile.
type Input struct {
	Path    string // display path used in diagnostics
	Content []byte
}

// Options configures a compilation.
type Options struct {
	// Target selects the backend ("rust", "gdscript"). Empty means
	// check only: parse, lower and link without generating.
	Target string
	// Sink receives generated files. Defaults to an in-memory sink.
	Sink codegen.Sink
	// MaxDiagnostics caps the diagnostics per file. 0 means unlimited.
	MaxDiagnostics int
	// Jobs caps parse parallelism. 0 means GOMAXPROCS.
	Jobs int
	// Cache, when set, short-circuits clean compilations whose inputs
	// and target were seen before.
	Cache *DiskCache
	// Progress, when set, receives per-file and per-stage events.
	Progress ProgressSink
}

// Result is the outcome of one compilation.
type Result struct {
	// Ok reports whether the run produced no errors.
	Ok bool
	// Outputs maps generated file paths to content. Empty when Ok is
	// false or no target was selected.
	Outputs map[string][]byte
	// Diagnostics holds every diagnostic, sorted and deduplicated.
	Diagnostics []diag.Diagnostic
	// Schema is the linked schema, present even on failed runs.
	Schema *ir.Schema
	// FileSet resolves the spans inside Diagnostics.
	FileSet *source.FileSet
	// CacheHit reports that Outputs came from the disk cache.
	CacheHit bool
}

// Backends returns the selectable target names.
func Backends() []string {
	return []string{"rust", "gdscript"}
}

func backendFor(target string) (codegen.Backend, error) {
	switch target {
	case "rust":
		return rustgen.New(), nil
	case "gdscript":
		return gdgen.New(), nil
	default:
		return nil, fmt.Errorf("unknown target %q (have: rust, gdscript)", target)
	}
}

// Compile runs the full pipeline over inputs.
func Compile(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	fileSet := source.NewFileSet()
	ids := make([]source.FileID, len(inputs))
	for i, in := range inputs {
		ids[i] = fileSet.AddVirtual(in.Path, in.Content)
	}

	if opts.Target != "" && opts.Cache != nil {
		if res, ok := lookupCache(opts.Cache, fileSet, ids, opts.Target); ok {
			res.FileSet = fileSet
			for _, in := range inputs {
				emit(opts.Progress, Event{File: in.Path, Stage: StageGenerate, Status: StatusDone})
			}
			return res, nil
		}
	}

	// Parse every file in parallel. Results land at their input index,
	// so diagnostic order stays stable no matter how goroutines are
	// scheduled.
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	parsed := make([]*ast.File, len(inputs))
	bags := make([]*diag.Bag, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(inputs), 1)))
	for i := range inputs {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(opts.Progress, Event{File: inputs[i].Path, Stage: StageParse, Status: StatusWorking})
			bag := diag.NewBag(opts.MaxDiagnostics)
			maxErrors := uint(0)
			if opts.MaxDiagnostics > 0 {
				maxErrors = uint(opts.MaxDiagnostics)
			}
			parsed[i] = parser.ParseFile(fileSet, fileSet.Get(ids[i]), parser.Options{
				MaxErrors: maxErrors,
				Reporter:  diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
			})
			bags[i] = bag
			status := StatusDone
			if bag.HasErrors() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: inputs[i].Path, Stage: StageParse, Status: status})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Lowering and linking are sequential: fragment order defines
	// package order, and the linker wants the whole picture anyway.
	total := diag.NewBag(0)
	for _, bag := range bags {
		total.Merge(bag)
	}
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: total})

	emit(opts.Progress, Event{Stage: StageLower, Status: StatusWorking})
	fragments := make([]*ir.Package, len(inputs))
	for i, in := range inputs {
		fragments[i] = lower.File(in.Path, parsed[i], rep)
	}
	emit(opts.Progress, Event{Stage: StageLink, Status: StatusWorking})
	schema := linker.Link(fragments, rep)

	total.Dedup()
	total.Sort()

	res := &Result{
		Ok:          !total.HasErrors(),
		Diagnostics: total.Items(),
		Schema:      schema,
		FileSet:     fileSet,
	}

	// Generation runs only on a clean link and only when a target was
	// asked for.
	if !res.Ok || opts.Target == "" {
		status := StatusDone
		if !res.Ok {
			status = StatusError
		}
		emit(opts.Progress, Event{Stage: StageLink, Status: status})
		return res, nil
	}
	emit(opts.Progress, Event{Stage: StageGenerate, Status: StatusWorking})

	backend, err := backendFor(opts.Target)
	if err != nil {
		total.Add(diag.NewError(diag.PhaseGenerate, diag.GenNoSuchTarget, source.Span{}, err.Error()))
		res.Ok = false
		res.Diagnostics = total.Items()
		emit(opts.Progress, Event{Stage: StageGenerate, Status: StatusError})
		return res, nil
	}

	sink := opts.Sink
	if sink == nil {
		sink = codegen.NewBufferSink()
	}
	outputs, err := codegen.Generate(schema, backend, sink)
	if err != nil {
		total.Add(diag.NewError(diag.PhaseGenerate, diag.GenSinkFailure, source.Span{}, err.Error()))
		res.Ok = false
		res.Diagnostics = total.Items()
		emit(opts.Progress, Event{Stage: StageGenerate, Status: StatusError})
		return res, nil
	}
	res.Outputs = outputs
	emit(opts.Progress, Event{Stage: StageGenerate, Status: StatusDone})

	if opts.Cache != nil && len(total.Items()) == 0 {
		storeCache(opts.Cache, fileSet, ids, opts.Target, outputs)
	}
	return res, nil
}
