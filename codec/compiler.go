package codec

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/bobject/codec/internal/layout"
	"github.com/wippyai/bobject/codec/internal/types"
	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

type storeFunc func(e *Encoder, pos int, v any) error

type readFunc func(src *source, pos int, wide bool) (any, error)

// recordPlan pairs a compiled record with one store and one read closure
// per field. Constants have no store.
type recordPlan struct {
	*types.Record
	stores []storeFunc
	reads  []readFunc
}

// Program is the compiled form of one schema map. It is immutable and safe
// for concurrent use.
type Program struct {
	schema  schema.Map
	records map[string]*recordPlan
	opts    Options
	fp      schema.Fingerprint
}

// Compiler turns schema maps into programs, caching them by fingerprint.
// Thread-safe.
type Compiler struct {
	cache sync.Map // schema.Fingerprint -> *Program
	opts  Options
}

func NewCompiler(opts Options) *Compiler {
	return &Compiler{opts: opts.withDefaults()}
}

var (
	defaultCompiler *Compiler
	defaultOnce     sync.Once
)

// DefaultCompiler returns the process-wide compiler used by the package
// level functions.
func DefaultCompiler() *Compiler {
	defaultOnce.Do(func() {
		defaultCompiler = NewCompiler(DefaultOptions())
	})
	return defaultCompiler
}

// Compile returns the program for m, compiling it on first use. The time
// and duration records are injected. All type resolution happens here;
// an undefined field type is an unknown_type error and no program is
// produced.
func (c *Compiler) Compile(m schema.Map) (*Program, error) {
	m = schema.AddTimeTypes(m)
	fp, err := schema.FingerprintOf(m)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCompile, errors.KindInvalidData, err, "fingerprinting schema")
	}

	if cached, ok := c.cache.Load(fp); ok {
		Logger().Debug("compile cache hit", zap.String("schema", fp.Short()))
		return cached.(*Program), nil
	}

	start := time.Now()
	p, err := compile(m, fp, c.opts)
	if err != nil {
		Logger().Debug("compile failed", zap.String("schema", fp.Short()), zap.Error(err))
		return nil, err
	}

	actual, _ := c.cache.LoadOrStore(fp, p)
	Logger().Debug("compiled schema",
		zap.String("schema", fp.Short()),
		zap.Int("types", len(m)),
		zap.Duration("elapsed", time.Since(start)))
	return actual.(*Program), nil
}

// Evict drops the cached program for fp. Call it when a schema is
// redefined so stale programs are not reused.
func (c *Compiler) Evict(fp schema.Fingerprint) {
	c.cache.Delete(fp)
	Logger().Debug("evicted schema", zap.String("schema", fp.Short()))
}

// Purge drops every cached program.
func (c *Compiler) Purge() {
	c.cache.Clear()
}

// Cached reports whether a program for fp is cached.
func (c *Compiler) Cached(fp schema.Fingerprint) bool {
	_, ok := c.cache.Load(fp)
	return ok
}

func compile(m schema.Map, fp schema.Fingerprint, opts Options) (*Program, error) {
	if err := schema.Validate(m); err != nil {
		return nil, err
	}

	p := &Program{
		schema:  m,
		records: make(map[string]*recordPlan, len(m)),
		opts:    opts,
		fp:      fp,
	}

	// Plans are allocated up front so fields can point at any record,
	// including their own type through an array.
	ids := schema.Identifiers(m)
	names := m.Names()
	for _, name := range names {
		p.records[name] = &recordPlan{Record: &types.Record{Name: name, Ident: ids[name]}}
	}

	calc := layout.NewCalculator(m)
	for _, name := range names {
		if err := p.plan(calc, name); err != nil {
			return nil, err
		}
	}
	for _, name := range names {
		p.bind(p.records[name])
	}
	return p, nil
}

func (p *Program) plan(calc *layout.Calculator, name string) error {
	info, err := calc.Record(name)
	if err != nil {
		return err
	}

	rp := p.records[name]
	fields := p.schema[name].Fields
	rp.Size = info.Size
	rp.Fields = make([]types.Field, len(fields))
	rp.Index = make(map[string]int, len(fields))

	for i, f := range fields {
		size, err := calc.FieldSize(f)
		if err != nil {
			return errors.Wrap(errors.PhaseCompile, errors.KindInvalidData, err, "sizing "+name+"."+f.Name)
		}
		cf := types.Field{
			Schema:   f,
			Name:     f.Name,
			Offset:   info.FieldOffs[f.Name],
			Size:     size,
			FixedLen: -1,
			Kind:     types.KindOf(f.Type),
			IsArray:  f.IsArray,
			IsConst:  f.IsConstant,
		}
		if f.ArrayLength != nil {
			cf.FixedLen = *f.ArrayLength
		}
		if !f.IsConstant {
			elemSize, err := calc.TypeSize(f.Type)
			if err != nil {
				if e, ok := err.(*errors.Error); ok {
					return e.WithPath(name, f.Name)
				}
				return err
			}
			cf.ElemSize = elemSize
			if cf.Kind == types.KindRecord {
				cf.Elem = p.records[f.Type].Record
			}
		}
		rp.Fields[i] = cf
		rp.Index[f.Name] = i
	}
	return nil
}

func (p *Program) bind(rp *recordPlan) {
	rp.stores = make([]storeFunc, len(rp.Fields))
	rp.reads = make([]readFunc, len(rp.Fields))
	for i := range rp.Fields {
		f := &rp.Fields[i]
		if f.IsConst {
			rp.reads[i] = constRead(f.Schema.Value)
			continue
		}
		store, read := p.elemStore(f), p.elemRead(f)
		if f.IsArray {
			store, read = p.arrayStore(f, store), p.arrayRead(f, read)
		}
		rp.stores[i] = store
		rp.reads[i] = read
	}
}

func (p *Program) record(typeName string, phase errors.Phase) (*recordPlan, error) {
	rp, ok := p.records[typeName]
	if !ok {
		return nil, errors.UnknownType(phase, nil, typeName)
	}
	return rp, nil
}

// Fingerprint returns the fingerprint the program is cached under.
func (p *Program) Fingerprint() schema.Fingerprint {
	return p.fp
}

// Schema returns the compiled schema map, time types included. It must
// not be modified.
func (p *Program) Schema() schema.Map {
	return p.schema
}

// Options returns the limits the program enforces.
func (p *Program) Options() Options {
	return p.opts
}

// TypeNames returns the record type names in sorted order.
func (p *Program) TypeNames() []string {
	return p.schema.Names()
}

// FieldLayout describes where a field lives inside its record.
type FieldLayout struct {
	Name       string
	Type       string
	Offset     uint32
	Size       uint32
	ElemSize   uint32
	FixedLen   int
	IsArray    bool
	IsConstant bool
}

// RecordLayout describes the inline layout of a record type.
type RecordLayout struct {
	Name   string
	Ident  string
	Fields []FieldLayout
	Size   uint32
	// Flat records hold only inline primitives.
	Flat bool
}

// Layout returns the inline layout of typeName.
func (p *Program) Layout(typeName string) (RecordLayout, error) {
	rp, err := p.record(typeName, errors.PhaseCompile)
	if err != nil {
		return RecordLayout{}, err
	}
	out := RecordLayout{
		Name:   rp.Name,
		Ident:  rp.Ident,
		Size:   rp.Size,
		Flat:   rp.IsFlat(),
		Fields: make([]FieldLayout, len(rp.Fields)),
	}
	for i, f := range rp.Fields {
		out.Fields[i] = FieldLayout{
			Name:       f.Name,
			Type:       f.Schema.Type,
			Offset:     f.Offset,
			Size:       f.Size,
			ElemSize:   f.ElemSize,
			FixedLen:   f.FixedLen,
			IsArray:    f.IsArray,
			IsConstant: f.IsConst,
		}
	}
	return out, nil
}
