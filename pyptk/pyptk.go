package pyptk

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/2x3systems/ptk/libptk"
	"github.com/2x3systems/ptk/libptk/catalog"
	"github.com/2x3systems/ptk/ptk"
	"github.com/go-python/gpython/py"
	"github.com/pkg/errors"
)

var (
	LIB_VERSION = "v1.2025.1"
)

var (
	pyStateStreamType = py.NewType("StateStream", "ptk.StateStream")
	pyCatalogType     = py.NewType("Catalog", "ptk.Catalog")
	pyWorkspaceType   = py.NewType("Workspace", "collects active session params and catalogs")
)

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

func floatArgs(args py.Tuple, name string, dst ...*float64) error {
	if len(args) != len(dst) {
		return py.ExceptionNewf(py.TypeError, "%s() takes %d arguments (%d given)", name, len(dst), len(args))
	}
	for i, arg := range args {
		val, err := py.FloatAsFloat64(arg)
		if err != nil {
			return err
		}
		*dst[i] = val
	}
	return nil
}

func int32Arg(arg py.Object) (int32, error) {
	val, err := py.GetInt(arg)
	if err != nil {
		return 0, err
	}
	if int64(val) < math.MinInt32 || int64(val) > math.MaxInt32 {
		return 0, py.ExceptionNewf(py.ValueError, "quantum number %d out of range", val)
	}
	return int32(val), nil
}

func uint32Arg(arg py.Object) (uint32, error) {
	val, err := py.GetInt(arg)
	if err != nil {
		return 0, err
	}
	if val < 0 || int64(val) > int64(^uint32(0)) {
		return 0, py.ExceptionNewf(py.ValueError, "level %d out of range", val)
	}
	return uint32(val), nil
}

func vec3Arg(arg py.Object) (v ptk.Vec3, err error) {
	var items []py.Object
	switch x := arg.(type) {
	case py.Tuple:
		items = x
	case *py.List:
		items = x.Items
	default:
		return v, py.ExceptionNewf(py.TypeError, "expected a 3-vector (got %v)", arg.Type().Name)
	}
	if len(items) != 3 {
		return v, py.ExceptionNewf(py.ValueError, "expected a 3-vector (got %d items)", len(items))
	}
	for i, item := range items {
		if v[i], err = py.FloatAsFloat64(item); err != nil {
			return v, err
		}
	}
	return v, nil
}

func vec3Obj(v ptk.Vec3) py.Object {
	return py.Tuple{py.Float(v[0]), py.Float(v[1]), py.Float(v[2])}
}

// quantumArgs reads (m1, m2, w1, w2) from the head of args.
func quantumArgs(args py.Tuple, name string, numFloats int) (q [4]int32, floats []float64, err error) {
	if len(args) != 4+numFloats {
		err = py.ExceptionNewf(py.TypeError, "%s() takes %d arguments (%d given)", name, 4+numFloats, len(args))
		return
	}
	for i := range q {
		if q[i], err = int32Arg(args[i]); err != nil {
			return
		}
	}
	floats = make([]float64, numFloats)
	ptrs := make([]*float64, numFloats)
	for i := range floats {
		ptrs[i] = &floats[i]
	}
	err = floatArgs(args[4:], name, ptrs...)
	return
}

// kk_winding_mass2(m1, m2, w1, w2, r1, r2, alpha_prime)
func py_KKWindingMass2(module py.Object, args py.Tuple) (py.Object, error) {
	q, f, err := quantumArgs(args, "kk_winding_mass2", 3)
	if err != nil {
		return nil, err
	}
	return py.Float(libptk.KKWindingMass2(q[0], q[1], q[2], q[3], f[0], f[1], f[2])), nil
}

// charge_linear_map(m1, m2, w1, w2, c1, c2, d1, d2)
func py_ChargeLinearMap(module py.Object, args py.Tuple) (py.Object, error) {
	q, f, err := quantumArgs(args, "charge_linear_map", 4)
	if err != nil {
		return nil, err
	}
	return py.Float(libptk.ChargeLinearMap(q[0], q[1], q[2], q[3], f[0], f[1], f[2], f[3])), nil
}

func py_Coulomb(module py.Object, args py.Tuple) (py.Object, error) {
	var r, alpha float64
	if err := floatArgs(args, "coulomb", &r, &alpha); err != nil {
		return nil, err
	}
	return py.Float(libptk.Coulomb(r, alpha)), nil
}

func py_Yukawa(module py.Object, args py.Tuple) (py.Object, error) {
	var r, g, m float64
	if err := floatArgs(args, "yukawa", &r, &g, &m); err != nil {
		return nil, err
	}
	return py.Float(libptk.Yukawa(r, g, m)), nil
}

func py_StringLinear(module py.Object, args py.Tuple) (py.Object, error) {
	var r, kappa, c float64
	if err := floatArgs(args, "string_linear", &r, &kappa, &c); err != nil {
		return nil, err
	}
	return py.Float(libptk.StringLinear(r, kappa, c)), nil
}

// mass2_open(level) evaluates against the workspace params
func py_Mass2Open(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "mass2_open() takes 1 argument (%d given)", len(args))
	}
	level, err := uint32Arg(args[0])
	if err != nil {
		return nil, err
	}
	ws := getWorkspace(module)
	return py.Float(libptk.Mass2Open(level, &ws.Params)), nil
}

func py_SpinLabel(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "spin_label() takes 1 argument (%d given)", len(args))
	}
	level, err := uint32Arg(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(libptk.SpinLabelFromLevel(level)), nil
}

func py_LevelMatch(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 2 {
		return nil, py.ExceptionNewf(py.TypeError, "level_match() takes 2 arguments (%d given)", len(args))
	}
	nLeft, err := uint32Arg(args[0])
	if err != nil {
		return nil, err
	}
	nRight, err := uint32Arg(args[1])
	if err != nil {
		return nil, err
	}
	return py.NewBool(libptk.LevelMatchClosed(nLeft, nRight)), nil
}

// boris_step(q_over_m, dt, v, E, B, gamma) -> (vx, vy, vz)
func py_BorisStep(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 6 {
		return nil, py.ExceptionNewf(py.TypeError, "boris_step() takes 6 arguments (%d given)", len(args))
	}
	var qOverM, dt, gamma float64
	if err := floatArgs(py.Tuple{args[0], args[1], args[5]}, "boris_step", &qOverM, &dt, &gamma); err != nil {
		return nil, err
	}
	var vecs [3]ptk.Vec3
	for i := range vecs {
		var err error
		if vecs[i], err = vec3Arg(args[2+i]); err != nil {
			return nil, err
		}
	}
	v := libptk.BorisStep(qOverM, dt, vecs[0], vecs[1], vecs[2], gamma)
	return vec3Obj(v), nil
}

// fieldArg accepts either a constant 3-vector or a callable f(t, x) -> 3-vector.
// The first error raised by a callable is kept in *callErr.
func fieldArg(arg py.Object, name string, callErr *error) (libptk.FieldFunc, error) {
	switch arg.(type) {
	case py.Tuple, *py.List:
		v, err := vec3Arg(arg)
		if err != nil {
			return nil, err
		}
		return func(t float64, x ptk.Vec3) ptk.Vec3 { return v }, nil
	}

	if _, callable := arg.(py.I__call__); !callable {
		return nil, py.ExceptionNewf(py.TypeError, "%s must be a 3-vector or callable (got %v)", name, arg.Type().Name)
	}
	return func(t float64, x ptk.Vec3) ptk.Vec3 {
		if *callErr != nil {
			return ptk.Vec3{}
		}
		res, err := py.Call(arg, py.Tuple{py.Float(t), vec3Obj(x)}, nil)
		if err == nil {
			var v ptk.Vec3
			if v, err = vec3Arg(res); err == nil {
				return v
			}
		}
		*callErr = err
		return ptk.Vec3{}
	}, nil
}

func boolArg(arg py.Object) (bool, error) {
	if b, ok := arg.(py.Bool); ok {
		return bool(b), nil
	}
	val, err := py.GetInt(arg)
	if err != nil {
		return false, err
	}
	return val != 0, nil
}

// integrate_boris(q, m, E, B, x0, v0, dt, steps, relativistic=False, c=1.0) -> (xs, vs)
//
// E and B are constant 3-vectors or callables f(t, x).
func py_IntegrateBoris(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	if len(args) != 8 {
		return nil, py.ExceptionNewf(py.TypeError, "integrate_boris() takes 8 positional arguments (%d given)", len(args))
	}

	opts := libptk.BorisOpts{C: 1.0}
	if err := floatArgs(py.Tuple{args[0], args[1], args[6]}, "integrate_boris", &opts.Charge, &opts.Mass, &opts.Dt); err != nil {
		return nil, err
	}
	steps, err := py.GetInt(args[7])
	if err != nil {
		return nil, err
	}
	if steps < 0 || int64(steps) > math.MaxInt32 {
		return nil, py.ExceptionNewf(py.ValueError, "steps %d out of range", steps)
	}
	opts.Steps = int(steps)

	var callErr error
	if opts.E, err = fieldArg(args[2], "E", &callErr); err != nil {
		return nil, err
	}
	if opts.B, err = fieldArg(args[3], "B", &callErr); err != nil {
		return nil, err
	}
	if opts.X0, err = vec3Arg(args[4]); err != nil {
		return nil, err
	}
	if opts.V0, err = vec3Arg(args[5]); err != nil {
		return nil, err
	}

	for name, val := range kwargs {
		switch name {
		case "relativistic":
			if opts.Relativistic, err = boolArg(val); err != nil {
				return nil, err
			}
		case "c":
			if opts.C, err = py.FloatAsFloat64(val); err != nil {
				return nil, err
			}
		default:
			return nil, py.ExceptionNewf(py.TypeError, "integrate_boris() got an unexpected keyword argument %q", name)
		}
	}

	xs, vs := libptk.IntegrateBoris(opts)
	if callErr != nil {
		return nil, callErr
	}

	xList := make([]py.Object, len(xs))
	vList := make([]py.Object, len(vs))
	for i := range xs {
		xList[i] = vec3Obj(xs[i])
		vList[i] = vec3Obj(vs[i])
	}
	return py.Tuple{py.NewListFromItems(xList), py.NewListFromItems(vList)}, nil
}

type Workspace struct {
	CatalogCtx ptk.CatalogContext
	Params     ptk.Params
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func getWorkspace(module py.Object) *Workspace {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: ptk.NewCatalogContext(),
			Params:     ptk.DefaultParams(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj.(*Workspace)
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	return getWorkspace(module), nil
}

func paramFields(p *ptk.Params) map[string]*float64 {
	return map[string]*float64{
		"alpha_prime": &p.AlphaPrime,
		"a_open":      &p.AOpen,
		"a_closed":    &p.AClosed,
		"r1":          &p.R1,
		"r2":          &p.R2,
		"c1":          &p.C1,
		"c2":          &p.C2,
		"d1":          &p.D1,
		"d2":          &p.D2,
	}
}

// SetParams(**kwargs) overrides the named params, e.g. ws.SetParams(r1=2.0, d2=0.25)
func py_Workspace_SetParams(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	ws := self.(*Workspace)

	p := ws.Params
	fields := paramFields(&p)
	for name, val := range kwargs {
		field := fields[name]
		if field == nil {
			return nil, py.ExceptionNewf(py.KeyError, "unknown param %q", name)
		}
		x, err := py.FloatAsFloat64(val)
		if err != nil {
			return nil, err
		}
		*field = x
	}
	if err := p.Validate(); err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	ws.Params = p
	return py.None, nil
}

func py_Workspace_LoadParams(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	p, err := ptk.LoadParams(pathname)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	ws.Params = p
	return py.None, nil
}

func py_Workspace_Params(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	p := ws.Params
	dict := py.StringDict{}
	for name, field := range paramFields(&p) {
		dict[name] = py.Float(*field)
	}
	return dict, nil
}

// Enumerate(range_expr [, workers]) streams the admissible states of the given range expression.
func py_Workspace_Enumerate(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var (
		expr    string
		workers int32
	)
	err := py.LoadTuple(args, []interface{}{&expr, &workers})
	if err != nil {
		return nil, err
	}

	rx, err := libptk.ParseRangeExpr(expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}

	states, err := libptk.EnumerateStatesParallel(context.Background(), &ws.Params, rx.Levels, rx.M, rx.W, int(workers))
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return wrapStateStream(ptk.StreamStates(states)), nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// OpenCatalog(pathname, flags) opens a catalog keyed to the workspace params; an empty pathname is in-memory.
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := ptk.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
		Params:     ws.Params,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	pyCat := pyCatalog{cat}
	return py.Object(pyCat), nil
}

type pyCatalog struct {
	ptk.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_Select(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	cat := self.(pyCatalog)
	sel := ptk.DefaultStateSelector
	if err := getStateSelector(kwargs, &sel); err != nil {
		return nil, err
	}

	next := ptk.SelectFromCatalog(cat, sel)
	return wrapStateStream(next), nil
}

func py_Catalog_NumStates(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "NumStates() takes 1 argument (%d given)", len(args))
	}
	level, err := uint32Arg(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumStates(level)), nil
}

func py_Catalog_PutDocument(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	var raw string
	err := py.LoadTuple(args, []interface{}{&raw})
	if err != nil {
		return nil, err
	}
	digest, err := cat.PutDocument([]byte(raw))
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.String(digest), nil
}

func py_Catalog_GetDocument(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	var digest string
	err := py.LoadTuple(args, []interface{}{&digest})
	if err != nil {
		return nil, err
	}
	raw, err := cat.GetDocument(digest)
	if errors.Is(err, ptk.ErrDocumentNotFound) {
		return nil, py.ExceptionNewf(py.KeyError, "%v", err)
	}
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.String(raw), nil
}

type stateStream struct {
	*ptk.StateStream
}

func (stream stateStream) Type() *py.Type {
	return pyStateStreamType
}

func wrapStateStream(stream *ptk.StateStream) py.Object {
	return py.Object(stateStream{stream})
}

func py_StateStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(stateStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

// List drains the stream into a list of (level, m1, m2, w1, w2, mass, q) tuples.
func py_StateStream_List(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(stateStream)

	var items []py.Object
	for _, s := range stream.Collect() {
		items = append(items, py.Tuple{
			py.Int(s.Level),
			py.Int(s.M1),
			py.Int(s.M2),
			py.Int(s.W1),
			py.Int(s.W2),
			py.Float(s.Mass),
			py.Float(s.Q),
		})
	}
	return py.NewListFromItems(items), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

// Print([label], label=, mass2=, charge=, file=) prints each state passing through the stream.
func py_StateStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(stateStream)
	var pathname string

	opts := ptk.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	outCount := atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", outCount)
	}

	py.LoadAttr(kwargs, "mass2", &opts.Mass2)
	py.LoadAttr(kwargs, "charge", &opts.Charge)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapStateStream(next), nil
}

func py_StateStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(stateStream)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "AddTo() takes 1 argument (%d given)", len(args))
	}
	cat, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", args[0].Type().Name)
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", ptk.ErrReadOnly)
	}

	next := stream.AddTo(cat)
	return wrapStateStream(next), nil
}

func py_StateStream_Select(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(stateStream)
	sel := ptk.DefaultStateSelector
	if err := getStateSelector(kwargs, &sel); err != nil {
		return nil, err
	}

	next := stream.Select(sel)
	return wrapStateStream(next), nil
}

// getStateSelector reads level_min, level_max, mass_min, mass_max, q_min and q_max from kwargs.
func getStateSelector(kwargs py.StringDict, sel *ptk.StateSelector) error {
	for name, val := range kwargs {
		var err error
		switch name {
		case "level_min":
			sel.Levels.First, err = uint32Arg(val)
		case "level_max":
			sel.Levels.Last, err = uint32Arg(val)
		case "mass_min":
			sel.MassMin, err = py.FloatAsFloat64(val)
		case "mass_max":
			sel.MassMax, err = py.FloatAsFloat64(val)
		case "q_min":
			sel.QMin, err = py.FloatAsFloat64(val)
		case "q_max":
			sel.QMax, err = py.FloatAsFloat64(val)
		default:
			err = py.ExceptionNewf(py.KeyError, "unknown selector %q", name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (stream stateStream) M__repr__() (py.Object, error) {
	return py.String(fmt.Sprintf("<StateStream %p>", stream.StateStream)), nil
}

func (ws *Workspace) M__repr__() (py.Object, error) {
	return py.String(fmt.Sprintf("<Workspace %+v>", ws.Params)), nil
}

func init() {

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "streams the catalog's states meeting the given bounds")
		pyCatalogType.Dict["NumStates"] = py.MustNewMethod("NumStates", py_Catalog_NumStates, 0, "")
		pyCatalogType.Dict["PutDocument"] = py.MustNewMethod("PutDocument", py_Catalog_PutDocument, 0, "archives a raw PTK document and returns its digest")
		pyCatalogType.Dict["GetDocument"] = py.MustNewMethod("GetDocument", py_Catalog_GetDocument, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["SetParams"] = py.MustNewMethod("SetParams", py_Workspace_SetParams, 0, "")
		pyWorkspaceType.Dict["LoadParams"] = py.MustNewMethod("LoadParams", py_Workspace_LoadParams, 0, "")
		pyWorkspaceType.Dict["Params"] = py.MustNewMethod("Params", py_Workspace_Params, 0, "")
		pyWorkspaceType.Dict["Enumerate"] = py.MustNewMethod("Enumerate", py_Workspace_Enumerate, 0, "")
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// StateStream
	{
		pyStateStreamType.Dict["Go"] = py.MustNewMethod("Go", py_StateStream_Go, 0, "counts the number of states output from the StateStream")
		pyStateStreamType.Dict["List"] = py.MustNewMethod("List", py_StateStream_List, 0, "")
		pyStateStreamType.Dict["Print"] = py.MustNewMethod("Print", py_StateStream_Print, 0, "prints each state from the StateStream")
		pyStateStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_StateStream_AddTo, 0, "")
		pyStateStreamType.Dict["Select"] = py.MustNewMethod("Select", py_StateStream_Select, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("kk_winding_mass2", py_KKWindingMass2, 0, "kk_winding_mass2(m1, m2, w1, w2, r1, r2, alpha_prime)"),
			py.MustNewMethod("charge_linear_map", py_ChargeLinearMap, 0, "charge_linear_map(m1, m2, w1, w2, c1, c2, d1, d2)"),
			py.MustNewMethod("coulomb", py_Coulomb, 0, "coulomb(r, alpha)"),
			py.MustNewMethod("yukawa", py_Yukawa, 0, "yukawa(r, g, m)"),
			py.MustNewMethod("string_linear", py_StringLinear, 0, "string_linear(r, kappa, c)"),
			py.MustNewMethod("mass2_open", py_Mass2Open, 0, "mass2_open(level)"),
			py.MustNewMethod("spin_label", py_SpinLabel, 0, "spin_label(level)"),
			py.MustNewMethod("level_match", py_LevelMatch, 0, "level_match(n_left, n_right)"),
			py.MustNewMethod("boris_step", py_BorisStep, 0, "boris_step(q_over_m, dt, v, E, B, gamma) -> (vx, vy, vz)"),
			py.MustNewMethod("integrate_boris", py_IntegrateBoris, 0, "integrate_boris(q, m, E, B, x0, v0, dt, steps, relativistic=False, c=1.0) -> (xs, vs)"),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"READ_ONLY":   py.Int(READ_ONLY),
			"MIN_RADIUS":  py.Float(libptk.MinRadius),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_ptk",
				Doc:  "string-theory parameter kernel gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
