package pyramsey

// Copyright 2018 The go-python Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-python/gpython/py"

	"github.com/ramsey-systems/goramsey/goramsey"
	"github.com/ramsey-systems/goramsey/libramsey"
	"github.com/ramsey-systems/goramsey/libramsey/catalog"
)

var (
	WorkspaceType = py.NewType("Workspace", "collects active session resources and catalogs")
)

// Arg 1 (str): seed graph expr
// Arg 2 (int): max vertex count to walk out to
// Arg 3 (int): clique size that all emitted graphs must lack
func ph_EnumChains(module py.Object, args py.Tuple) (py.Object, error) {
	var seedExpr string
	var vtxMax, cliqueSize int32
	err := py.LoadTuple(args, []interface{}{&seedExpr, &vtxMax, &cliqueSize})
	if err != nil {
		return nil, err
	}

	opts := libramsey.DefaultChainOpts
	opts.VertexMax = int(vtxMax)
	opts.Extend.CliqueSize = int(cliqueSize)

	cw, err := libramsey.NewChainWalker(seedExpr, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	go cw.WalkChains()

	return py.Object(cw.ChainStream), nil
}

func getGraphFromGraphObj(obj py.Object) (X *libramsey.Graph, err error) {
	if obj.Type().Name != "Graph" {
		err = py.ExceptionNewf(py.TypeError, "expected Graph object (got %v)", obj.Type().Name)
		return
	}
	var attr py.Object
	attr, err = py.GetAttrString(obj, "_graph")
	if err != nil {
		return
	}
	X = attr.(*libramsey.Graph)
	return
}

// Arg 1 (str, optional): graph expr to init from
func ph_NewGraph(module py.Object, args py.Tuple) (py.Object, error) {
	X := libramsey.NewGraph(nil)
	if len(args) > 0 {
		if expr, ok := args[0].(py.String); ok && len(expr) > 0 {
			if err := X.InitFromExpr(string(expr)); err != nil {
				X.Reclaim()
				return nil, py.ExceptionNewf(py.ValueError, "%v", err)
			}
		}
	}
	return py.Object(X), nil
}

func ph_Graph_NumVerts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(*libramsey.Graph)
	return py.Object(py.Int(X.VertexCount())), nil
}

func ph_Graph_Expr(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(*libramsey.Graph)
	return py.Object(py.String(X.GraphExpr())), nil
}

func ph_Graph_Traces(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(*libramsey.Graph)
	numTraces := 0
	if len(args) > 0 {
		numTraces = int(args[0].(py.Int))
	}

	TX := X.Traces(numTraces)

	N := len(TX)
	traces := make(py.Tuple, N)
	for i, tr := range TX {
		traces[i] = py.Int(tr)
	}

	return py.Object(traces), nil
}

func ph_Graph_Stream(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(*libramsey.Graph)
	next := libramsey.StreamGraph(X)
	return py.Object(next), nil
}

// Arg 1 (int): clique size the extended graph must lack
// Arg 2 (int, optional): prefix width for the filter space
//
// Returns the extended Graph, or None when the search space is exhausted.
func ph_Graph_Extend(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(*libramsey.Graph)

	opts := libramsey.DefaultExtendOpts
	if len(args) > 0 {
		k, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		opts.CliqueSize = int(k)
	}
	if len(args) > 1 {
		w, err := py.GetInt(args[1])
		if err != nil {
			return nil, err
		}
		opts.PrefixWidth = int(w)
	}

	XL, res, err := X.Extend(opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	if res.Outcome != libramsey.ExtendFound {
		return py.None, nil
	}
	return py.Object(XL), nil
}

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx libramsey.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return WorkspaceType
}

func ph_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: libramsey.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func ph_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
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

func ph_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags, minTraceCount, cliqueSize int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags, &minTraceCount, &cliqueSize})
	if err != nil {
		return nil, err
	}

	opts := libramsey.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
		TraceCount: minTraceCount,
		CliqueSize: cliqueSize,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	return py.Object(cat), nil
}

func ph_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(libramsey.Catalog)
	if cat != nil {
		cat.Close()
	}
	return py.None, nil
}

func ph_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(libramsey.Catalog)
	sel := libramsey.DefaultGraphSelector
	if len(args) > 0 {
		err := getGraphSelector(args[0], &sel)
		if err != nil {
			return nil, err
		}
	}

	next := libramsey.SelectFromCatalog(cat, sel)
	return py.Object(next), nil
}

func ph_Catalog_NumTraces(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(libramsey.Catalog)

	Nv, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}

	numTraces := cat.NumTraces(byte(Nv))
	return py.Int(numTraces), nil
}

func ph_Catalog_NumGraphs(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(libramsey.Catalog)

	Nv, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}

	numGraphs := cat.NumGraphs(byte(Nv))
	return py.Int(numGraphs), nil
}

func ph_GraphStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(*libramsey.GraphStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	var (
		n   int
		err error
	)
	if echo.to == nil {
		n, err = echo.stdout.Write(buf)
	} else {
		n, err = echo.to.Write(buf)
	}
	return n, err
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

func openOutputFile(pathname string) (io.WriteCloser, error) {
	os.MkdirAll(filepath.Dir(pathname), 0700)

	file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
	}
	return file, nil
}

// See lib/pyramsey.py Print() docs
func ph_GraphStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(*libramsey.GraphStream)
	var pathname string

	opts := libramsey.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	// TODO: hang the output counter off the Workspace so labels reset per session
	atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", gOutCount)
	}

	py.LoadAttr(kwargs, "traces", &opts.NumTraces)
	py.LoadAttr(kwargs, "matrix", &opts.Matrix)
	py.LoadAttr(kwargs, "graph", &opts.Graph)
	py.LoadAttr(kwargs, "cliques", &opts.Cliques)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		file, err := openOutputFile(pathname)
		if err != nil {
			return nil, err
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return py.Object(next), nil
}

func ph_GraphStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(*libramsey.GraphStream)
	attr, err := py.GetAttrString(args[0], "_cat")
	if err != nil {
		return nil, err
	}
	cat := attr.(libramsey.Catalog)
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "catalog is open read-only")
	}

	next := stream.AddTo(cat, libramsey.AddGraphOpts{})
	return py.Object(next), nil
}

func ph_GraphStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(*libramsey.GraphStream)

	// Memory-resident dupe set that gets auto-closed when the stream closes
	set := libramsey.NewDropDupes(libramsey.DropDupeOpts{})
	opts := libramsey.AddGraphOpts{
		AutoCloseCatalog: true,
	}

	next := stream.AddTo(set, opts)
	return py.Object(next), nil
}

func ph_GraphStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	sel := libramsey.DefaultGraphSelector
	err := getGraphSelector(args[0], &sel)
	if err != nil {
		return nil, err
	}
	stream := self.(*libramsey.GraphStream)
	next := stream.SelectFromStream(sel)
	return py.Object(next), nil
}

// Arg 1 (int): clique size the extended graphs must lack
// Arg 2 (int, optional): prefix width for the filter space
func ph_GraphStream_Extend(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(*libramsey.GraphStream)

	opts := libramsey.DefaultExtendOpts
	if len(args) > 0 {
		k, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		opts.CliqueSize = int(k)
	}
	if len(args) > 1 {
		w, err := py.GetInt(args[1])
		if err != nil {
			return nil, err
		}
		opts.PrefixWidth = int(w)
	}

	next := stream.Extend(opts)
	return py.Object(next), nil
}

// Arg 1 (int): largest clique size to tally
func ph_GraphStream_Census(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(*libramsey.GraphStream)

	maxCliqueSize := 4
	if len(args) > 0 {
		k, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		maxCliqueSize = int(k)
	}

	var pathname string
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		file, err := openOutputFile(pathname)
		if err != nil {
			return nil, err
		}
		writer.to = file
	}

	next := stream.Census(maxCliqueSize, writer)
	return py.Object(next), nil
}

func init() {

	/////////////////////////////////
	// Graph
	{
		libramsey.GraphType.Dict["Traces"] = py.MustNewMethod("Traces", ph_Graph_Traces, 0, "exports this Graph's Traces as a tuple of ints")
		libramsey.GraphType.Dict["NumVerts"] = py.MustNewMethod("NumVerts", ph_Graph_NumVerts, 0, "")
		libramsey.GraphType.Dict["Expr"] = py.MustNewMethod("Expr", ph_Graph_Expr, 0, "")
		libramsey.GraphType.Dict["Stream"] = py.MustNewMethod("Stream", ph_Graph_Stream, 0, "")
		libramsey.GraphType.Dict["Extend"] = py.MustNewMethod("Extend", ph_Graph_Extend, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		libramsey.CatalogType.Dict["Select"] = py.MustNewMethod("Select", ph_Catalog_Select, 0, "")
		libramsey.CatalogType.Dict["NumTraces"] = py.MustNewMethod("NumTraces", ph_Catalog_NumTraces, 0, "")
		libramsey.CatalogType.Dict["NumGraphs"] = py.MustNewMethod("NumGraphs", ph_Catalog_NumGraphs, 0, "")
		libramsey.CatalogType.Dict["Close"] = py.MustNewMethod("Close", ph_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		WorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", ph_Workspace_OpenCatalog, 0, "")
		WorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", ph_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// GraphStream
	{
		libramsey.GraphStreamType.Dict["Go"] = py.MustNewMethod("Go", ph_GraphStream_Go, 0, "counts the number of graphs output from the GraphStream")
		libramsey.GraphStreamType.Dict["Print"] = py.MustNewMethod("Print", ph_GraphStream_Print, 0, "prints each graph from the GraphStream")
		libramsey.GraphStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", ph_GraphStream_AddTo, 0, "")
		libramsey.GraphStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", ph_GraphStream_DropDupes, 0, "")
		libramsey.GraphStreamType.Dict["Select"] = py.MustNewMethod("Select", ph_GraphStream_Select, 0, "")
		libramsey.GraphStreamType.Dict["Extend"] = py.MustNewMethod("Extend", ph_GraphStream_Extend, 0, "")
		libramsey.GraphStreamType.Dict["Census"] = py.MustNewMethod("Census", ph_GraphStream_Census, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewGraph", ph_NewGraph, 0, ""),
			py.MustNewMethod("EnumChains", ph_EnumChains, 0, ""),
			py.MustNewMethod("GetWorkspace", ph_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(libramsey.LIB_VERSION),
			"PY_VERSION":  py.String("v3.4.0"),
			"MAX_VTX":     py.Int(goramsey.MaxVtxCount),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pyramsey",
				Doc:  "Ramsey graph extension search gpython module",
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

func intAttr(obj py.Object, key string, min, max int64) int64 {
	attr, err := py.GetAttrString(obj, key)
	if err != nil {
		panic(err)
	}
	val, _ := py.GetInt(attr)
	intVal := int64(val)
	if intVal < min {
		intVal = min
	}
	if intVal > max {
		intVal = max
	}
	return intVal
}

func byteAttr(obj py.Object, attr string) byte {
	return byte(intAttr(obj, attr, 0, 255))
}

func edgeCountAttr(obj py.Object, attr string) uint16 {
	return uint16(intAttr(obj, attr, 0, int64(goramsey.MaxEdges)))
}

func exportGraphInfo(graphInfo py.Object) libramsey.GraphInfo {
	info := libramsey.GraphInfo{
		NumVerts:  byteAttr(graphInfo, "verts"),
		RedEdges:  edgeCountAttr(graphInfo, "red_edges"),
		BlueEdges: edgeCountAttr(graphInfo, "blue_edges"),
	}
	return info
}

func getGraphSelector(graph_selector py.Object, sel *libramsey.GraphSelector) error {

	info, err := py.GetAttrString(graph_selector, "min")
	if err != nil {
		return err
	}
	sel.Min = exportGraphInfo(info)

	info, err = py.GetAttrString(graph_selector, "max")
	if err != nil {
		return err
	}
	sel.Max = exportGraphInfo(info)

	if err = py.LoadAttr(graph_selector, "unique_traces", &sel.UniqueTraces); err != nil {
		return err
	}

	if err = py.LoadAttr(graph_selector, "circulant", &sel.SelectCirculant); err != nil {
		return err
	}

	if err = py.LoadAttr(graph_selector, "balanced", &sel.SelectBalanced); err != nil {
		return err
	}

	tracesObj, err := py.GetAttrString(graph_selector, "traces")
	if err != nil {
		return err
	}

	switch tracesObj.(type) {
	case py.NoneType:
		sel.Traces = nil
	default:
		X, err := getGraphFromGraphObj(tracesObj)
		if err != nil {
			return err
		}
		sel.Min.NumVerts = byte(X.VertexCount())
		sel.Max.NumVerts = byte(X.VertexCount())
		sel.Traces = X
	}

	return nil
}
