package goramsey

import "errors"

// Errors
var (
	ErrUnmarshal       = errors.New("unmarshal failed")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrBadEncoding     = errors.New("bad graph encoding")
	ErrBadVtxID        = errors.New("bad graph vertex ID")
	ErrBadEdge         = errors.New("bad graph edge")
	ErrBadGraphExpr    = errors.New("bad graph expression")
	ErrBadMatrixInput  = errors.New("bad matrix input")
	ErrBadExtendOpts   = errors.New("bad extension search params")
	ErrGraphTooBig     = errors.New("graph exceeds max vertex count")
	ErrNilGraph        = errors.New("nil graph")
	ErrSeedHasClique   = errors.New("seed graph already contains a monochromatic clique")
)
