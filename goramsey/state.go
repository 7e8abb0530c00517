package goramsey

import (
	"github.com/gogo/protobuf/proto"
)

// GraphDef is the canonical storable form of a colored complete graph: its
// order plus the strict upper triangle of its color matrix, packed row-major
// into bytes (vertex pair (i,j), i<j, in ascending (i,j) order; Blue bits set).
//
// Maintained by hand against the gogo runtime; the field tags are the schema.
type GraphDef struct {
	Order   int32  `protobuf:"varint,1,opt,name=order,proto3" json:"order,omitempty"`
	TriBits []byte `protobuf:"bytes,2,opt,name=tri_bits,json=triBits,proto3" json:"tri_bits,omitempty"`
}

func (m *GraphDef) Reset()         { *m = GraphDef{} }
func (m *GraphDef) String() string { return proto.CompactTextString(m) }
func (*GraphDef) ProtoMessage()    {}

func (m *GraphDef) Marshal() ([]byte, error) {
	return proto.Marshal(m)
}

func (m *GraphDef) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, m)
}

// TriBitsLen returns the byte length of a packed upper triangle for the given graph order.
func TriBitsLen(order int) int {
	numEdges := order * (order - 1) / 2
	return (numEdges + 7) / 8
}

// CatalogState holds a catalog's persisted counters, stored under the catalog's state key.
type CatalogState struct {
	MajorVers  int32    `protobuf:"varint,1,opt,name=major_vers,json=majorVers,proto3" json:"major_vers,omitempty"`
	MinorVers  int32    `protobuf:"varint,2,opt,name=minor_vers,json=minorVers,proto3" json:"minor_vers,omitempty"`
	TraceCount int32    `protobuf:"varint,3,opt,name=trace_count,json=traceCount,proto3" json:"trace_count,omitempty"`
	CliqueSize int32    `protobuf:"varint,4,opt,name=clique_size,json=cliqueSize,proto3" json:"clique_size,omitempty"`
	NumTraces  []uint64 `protobuf:"varint,5,rep,packed,name=num_traces,json=numTraces,proto3" json:"num_traces,omitempty"`
	NumGraphs  []uint64 `protobuf:"varint,6,rep,packed,name=num_graphs,json=numGraphs,proto3" json:"num_graphs,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}

func (m *CatalogState) Marshal() ([]byte, error) {
	return proto.Marshal(m)
}

func (m *CatalogState) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, m)
}
