package libramsey

import (
	"strings"

	"github.com/go-python/gpython/py"
)

// gpython type objects for the engine's core types.  Method dicts are
// populated by the pyramsey module package on registration.
var (
	GraphType       = py.NewType("Graph", "a 2-edge-colored complete graph")
	GraphStreamType = py.NewType("GraphStream", "libramsey.GraphStream")
	CatalogType     = py.NewType("Catalog", "libramsey.Catalog")
)

func (X *Graph) Type() *py.Type {
	return GraphType
}

func (X *Graph) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	X.WriteAsString(&writer, DefaultPrintOpts)
	return py.String(writer.String()), nil
}

func (X *Graph) M__repr__() (py.Object, error) {
	return X.M__str__()
}

func (stream *GraphStream) Type() *py.Type {
	return GraphStreamType
}
