package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/plan-systems/klog"

	"github.com/ramsey-systems/goramsey/goramsey"
	"github.com/ramsey-systems/goramsey/libramsey"
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	var (
		order      = flag.Int("order", 0, "vertex count of the matrix")
		cliqueSize = flag.Int("clique", 3, "largest clique size to tally")
		input      = flag.String("in", "", "matrix text file to read (default stdin)")
		list       = flag.Bool("list", false, "list each monochromatic clique")
	)
	flag.Parse()

	if *order < 1 {
		klog.Fatalf("-order is required")
	}

	var in io.Reader = os.Stdin
	if *input != "" {
		file, err := os.Open(*input)
		if err != nil {
			klog.Fatalf("%v", err)
		}
		defer file.Close()
		in = file
	}

	X := libramsey.NewGraph(nil)
	if err := X.InitFromMatrixText(in, *order); err != nil {
		klog.Fatalf("reading matrix: %v", err)
	}

	X.Println(fmt.Sprintf("order %d: ", *order))
	X.WriteCensusAsCSV(os.Stdout, *cliqueSize)

	var prof goramsey.CensusProfile
	X.AppendCensus(&prof, 3, *cliqueSize)
	fmt.Printf("\ntotal=%d\n", prof.TotalMono())

	if *list {
		for n := 3; n <= *cliqueSize; n++ {
			X.ForEachMonoClique(n, func(members []goramsey.VtxID, c goramsey.Color) bool {
				fmt.Printf("%c ", c.Ascii())
				for _, vi := range members {
					fmt.Printf("%d ", vi)
				}
				fmt.Println()
				return true
			})
		}
	}

	klog.Flush()
}
