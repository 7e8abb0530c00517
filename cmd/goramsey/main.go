package main

import (
	"flag"

	"github.com/plan-systems/klog"
)

func main() {

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	pathname := flag.Arg(0)
	go_gpython(pathname)

	klog.Flush()
}
