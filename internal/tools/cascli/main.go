// cascli is a minimal CAS tool for walkthroughs: it moves raw BOC blocks in
// and out of a configured backend and inspects stored cell trees.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"github.com/mazekine/nekoton-go/boc"
	"github.com/mazekine/nekoton-go/storage"
	"github.com/mazekine/nekoton-go/storage/bundle"
	"github.com/mazekine/nekoton-go/storage/casconfig"
	"github.com/mazekine/nekoton-go/storage/casregistry"

	_ "github.com/mazekine/nekoton-go/storage/grpccas"
	_ "github.com/mazekine/nekoton-go/storage/ipfs"
	_ "github.com/mazekine/nekoton-go/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "put":
		return cmdPut(args[1:], out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "cell":
		return cmdCell(args[1:], out, errOut)
	case "export":
		return cmdExport(args[1:], out, errOut)
	case "import":
		return cmdImport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "cascli: minimal CAS tool for walkthroughs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cascli put --backend localfs --localfs-dir <dir> <file>")
	fmt.Fprintln(w, "  cascli get --backend localfs --localfs-dir <dir> --cid <cid> [--out <file>]")
	fmt.Fprintln(w, "  cascli cell --backend localfs --localfs-dir <dir> --cid <cid>")
	fmt.Fprintln(w, "  cascli put --backend grpc --grpc-target <host:port> <file>")
	fmt.Fprintln(w, "  cascli get --backend grpc --grpc-target <host:port> --cid <cid> [--out <file>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "IPFS backend:")
	fmt.Fprintln(w, "  cascli put --backend ipfs --ipfs-path <repo> [--pin=true|false] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bundles:")
	fmt.Fprintln(w, "  cascli export [common flags] --out <file> <cid>...")
	fmt.Fprintln(w, "  cascli import [common flags] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config file:")
	fmt.Fprintln(w, "  cascli put --config cas.json <file>")
	fmt.Fprintln(w, "  With --config, backends come from a casconfig JSON file and")
	fmt.Fprintln(w, "  --backend (if set) names the preferred backend for writes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - ipfs backend shells out to the local Kubo 'ipfs' CLI")
	fmt.Fprintln(w, "  - grpc backend talks to nekoton-casd (or any CAS gRPC server)")
	fmt.Fprintln(w, "  - cascli stores raw blocks (CIDv1 raw + sha2-256)")
	fmt.Fprintln(w, "  - 'cell' expects the block to be a serialized bag of cells")
}

type commonFlags struct {
	backend      string
	config       string
	listBackends bool
}

func (c *commonFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&c.backend, "backend", "", "CAS backend name (default localfs; with --config, the preferred backend)")
	fs.StringVar(&c.config, "config", "", "casconfig JSON file describing one or more backends")
	fs.BoolVar(&c.listBackends, "list-backends", false, "List supported backends and exit")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
}

func (c *commonFlags) openCAS() (storage.CAS, func() error, error) {
	if c.config != "" {
		cfg, err := casconfig.LoadFile(c.config)
		if err != nil {
			return nil, nil, err
		}
		return cfg.Open(casregistry.UsageCLI, c.backend)
	}
	name := c.backend
	if name == "" {
		name = "localfs"
	}
	return casregistry.Open(name, casregistry.UsageCLI)
}

func printBackends(w io.Writer) {
	for _, b := range casregistry.List(casregistry.UsageCLI) {
		if b.Description == "" {
			_, _ = fmt.Fprintf(w, "%s\n", b.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", b.Name, b.Description)
	}
}

func cmdPut(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cascli put [common flags] <file>")
		return 2
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	p := fs.Arg(0)
	b, err := os.ReadFile(p)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(p), err)
		return 1
	}
	id, err := cas.Put(b)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id.String())
	return 0
}

func cmdGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)

	var cidStr string
	var outPath string
	fs.StringVar(&cidStr, "cid", "", "CID to fetch")
	fs.StringVar(&outPath, "out", "", "Output file (optional; default stdout)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if cidStr == "" {
		fmt.Fprintln(errOut, "missing --cid")
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: cascli get [common flags] --cid <cid> [--out <file>]")
		return 2
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	id, err := cid.Decode(cidStr)
	if err != nil {
		fmt.Fprintln(errOut, storage.ErrInvalidCID)
		return 1
	}

	b, err := cas.Get(id)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	if outPath == "" {
		_, _ = out.Write(b)
		return 0
	}
	if err := os.WriteFile(outPath, b, 0o600); err != nil {
		fmt.Fprintf(errOut, "write %s: %v\n", outPath, err)
		return 1
	}
	return 0
}

func cmdCell(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cell", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)

	var cidStr string
	fs.StringVar(&cidStr, "cid", "", "CID of a stored bag of cells")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if cidStr == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: cascli cell [common flags] --cid <cid>")
		return 2
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	id, err := cid.Decode(cidStr)
	if err != nil {
		fmt.Fprintln(errOut, storage.ErrInvalidCID)
		return 1
	}

	b, err := cas.Get(id)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	root, err := boc.Decode(b)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "bits:  %d\n", root.Bits())
	_, _ = fmt.Fprintf(out, "refs:  %d\n", root.RefCount())
	_, _ = fmt.Fprintf(out, "depth: %d\n", root.Depth())
	_, _ = fmt.Fprintf(out, "hash:  %x\n", root.Hash())
	return 0
}

func cmdExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)

	var outPath string
	fs.StringVar(&outPath, "out", "", "Output bundle file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if outPath == "" || fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: cascli export [common flags] --out <file> <cid>...")
		return 2
	}

	ids := make([]cid.Cid, 0, fs.NArg())
	for _, s := range fs.Args() {
		id, err := cid.Decode(s)
		if err != nil {
			fmt.Fprintln(errOut, storage.ErrInvalidCID)
			return 1
		}
		ids = append(ids, id)
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(errOut, "create %s: %v\n", outPath, err)
		return 1
	}
	if err := bundle.Export(f, cas, ids, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		_ = f.Close()
		fmt.Fprintln(errOut, err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "close %s: %v\n", outPath, err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "exported %d block(s) to %s\n", len(ids), outPath)
	return 0
}

func cmdImport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cascli import [common flags] <file>")
		return 2
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	p := fs.Arg(0)
	f, err := os.Open(p)
	if err != nil {
		fmt.Fprintf(errOut, "open %s: %v\n", filepath.Base(p), err)
		return 1
	}
	defer f.Close()

	if err := bundle.Import(f, cas); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "imported %s\n", filepath.Base(p))
	return 0
}
