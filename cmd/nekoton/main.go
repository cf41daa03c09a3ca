package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mazekine/nekoton-go/abi"
	"github.com/mazekine/nekoton-go/address"
	"github.com/mazekine/nekoton-go/boc"
	"github.com/mazekine/nekoton-go/cidutil"
	"github.com/mazekine/nekoton-go/keys"
	"github.com/mazekine/nekoton-go/model"
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
	case "boc":
		return cmdBOC(args[1:], out, errOut)
	case "abi":
		return cmdABI(args[1:], out, errOut)
	case "address":
		return cmdAddress(args[1:], out, errOut)
	case "sign":
		return cmdSign(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
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
	fmt.Fprintln(w, "nekoton: cell/BOC/ABI codec CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nekoton boc info <file>")
	fmt.Fprintln(w, "  nekoton boc hash <file>")
	fmt.Fprintln(w, "  nekoton boc cid <file>")
	fmt.Fprintln(w, "  nekoton abi ids <abi.json>")
	fmt.Fprintln(w, "  nekoton abi encode --abi <abi.json> --call <call.json|-> ")
	fmt.Fprintln(w, "  nekoton abi decode --abi <abi.json> (--function <name> --dir input|output | --event) <body.boc>")
	fmt.Fprintln(w, "  nekoton address <addr>")
	fmt.Fprintln(w, "  nekoton sign --seed-hex <64hex> [--hash-alg sha256] <file>")
	fmt.Fprintln(w, "  nekoton verify --public-key-hex <64hex> --sig-hex <128hex> [--hash-alg sha256] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - <file> for boc/decode commands holds serialized bag-of-cells bytes")
	fmt.Fprintln(w, "  - abi encode reads a {function, inputs} JSON call and writes raw BOC bytes to stdout")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars) ed25519 seed")
	fmt.Fprintln(w, "  - sign hashes the file with --hash-alg before signing and prints the hex signature")
}

// printCodedError renders a failure in its machine-readable JSON form so
// callers driving this CLI from other programs can branch on the code.
func printCodedError(w io.Writer, code model.ErrorCode, err error) {
	enc, merr := json.Marshal(model.NewError(code, err.Error()))
	if merr != nil {
		fmt.Fprintf(w, "%s: %v\n", code, err)
		return
	}
	fmt.Fprintln(w, string(enc))
}

func cmdBOC(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: nekoton boc <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: info, hash, cid")
		return 2
	}
	sub := args[0]
	switch sub {
	case "info", "hash", "cid":
	default:
		fmt.Fprintf(errOut, "unknown boc subcommand: %s\n", sub)
		return 2
	}

	fs := flag.NewFlagSet("boc "+sub, flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: nekoton boc %s <file>\n", sub)
		return 2
	}
	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}

	if sub == "cid" {
		_, _ = fmt.Fprintln(out, cidutil.CIDv1RawSHA256(raw))
		return 0
	}

	root, err := boc.Decode(raw)
	if err != nil {
		printCodedError(errOut, model.ErrInvalidBoc, err)
		return 1
	}
	hash := root.Hash()
	if sub == "hash" {
		_, _ = fmt.Fprintln(out, hex.EncodeToString(hash[:]))
		return 0
	}

	info := model.CellInfo{
		Bits:  root.Bits(),
		Refs:  root.RefCount(),
		Depth: root.Depth(),
		Hash:  hex.EncodeToString(hash[:]),
		CID:   cidutil.CIDv1RawSHA256(raw),
	}
	enc, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "marshal: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, string(enc))
	return 0
}

func cmdABI(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: nekoton abi <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: ids, encode, decode")
		return 2
	}
	switch args[0] {
	case "ids":
		return cmdABIIDs(args[1:], out, errOut)
	case "encode":
		return cmdABIEncode(args[1:], out, errOut)
	case "decode":
		return cmdABIDecode(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown abi subcommand: %s\n", args[0])
		return 2
	}
}

func loadAbi(path string, errOut io.Writer) (*abi.ContractAbi, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read abi: %v\n", err)
		return nil, false
	}
	a, err := abi.ParseContractAbi(raw)
	if err != nil {
		fmt.Fprintf(errOut, "invalid abi: %v\n", err)
		return nil, false
	}
	return a, true
}

func cmdABIIDs(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("abi ids", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: nekoton abi ids <abi.json>")
		return 2
	}
	a, ok := loadAbi(fs.Arg(0), errOut)
	if !ok {
		return 1
	}
	for _, f := range sortedKeys(a.Functions) {
		fn := a.Functions[f]
		fmt.Fprintf(out, "function %s input=%08x output=%08x\n", fn.Name, fn.InputID(), fn.OutputID())
	}
	for _, e := range sortedKeys(a.Events) {
		ev := a.Events[e]
		fmt.Fprintf(out, "event %s id=%08x\n", ev.Name, ev.ID())
	}
	return 0
}

func sortedKeys[V any](m map[string]*V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cmdABIEncode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("abi encode", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var abiPath string
	var callPath string
	fs.StringVar(&abiPath, "abi", "", "Contract ABI JSON file")
	fs.StringVar(&callPath, "call", "", "Function call JSON file ('-' for stdin)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if abiPath == "" {
		fmt.Fprintln(errOut, "missing --abi")
		return 2
	}
	if callPath == "" {
		fmt.Fprintln(errOut, "missing --call")
		return 2
	}

	a, ok := loadAbi(abiPath, errOut)
	if !ok {
		return 1
	}

	var callBytes []byte
	var err error
	if callPath == "-" {
		callBytes, err = io.ReadAll(os.Stdin)
	} else {
		callBytes, err = os.ReadFile(callPath)
	}
	if err != nil {
		fmt.Fprintf(errOut, "read call: %v\n", err)
		return 1
	}

	var call model.FunctionCall
	if err := json.Unmarshal(callBytes, &call); err != nil {
		fmt.Fprintf(errOut, "invalid call json: %v\n", err)
		return 1
	}
	fn, err := a.Function(call.Function)
	if err != nil {
		fmt.Fprintf(errOut, "abi: %v\n", err)
		return 1
	}
	if len(call.Inputs) != len(fn.Inputs) {
		fmt.Fprintf(errOut, "function %s takes %d inputs, call has %d\n", fn.Name, len(fn.Inputs), len(call.Inputs))
		return 2
	}

	values := make([]any, 0, len(fn.Inputs))
	for i, p := range fn.Inputs {
		in := call.Inputs[i]
		if in.Name != "" && in.Name != p.Name {
			fmt.Fprintf(errOut, "input %d: expected parameter %q, got %q\n", i, p.Name, in.Name)
			return 2
		}
		v, cerr := abi.ValueFromJSON(p, in.Value)
		if cerr != nil {
			fmt.Fprintf(errOut, "input %s: %v\n", p.Name, cerr)
			return 2
		}
		values = append(values, v)
	}

	body, err := fn.EncodeCall(values...)
	if err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	raw, err := boc.Encode(body)
	if err != nil {
		fmt.Fprintf(errOut, "boc: %v\n", err)
		return 1
	}
	fmt.Fprintf(errOut, "Body-CID: %s\n", cidutil.CIDv1RawSHA256(raw))
	_, _ = out.Write(raw)
	return 0
}

func cmdABIDecode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("abi decode", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var abiPath string
	var function string
	var dir string
	var event bool
	fs.StringVar(&abiPath, "abi", "", "Contract ABI JSON file")
	fs.StringVar(&function, "function", "", "Function name")
	fs.StringVar(&dir, "dir", "output", "Body direction: input or output")
	fs.BoolVar(&event, "event", false, "Decode as an event body (matched by id across all events)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if abiPath == "" {
		fmt.Fprintln(errOut, "missing --abi")
		return 2
	}
	if !event && function == "" {
		fmt.Fprintln(errOut, "missing --function (or use --event)")
		return 2
	}
	if event && function != "" {
		fmt.Fprintln(errOut, "conflicting flags: --event cannot be combined with --function")
		return 2
	}
	if dir != "input" && dir != "output" {
		fmt.Fprintln(errOut, "invalid --dir (expected input or output)")
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: nekoton abi decode --abi <abi.json> (--function <name> --dir input|output | --event) <body.boc>")
		return 2
	}

	a, ok := loadAbi(abiPath, errOut)
	if !ok {
		return 1
	}
	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read body: %v\n", err)
		return 1
	}
	body, err := boc.Decode(raw)
	if err != nil {
		printCodedError(errOut, model.ErrInvalidBoc, err)
		return 1
	}

	var decoded model.DecodedBody
	var params []abi.Param
	var values []any

	if event {
		matched := false
		for _, name := range sortedKeys(a.Events) {
			ev := a.Events[name]
			vs, derr := ev.DecodeData(body.BeginParse())
			if derr != nil {
				if abi.IsIdMismatch(derr) {
					continue
				}
				fmt.Fprintf(errOut, "decode event %s: %v\n", name, derr)
				return 1
			}
			decoded = model.DecodedBody{Name: ev.Name, Kind: "event"}
			params, values, matched = ev.Inputs, vs, true
			break
		}
		if !matched {
			fmt.Fprintln(errOut, "body id matches no event in the abi")
			return 1
		}
	} else {
		fn, ferr := a.Function(function)
		if ferr != nil {
			fmt.Fprintf(errOut, "abi: %v\n", ferr)
			return 1
		}
		if dir == "input" {
			values, err = fn.DecodeInput(body.BeginParse())
			params = fn.Inputs
		} else {
			values, err = fn.DecodeOutput(body.BeginParse())
			params = fn.Outputs
		}
		if err != nil {
			fmt.Fprintf(errOut, "decode: %v\n", err)
			return 1
		}
		decoded = model.DecodedBody{Name: fn.Name, Kind: dir}
	}

	decoded.Values = make([]model.NamedValue, 0, len(params))
	for i, p := range params {
		j, cerr := abi.ValueToJSON(p, values[i])
		if cerr != nil {
			fmt.Fprintf(errOut, "project %s: %v\n", p.Name, cerr)
			return 1
		}
		decoded.Values = append(decoded.Values, model.NamedValue{Name: p.Name, Type: p.Type, Value: j})
	}

	enc, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "marshal: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, string(enc))
	return 0
}

func cmdAddress(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("address", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: nekoton address <addr>")
		return 2
	}
	a, err := address.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid address: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, a.String())
	return 0
}

func cmdSign(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var seedHex string
	var hashAlg string
	fs.StringVar(&seedHex, "seed-hex", "", "ed25519 seed as 64 hex chars")
	fs.StringVar(&hashAlg, "hash-alg", "sha256", "Digest algorithm: sha256, sha512 or sha3-256")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if seedHex == "" {
		fmt.Fprintln(errOut, "missing --seed-hex")
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: nekoton sign --seed-hex <64hex> [--hash-alg sha256] <file>")
		return 2
	}

	seed, err := hex.DecodeString(seedHex)
	if err != nil || len(seed) != keys.SeedSize {
		fmt.Fprintln(errOut, "invalid --seed-hex: expected 64 hex chars")
		return 2
	}
	signer, err := keys.NewEd25519Signer(seed)
	if err != nil {
		fmt.Fprintf(errOut, "signer: %v\n", err)
		return 1
	}

	msg, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	sig, err := keys.SignDigest(signer, hashAlg, msg)
	if err != nil {
		fmt.Fprintf(errOut, "sign: %v\n", err)
		return 1
	}
	fmt.Fprintf(errOut, "Public-Key: %s\n", keys.PublicKeyString(signer.PublicKey()))
	_, _ = fmt.Fprintln(out, hex.EncodeToString(sig))
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var pubHex string
	var sigHex string
	var hashAlg string
	fs.StringVar(&pubHex, "public-key-hex", "", "ed25519 public key as 64 hex chars")
	fs.StringVar(&sigHex, "sig-hex", "", "Signature as 128 hex chars")
	fs.StringVar(&hashAlg, "hash-alg", "sha256", "Digest algorithm: sha256, sha512 or sha3-256")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if pubHex == "" {
		fmt.Fprintln(errOut, "missing --public-key-hex")
		return 2
	}
	if sigHex == "" {
		fmt.Fprintln(errOut, "missing --sig-hex")
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: nekoton verify --public-key-hex <64hex> --sig-hex <128hex> [--hash-alg sha256] <file>")
		return 2
	}

	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --public-key-hex: %v\n", err)
		return 2
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --sig-hex: %v\n", err)
		return 2
	}
	msg, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}

	valid, err := keys.VerifyDigest(pub, hashAlg, msg, sig)
	if err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 1
	}
	if !valid {
		fmt.Fprintln(errOut, "signature INVALID")
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}
