// Command neow3j-compile lowers a contract's compiler IR (the JSON
// serialization of pkg/compiler/ir.Module a front end would emit for an
// already-parsed class tree) into a NEF file and a manifest.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/neow3j-go/pkg/compiler/codegen"
	"github.com/nspcc-dev/neow3j-go/pkg/compiler/ir"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/urfave/cli"
)

const compilerIdentity = "neow3j-compile"

func main() {
	ctl := cli.NewApp()
	ctl.Name = "neow3j-compile"
	ctl.Usage = "lower a contract's compiler IR into a NEF file and manifest"
	ctl.ErrWriter = os.Stdout
	ctl.Commands = []cli.Command{
		{
			Name:   "compile",
			Usage:  "compile an IR module into <out>.nef and <out>.manifest.json",
			Action: compile,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in, i", Usage: "path to the IR module JSON"},
				cli.StringFlag{Name: "out, o", Usage: "output path prefix"},
			},
		},
	}
	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func compile(ctx *cli.Context) error {
	in := ctx.String("in")
	out := ctx.String("out")
	if in == "" || out == "" {
		return cli.NewExitError(errors.New("both --in and --out are required"), 1)
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	var mod ir.Module
	if err := json.Unmarshal(data, &mod); err != nil {
		return cli.NewExitError(fmt.Errorf("parsing IR module: %w", err), 1)
	}

	nefFile, manif, err := codegen.Compile(&mod, compilerIdentity)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("compiling: %w", err), 1)
	}

	nefOut, err := os.Create(out + ".nef")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer nefOut.Close()
	w := io.NewBinWriterFromIO(nefOut)
	nefFile.EncodeBinary(w)
	if w.Err != nil {
		return cli.NewExitError(w.Err, 1)
	}

	manifData, err := json.MarshalIndent(manif, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := os.WriteFile(out+".manifest.json", manifData, 0o644); err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Fprintf(ctx.App.Writer, "wrote %s.nef and %s.manifest.json\n", out, out)
	return nil
}
