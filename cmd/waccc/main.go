// Command waccc reads a JSON-serialised ast.Program and writes the ARM
// and JVM assembly text the driver package produces for it. Grounded on
// the teacher's main.go (flag-based CLI, Fatal/Stdout error reporting)
// and util/util.go's OkOrBurst pattern, retargeted from the teacher's
// lex/parse/frontend staged-compilation flags (this core has no lexer
// or parser of its own, per spec.md §1) to a single decode-then-compile
// path.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"waccc/driver"
)

var out = flag.String("o", ".", "directory to write generated assembly into")

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fatal("usage: waccc [-o dir] <program.json>\n")
	}
	run(args[0])
}

func run(jsonPath string) {
	data := readOrBurst(jsonPath)

	prog, err := driver.DecodeProgram(data)
	if err != nil {
		fatal(err.Error() + "\n")
	}

	res, err := driver.Compile(prog)
	if err != nil {
		fatal(err.Error() + "\n")
	}

	name := strings.TrimSuffix(filepath.Base(jsonPath), filepath.Ext(jsonPath))
	writeOrBurst(filepath.Join(*out, name+".s"), res.ARM)
	writeOrBurst(filepath.Join(*out, name+".j"), res.JVM)
	if res.UsesPairs {
		pairDir := filepath.Join(*out, "wacc", "lang")
		if mkErr := os.MkdirAll(pairDir, 0o755); mkErr != nil {
			fatal(mkErr.Error() + "\n")
		}
		writeOrBurst(filepath.Join(pairDir, "Pair.j"), res.PairClass)
	}
}

func readOrBurst(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal(err.Error() + "\n")
	}
	return data
}

func writeOrBurst(path, contents string) {
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		fatal(err.Error() + "\n")
	}
}

func fatal(s string) {
	os.Stderr.Write([]byte(s))
	os.Exit(1)
}
