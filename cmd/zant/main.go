// Command zant compresses or decompresses a file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/zant-codec/zant"
)

func main() {
	var (
		level      = flag.Int("l", 5, "compression level (1-9)")
		decompress = flag.Bool("d", false, "decompress instead of compress")
		output     = flag.String("o", "", "output file (default: stdout)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: zant [-l level] [-d] [-o output] <input>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("zant: %v", err)
	}

	start := time.Now()
	var out []byte
	if *decompress {
		out, err = zant.Decompress(src)
	} else {
		out, err = zant.Compress(src, *level)
	}
	if err != nil {
		log.Fatalf("zant: %v", err)
	}
	elapsed := time.Since(start)

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("zant: %v", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(out); err != nil {
		log.Fatalf("zant: %v", err)
	}

	if *output != "" {
		action := "compressed"
		ratio := float64(len(out)) / float64(len(src))
		if *decompress {
			action = "decompressed"
			if len(out) > 0 {
				ratio = float64(len(src)) / float64(len(out))
			}
		}
		fmt.Fprintf(os.Stderr, "%s %d -> %d bytes (%.3f) in %s\n",
			action, len(src), len(out), ratio, elapsed.Round(time.Millisecond))
	}
}
