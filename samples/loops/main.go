package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/stackvm/core"
	"github.com/sarchlab/stackvm/verify"
)

//go:embed loops.svm
var loopsKernel string

func main() {
	program, err := core.Parse(strings.NewReader(loopsKernel))
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	verify.GenerateReport(program, 0).WriteReport(os.Stdout)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	x := core.NewExecution(program, core.WithLogger(logger))
	for x.Status() == core.Running {
		if _, err := x.Step(); err != nil {
			fmt.Println(err)
			atexit.Exit(1)
		}

		if x.Steps()%100 == 0 {
			core.LogState(logger, x.Snapshot())
		}
	}

	core.WriteSnapshot(os.Stdout, x.Snapshot())
	fmt.Println("result", x.Result())
	atexit.Exit(0)
}
