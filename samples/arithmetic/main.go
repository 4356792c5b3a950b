package main

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/stackvm/api"
	"github.com/sarchlab/stackvm/core"
)

//go:embed arithmetic.svm
var arithmeticKernel string

func main() {
	program, err := core.Parse(strings.NewReader(arithmeticKernel))
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}
	fmt.Println(program)

	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver")

	driver.MapProgram(program)

	result, err := driver.Run()
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	fmt.Printf("result %s after %d cycles (%.1f ns)\n",
		result, driver.Cycles(), float64(driver.SimTime())*1e9)
	atexit.Exit(0)
}
