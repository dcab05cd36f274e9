// Command rvpipe assembles a program, loads it into a five-stage
// pipeline processor, and steps the processor one cycle at a time
// under interactive control.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/redyaung/jarvs/asm"
	"github.com/redyaung/jarvs/internal/rvlog"
	"github.com/redyaung/jarvs/mem"
	"github.com/redyaung/jarvs/mem/cache"
	"github.com/redyaung/jarvs/proc"
)

var (
	useCache   bool
	memLatency int
)

func main() {
	root := &cobra.Command{
		Use:   "simulator [path/to/asm] [forwarding:0|1]",
		Short: "Step an RV32I-subset five-stage pipeline one cycle at a time.",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  run,
	}
	root.Flags().BoolVar(&useCache, "cache", false,
		"front data memory with a 4-way, 4-block, write-back cache")
	root.Flags().IntVar(&memLatency, "mem-latency", 1,
		"main memory access latency, in cycles")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func run(_ *cobra.Command, args []string) error {
	sessionID := xid.New().String()
	rvlog.Logger.SetPrefix(fmt.Sprintf("rvpipe[%s]: ", sessionID))

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	forwarding := true
	if len(args) > 1 {
		forwarding = args[1] == "1"
	}

	program, err := asm.Assemble(string(source))
	if err != nil {
		return err
	}
	if len(program) == 0 {
		return fmt.Errorf("%s contains no instructions", args[0])
	}

	p := proc.New(proc.Config{
		InstructionWords:  len(program),
		ForwardingEnabled: forwarding,
		DataMemory:        newDataMemory(),
	})
	p.LoadProgram(program)

	atexit.Register(func() {
		fmt.Printf("rvpipe: session %s ran %d cycles\n", sessionID, p.Cycle())
	})

	fmt.Printf("rvpipe: session %s: %d instructions loaded, forwarding=%v, cache=%v\n",
		sessionID, len(program), forwarding, useCache)
	fmt.Println("Enter = step one cycle, r = reset, q = quit")

	repl(p)
	return nil
}

func newDataMemory() mem.TimedMemory {
	var m mem.TimedMemory = mem.NewMainMemory(20, memLatency)
	if !useCache {
		return m
	}
	return cache.NewCache(cache.Config{
		WordsPerBlock: 1,
		Ways:          4,
		TotalBlocks:   4,
		Scheme:        cache.WriteBack,
		Policy:        cache.ApproximateLRU,
		Latency:       1,
		Lower:         m,
	})
}

func repl(p *proc.Processor) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch scanner.Text() {
		case "q":
			return
		case "r":
			p.Reset()
			fmt.Println("reset to initial state")
		default:
			p.ExecuteOneCycle()
			printState(p)
		}
	}
}

func printState(p *proc.Processor) {
	tag := ""
	if p.StallThisCycle() {
		tag = " (stalled)"
	}
	fmt.Printf("cycle %d: pc=%s%s\n", p.Cycle(), p.PC(), tag)
}
