// Command loom runs Loom bytecode programs: either one of the built-in
// scenarios or, with -serve, an editor-facing bytecode inspector.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/loomlang/loom/compiler"
	"github.com/loomlang/loom/config"
	"github.com/loomlang/loom/inspector"
	"github.com/loomlang/loom/session"
	"github.com/loomlang/loom/snapshot"
	"github.com/loomlang/loom/vm"
)

func main() {
	scenarioName := flag.String("scenario", "print-sequence", "built-in scenario to run")
	list := flag.Bool("list", false, "list available scenarios and exit")
	trace := flag.Bool("trace", false, "log every dispatched instruction")
	gcConstant := flag.Int("gc-constant", 0, "override the collector's threshold growth constant (0 = use loom.toml or default)")
	serve := flag.Bool("serve", false, "start the bytecode inspector (LSP over stdio) instead of running a scenario")
	snapshotPath := flag.String("snapshot", "", "write a CBOR execution snapshot to this path after running")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: loom [options]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a built-in Loom VM scenario and prints its DEBUG_PRINT transcript.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  loom -list                        # show scenario names\n")
		fmt.Fprintf(os.Stderr, "  loom -scenario closure-capture     # run one scenario\n")
		fmt.Fprintf(os.Stderr, "  loom -trace -scenario if-else      # run with instruction tracing\n")
		fmt.Fprintf(os.Stderr, "  loom -serve                        # start the inspector on stdio\n")
	}
	flag.Parse()

	if *trace || *serve {
		commonlog.Configure(1, nil)
	}

	if *list {
		for _, s := range scenarios {
			fmt.Println(s.name)
		}
		return
	}

	if *serve {
		srv := inspector.New(session.NewStore())
		if err := srv.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "inspector error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	s, ok := findScenario(*scenarioName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q (use -list)\n", *scenarioName)
		os.Exit(1)
	}

	opts := []vm.Option{vm.WithOutput(os.Stdout)}

	constant := cfg.GC.Constant
	if *gcConstant != 0 {
		constant = *gcConstant
	}
	if constant != 0 {
		opts = append(opts, vm.WithGCThresholdConstant(constant))
	}

	if *trace || cfg.Trace.Enabled {
		opts = append(opts, vm.WithTrace(func(blob *vm.Blob, index int, instr vm.Instruction) {
			commonlog.NewInfoMessage(0, fmt.Sprintf("%-7d %s", index, instr.Op))
		}))
	}

	blob := compiler.Compile(s.build())
	m := vm.New(blob, opts...)
	runErr := m.Run()

	if *snapshotPath != "" {
		data, err := snapshot.Marshal(snapshot.Take(m))
		if err != nil {
			fmt.Fprintf(os.Stderr, "snapshot error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*snapshotPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "snapshot write error: %v\n", err)
			os.Exit(1)
		}
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
