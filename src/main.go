package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"k8s.io/klog/v2"

	"github.com/wenbo-li-ee/cpaep2526-project/src/misc"
	"github.com/wenbo-li-ee/cpaep2526-project/src/simulator"
)

func main() {
	command_line_parser := InitCommandLineParser()
	command_line_parser.Parse(os.Args)

	if command_line_parser.IsArgSet("help") {
		fmt.Printf("%s", command_line_parser.StringifyHelpMsgs())
		return
	}

	klog.InitFlags(nil)
	_ = flag.Set("logtostderr", "true")
	_ = flag.Set("v", strconv.Itoa(command_line_parser.IntParameter("verbose")))
	defer klog.Flush()

	command_line_validator := new(misc.CommandLineValidator)
	command_line_validator.Init(command_line_parser)
	command_line_validator.Validate()

	simulator_ := new(simulator.Simulator)
	simulator_.Init(command_line_parser)

	err := simulator_.Run()
	simulator_.Dump()
	simulator_.Fini()

	if err != nil {
		klog.Errorf("campaign failed: %v", err)
		os.Exit(1)
	}
}

func InitCommandLineParser() *misc.CommandLineParser {
	command_line_parser := new(misc.CommandLineParser)
	command_line_parser.Init()

	// NOTE: Explanation of verbose level
	// level 0: only campaign summary and failures
	// level 1: level 0 + one line per trial
	// level 3: level 1 + every output element comparison
	command_line_parser.AddOption(misc.INT, "verbose", "0", "verbosity of the simulation")

	command_line_parser.AddOption(misc.INT, "in_data_width", "8", "input element width in bits")
	command_line_parser.AddOption(misc.INT, "out_data_width", "32", "output element width in bits")
	command_line_parser.AddOption(misc.INT, "num_pe_m", "4", "PE grid rows")
	command_line_parser.AddOption(misc.INT, "num_pe_n", "4", "PE grid columns")
	command_line_parser.AddOption(misc.INT, "num_ip_k", "4", "K lanes consumed per PE per cycle")
	command_line_parser.AddOption(misc.INT, "addr_width", "10", "memory address width in bits")
	command_line_parser.AddOption(misc.INT, "dim_width", "8", "tile count field width in bits")

	command_line_parser.AddOption(misc.INT, "m_tiles", "0", "fixed M tile count (0 randomizes per trial)")
	command_line_parser.AddOption(misc.INT, "k_tiles", "0", "fixed K tile count (0 randomizes per trial)")
	command_line_parser.AddOption(misc.INT, "n_tiles", "0", "fixed N tile count (0 randomizes per trial)")
	command_line_parser.AddOption(misc.INT, "max_random_tiles", "8", "upper bound for randomized tile counts")

	command_line_parser.AddOption(misc.INT, "num_trials", "16", "number of GEMM trials to run")
	command_line_parser.AddOption(misc.INT, "seed", "1", "random seed for the stimulus driver")
	command_line_parser.AddOption(misc.INT, "timeout_cycles", "100000", "cycle budget per run before a fatal timeout")
	command_line_parser.AddOption(misc.INT, "fatal_on_mismatch", "1", "abort the campaign on the first mismatch (0|1)")
	command_line_parser.AddOption(misc.INT, "progress", "1", "show a progress bar over trials (0|1)")

	command_line_parser.AddOption(misc.STRING, "report_filepath", "gemm_report.txt", "path of the campaign report")

	return command_line_parser
}
