package simulator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wenbo-li-ee/cpaep2526-project/src/misc"
)

func newTestParser(report_filepath string) *misc.CommandLineParser {
	parser := new(misc.CommandLineParser)
	parser.Init()

	parser.AddOption(misc.INT, "in_data_width", "8", "input element width in bits")
	parser.AddOption(misc.INT, "out_data_width", "32", "output element width in bits")
	parser.AddOption(misc.INT, "num_pe_m", "4", "PE grid rows")
	parser.AddOption(misc.INT, "num_pe_n", "4", "PE grid columns")
	parser.AddOption(misc.INT, "num_ip_k", "4", "K lanes per PE per cycle")
	parser.AddOption(misc.INT, "addr_width", "10", "memory address width in bits")
	parser.AddOption(misc.INT, "dim_width", "8", "tile count field width in bits")
	parser.AddOption(misc.INT, "m_tiles", "0", "fixed M tile count")
	parser.AddOption(misc.INT, "k_tiles", "0", "fixed K tile count")
	parser.AddOption(misc.INT, "n_tiles", "0", "fixed N tile count")
	parser.AddOption(misc.INT, "max_random_tiles", "4", "upper bound for randomized tile counts")
	parser.AddOption(misc.INT, "num_trials", "8", "number of GEMM trials")
	parser.AddOption(misc.INT, "seed", "5", "stimulus seed")
	parser.AddOption(misc.INT, "timeout_cycles", "100000", "cycle budget per run")
	parser.AddOption(misc.INT, "fatal_on_mismatch", "1", "fail-fast on mismatch")
	parser.AddOption(misc.INT, "progress", "0", "disable the progress bar for tests")
	parser.AddOption(misc.STRING, "report_filepath", report_filepath, "campaign report path")

	return parser
}

func TestSimulatorRandomizedCampaignSmoke(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	reportPath := filepath.Join(tempDir, "gemm_report.txt")

	simulator := new(Simulator)
	simulator.Init(newTestParser(reportPath))

	if err := simulator.Run(); err != nil {
		t.Fatalf("campaign failed: %v", err)
	}
	simulator.Dump()
	simulator.Fini()

	if simulator.TrialsPassed() != 8 {
		t.Fatalf("expected 8 passing trials, got %d", simulator.TrialsPassed())
	}
	if simulator.TotalCycles() <= 0 {
		t.Fatalf("expected cycles to accumulate, got %d", simulator.TotalCycles())
	}

	reportData, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	reportText := string(reportData)
	requiredKeys := []string{
		"gemm_campaign_status: PASS",
		"gemm_trials_total: 8",
		"gemm_trials_passed: 8",
		"gemm_trials_timed_out: 0",
		"gemm_mismatch_elements_total: 0",
		"gemm_result_pulses_total:",
		"gemm_cycles_total:",
	}
	for _, key := range requiredKeys {
		if !strings.Contains(reportText, key) {
			t.Fatalf("missing %q in report:\n%s", key, reportText)
		}
	}
}

func TestSimulatorFixedSizeCampaign(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	reportPath := filepath.Join(tempDir, "gemm_report.txt")

	parser := newTestParser(reportPath)
	parser.Parse([]string{"test",
		"--m_tiles", "2", "--k_tiles", "3", "--n_tiles", "2",
		"--num_trials", "4",
	})

	simulator := new(Simulator)
	simulator.Init(parser)

	if err := simulator.Run(); err != nil {
		t.Fatalf("campaign failed: %v", err)
	}

	// Fixed sizes make the cycle count exact: 4 trials of 2*3*2+2 cycles.
	if want := int64(4 * (2*3*2 + 2)); simulator.TotalCycles() != want {
		t.Fatalf("campaign took %d cycles, want %d", simulator.TotalCycles(), want)
	}
}
