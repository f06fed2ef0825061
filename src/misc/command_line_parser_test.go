package misc

import (
	"strings"
	"testing"
)

func TestCommandLineParserDefaultsAndOverrides(t *testing.T) {
	parser := new(CommandLineParser)
	parser.Init()
	parser.AddOption(INT, "num_trials", "16", "number of trials")
	parser.AddOption(INT, "seed", "1", "stimulus seed")
	parser.AddOption(STRING, "report_filepath", "gemm_report.txt", "report path")

	parser.Parse([]string{"prog", "--num_trials", "4", "--report_filepath=out.txt", "help"})

	if got := parser.IntParameter("num_trials"); got != 4 {
		t.Fatalf("num_trials = %d, want 4", got)
	}
	if got := parser.IntParameter("seed"); got != 1 {
		t.Fatalf("seed = %d, want default 1", got)
	}
	if got := parser.StringParameter("report_filepath"); got != "out.txt" {
		t.Fatalf("report_filepath = %s, want out.txt", got)
	}
	if !parser.IsArgSet("help") {
		t.Fatal("bare argument help not recorded")
	}
	if !parser.IsOptionSet("num_trials") || parser.IsOptionSet("seed") {
		t.Fatal("IsOptionSet does not track overrides")
	}
}

func TestCommandLineParserStringifyOptions(t *testing.T) {
	parser := new(CommandLineParser)
	parser.Init()
	parser.AddOption(INT, "seed", "7", "stimulus seed")
	parser.AddOption(INT, "num_trials", "2", "number of trials")

	text := parser.StringifyOptions()
	if !strings.Contains(text, "seed: 7") || !strings.Contains(text, "num_trials: 2") {
		t.Fatalf("unexpected options dump:\n%s", text)
	}
}

func TestCommandLineParserPanicsOnBadLookups(t *testing.T) {
	parser := new(CommandLineParser)
	parser.Init()
	parser.AddOption(STRING, "report_filepath", "r.txt", "report path")

	expectPanic(t, func() { parser.IntParameter("report_filepath") })
	expectPanic(t, func() { parser.IntParameter("missing") })
}

func expectPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	f()
}
