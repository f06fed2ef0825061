package simulator

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/wenbo-li-ee/cpaep2526-project/src/misc"
	"github.com/wenbo-li-ee/cpaep2526-project/src/simulator/gemm"
	"github.com/wenbo-li-ee/cpaep2526-project/src/simulator/verif"
)

// Simulator wires the stimulus driver, the accelerator model, and the
// verification harness into a campaign of trials. Each trial builds a fresh
// accelerator, runs one GEMM to completion, and checks every output element
// against the golden model.
type Simulator struct {
	params  gemm.Parameters
	driver  *verif.Driver
	harness *verif.Harness

	numTrials      int
	mTiles         int
	kTiles         int
	nTiles         int
	maxRandomTiles int
	seed           int64
	showProgress   bool
	reportFilepath string

	trialsRun         int
	trialsPassed      int
	timeoutTrials     int
	mismatchElements  int
	totalCycles       int64
	totalResultPulses int
	firstFailure      string
}

func (this *Simulator) Init(command_line_parser *misc.CommandLineParser) {
	this.params = gemm.Parameters{
		InDataWidth:  command_line_parser.IntParameter("in_data_width"),
		OutDataWidth: command_line_parser.IntParameter("out_data_width"),
		NumPEM:       command_line_parser.IntParameter("num_pe_m"),
		NumPEN:       command_line_parser.IntParameter("num_pe_n"),
		NumIPK:       command_line_parser.IntParameter("num_ip_k"),
		AddrWidth:    command_line_parser.IntParameter("addr_width"),
		DimWidth:     command_line_parser.IntParameter("dim_width"),
	}

	this.numTrials = command_line_parser.IntParameter("num_trials")
	this.mTiles = command_line_parser.IntParameter("m_tiles")
	this.kTiles = command_line_parser.IntParameter("k_tiles")
	this.nTiles = command_line_parser.IntParameter("n_tiles")
	this.maxRandomTiles = command_line_parser.IntParameter("max_random_tiles")
	this.seed = int64(command_line_parser.IntParameter("seed"))
	this.showProgress = command_line_parser.IntParameter("progress") == 1
	this.reportFilepath = command_line_parser.StringParameter("report_filepath")

	this.driver = verif.NewDriver(this.params, this.seed)
	this.harness = verif.NewHarness()
	this.harness.TimeoutCycles = int64(command_line_parser.IntParameter("timeout_cycles"))
	this.harness.FatalOnMismatch = command_line_parser.IntParameter("fatal_on_mismatch") == 1
}

// Run executes the campaign. Timeouts abort immediately; mismatches abort in
// fail-fast mode and are otherwise tallied across the whole campaign.
func (this *Simulator) Run() error {
	if err := this.params.Validate(); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if this.showProgress {
		bar = progressbar.Default(int64(this.numTrials), "gemm trials")
	}

	for trial := 0; trial < this.numTrials; trial++ {
		err := this.runTrial(trial)
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			this.firstFailure = err.Error()
			klog.Errorf("trial %d failed: %v", trial, err)
			return errors.Wrapf(err, "trial %d", trial)
		}
	}

	if this.mismatchElements > 0 {
		this.firstFailure = fmt.Sprintf("%d mismatched elements across the campaign", this.mismatchElements)
		return errors.Errorf("campaign finished with %d mismatched elements", this.mismatchElements)
	}
	return nil
}

func (this *Simulator) runTrial(trial int) error {
	mTiles, kTiles, nTiles := this.mTiles, this.kTiles, this.nTiles
	if mTiles == 0 || kTiles == 0 || nTiles == 0 {
		mTiles, kTiles, nTiles = this.driver.RandomSizes(this.maxRandomTiles)
	}
	this.trialsRun++

	accelerator, err := gemm.NewAccelerator(this.params)
	if err != nil {
		return err
	}

	p := this.params
	a := this.driver.RandomMatrix(mTiles*p.NumPEM, kTiles*p.NumIPK)
	b := this.driver.RandomMatrix(kTiles*p.NumIPK, nTiles*p.NumPEN)
	this.driver.LoadA(accelerator, a, mTiles, kTiles)
	this.driver.LoadB(accelerator, b, kTiles, nTiles)

	run, err := this.harness.RunAndWait(accelerator, mTiles, kTiles, nTiles)
	this.totalCycles += run.Cycles
	if run.TimedOut {
		this.timeoutTrials++
	}
	if err != nil {
		return err
	}

	stats := accelerator.Stats()
	this.totalResultPulses += stats.ResultPulses
	if err := checkWriteOrder(stats.CWriteAddrs, mTiles*nTiles); err != nil {
		return err
	}

	actual := this.driver.ReadC(accelerator, mTiles, nTiles)
	expected := verif.ExpectedC(a, b, p.OutDataWidth)
	compare, err := this.harness.Compare(expected, actual)
	this.mismatchElements += compare.Mismatches
	if err != nil {
		return err
	}
	if compare.Mismatches == 0 {
		this.trialsPassed++
	}

	klog.V(1).Infof("trial %d: sizes (%d, %d, %d), %d cycles, %d C tiles, %d mismatches",
		trial, mTiles, kTiles, nTiles, run.Cycles, stats.ResultPulses, compare.Mismatches)
	return nil
}

// checkWriteOrder enforces the strictly row-major C tile order the delayed
// address scheme depends on.
func checkWriteOrder(addrs []int, wantTiles int) error {
	if len(addrs) != wantTiles {
		return errors.Errorf("expected %d C tile writes, observed %d", wantTiles, len(addrs))
	}
	for i, addr := range addrs {
		if addr != i {
			return errors.Errorf("C tile write %d went to address %d, breaking row-major order", i, addr)
		}
	}
	return nil
}

// Dump writes the campaign report.
func (this *Simulator) Dump() {
	status := "PASS"
	if this.firstFailure != "" {
		status = "FAIL"
	}

	lines := []string{
		fmt.Sprintf("gemm_campaign_status: %s", status),
		fmt.Sprintf("gemm_grid_shape: %dx%dx%d", this.params.NumPEM, this.params.NumPEN, this.params.NumIPK),
		fmt.Sprintf("gemm_data_widths: in=%d out=%d", this.params.InDataWidth, this.params.OutDataWidth),
		fmt.Sprintf("gemm_seed: %d", this.seed),
		fmt.Sprintf("gemm_trials_total: %d", this.trialsRun),
		fmt.Sprintf("gemm_trials_passed: %d", this.trialsPassed),
		fmt.Sprintf("gemm_trials_timed_out: %d", this.timeoutTrials),
		fmt.Sprintf("gemm_mismatch_elements_total: %d", this.mismatchElements),
		fmt.Sprintf("gemm_result_pulses_total: %d", this.totalResultPulses),
		fmt.Sprintf("gemm_cycles_total: %s", humanize.Comma(this.totalCycles)),
	}
	if this.firstFailure != "" {
		lines = append(lines, fmt.Sprintf("gemm_first_failure: %s", this.firstFailure))
	}

	file_dumper := new(misc.FileDumper)
	file_dumper.Init(this.reportFilepath)
	file_dumper.WriteLines(lines)
}

func (this *Simulator) Fini() {
	klog.Flush()
}

// TrialsPassed reports how many trials completed with zero mismatches.
func (this *Simulator) TrialsPassed() int {
	return this.trialsPassed
}

// TotalCycles reports the cycles consumed across the campaign.
func (this *Simulator) TotalCycles() int64 {
	return this.totalCycles
}
