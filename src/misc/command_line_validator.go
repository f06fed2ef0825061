package misc

import (
	"errors"
	"fmt"
)

type CommandLineValidator struct {
	command_line_parser *CommandLineParser
}

func (this *CommandLineValidator) Init(command_line_parser *CommandLineParser) {
	this.command_line_parser = command_line_parser
}

func (this *CommandLineValidator) Validate() {
	if this.command_line_parser.IntParameter("in_data_width") <= 0 {
		err := errors.New("in_data_width <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("in_data_width") > 32 {
		err := errors.New("in_data_width > 32")
		panic(err)
	}

	if this.command_line_parser.IntParameter("out_data_width") <= 0 {
		err := errors.New("out_data_width <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("out_data_width") > 64 {
		err := errors.New("out_data_width > 64")
		panic(err)
	}

	if this.command_line_parser.IntParameter("num_pe_m") <= 0 {
		err := errors.New("num_pe_m <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("num_pe_n") <= 0 {
		err := errors.New("num_pe_n <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("num_ip_k") <= 0 {
		err := errors.New("num_ip_k <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("addr_width") <= 0 {
		err := errors.New("addr_width <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("dim_width") <= 0 {
		err := errors.New("dim_width <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("num_trials") <= 0 {
		err := errors.New("num_trials <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("timeout_cycles") <= 0 {
		err := errors.New("timeout_cycles <= 0")
		panic(err)
	}

	for _, name := range []string{"m_tiles", "k_tiles", "n_tiles"} {
		if this.command_line_parser.IntParameter(name) < 0 {
			err := fmt.Errorf("%s < 0", name)
			panic(err)
		}
	}

	fatal_on_mismatch := this.command_line_parser.IntParameter("fatal_on_mismatch")
	if fatal_on_mismatch != 0 && fatal_on_mismatch != 1 {
		err := fmt.Errorf("fatal_on_mismatch %d is not 0 or 1", fatal_on_mismatch)
		panic(err)
	}
}
