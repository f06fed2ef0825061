package misc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type OptionKind int

const (
	INT OptionKind = iota
	STRING
)

type option struct {
	kind          OptionKind
	name          string
	default_value string
	value         string
	help_msg      string
	is_set        bool
}

// CommandLineParser holds the registered options and the values parsed from
// os.Args. Options are written as --name value or --name=value; anything that
// is not a registered option is kept as a bare argument for IsArgSet.
type CommandLineParser struct {
	options map[string]*option
	args    map[string]bool
}

func (this *CommandLineParser) Init() {
	this.options = make(map[string]*option)
	this.args = make(map[string]bool)
}

func (this *CommandLineParser) AddOption(kind OptionKind, name string, default_value string, help_msg string) {
	this.options[name] = &option{
		kind:          kind,
		name:          name,
		default_value: default_value,
		value:         default_value,
		help_msg:      help_msg,
	}
}

func (this *CommandLineParser) Parse(args []string) {
	i := 1
	for i < len(args) {
		arg := strings.TrimLeft(args[i], "-")

		if name, value, found := strings.Cut(arg, "="); found {
			if opt, ok := this.options[name]; ok {
				opt.value = value
				opt.is_set = true
			} else {
				this.args[arg] = true
			}
			i++
			continue
		}

		if opt, ok := this.options[arg]; ok {
			if i+1 >= len(args) {
				err := fmt.Errorf("option %s is missing a value", arg)
				panic(err)
			}
			opt.value = args[i+1]
			opt.is_set = true
			i += 2
			continue
		}

		this.args[arg] = true
		i++
	}
}

func (this *CommandLineParser) IsArgSet(name string) bool {
	return this.args[name]
}

func (this *CommandLineParser) IsOptionSet(name string) bool {
	if opt, ok := this.options[name]; ok {
		return opt.is_set
	}
	return false
}

func (this *CommandLineParser) IntParameter(name string) int {
	opt, ok := this.options[name]
	if !ok {
		err := fmt.Errorf("option %s is not registered", name)
		panic(err)
	}
	if opt.kind != INT {
		err := fmt.Errorf("option %s is not an int option", name)
		panic(err)
	}

	value, parse_err := strconv.Atoi(opt.value)
	if parse_err != nil {
		err := fmt.Errorf("option %s has a non-int value %s", name, opt.value)
		panic(err)
	}
	return value
}

func (this *CommandLineParser) StringParameter(name string) string {
	opt, ok := this.options[name]
	if !ok {
		err := fmt.Errorf("option %s is not registered", name)
		panic(err)
	}
	if opt.kind != STRING {
		err := fmt.Errorf("option %s is not a string option", name)
		panic(err)
	}
	return opt.value
}

func (this *CommandLineParser) StringifyHelpMsgs() string {
	names := this.sortedNames()

	var builder strings.Builder
	for _, name := range names {
		opt := this.options[name]
		builder.WriteString(fmt.Sprintf("--%s (default: %s)\n    %s\n", opt.name, opt.default_value, opt.help_msg))
	}
	return builder.String()
}

func (this *CommandLineParser) StringifyArgs() string {
	args := make([]string, 0, len(this.args))
	for arg := range this.args {
		args = append(args, arg)
	}
	sort.Strings(args)
	return strings.Join(args, " ")
}

func (this *CommandLineParser) StringifyOptions() string {
	names := this.sortedNames()

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s", name, this.options[name].value))
	}
	return strings.Join(lines, "\n")
}

func (this *CommandLineParser) sortedNames() []string {
	names := make([]string, 0, len(this.options))
	for name := range this.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
