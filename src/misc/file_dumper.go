package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDumper writes report lines to a file, creating parent directories as
// needed. Each WriteLines call truncates and rewrites the target.
type FileDumper struct {
	filepath string
}

func (this *FileDumper) Init(filepath_ string) {
	this.filepath = filepath_
}

func (this *FileDumper) WriteLines(lines []string) {
	dirpath := filepath.Dir(this.filepath)
	if dirpath != "." {
		if err := os.MkdirAll(dirpath, 0o755); err != nil {
			panic(err)
		}
	}

	text := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(this.filepath, []byte(text), 0o644); err != nil {
		panic(err)
	}
}
