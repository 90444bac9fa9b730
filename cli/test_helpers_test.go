package cli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/boostday/boostday/core"
)

func captureOutput(f func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func overrideLoadConfig(cfg *core.Config, testFn func()) {
	orig := core.LoadConfig
	core.LoadConfig = func(_ string) *core.Config {
		copied := *cfg
		return &copied
	}
	defer func() { core.LoadConfig = orig }()
	testFn()
}

// captureExit keeps cli.Exit from terminating the test binary.
func captureExit(t *testing.T) *int {
	t.Helper()
	code := -1
	orig := cli.OsExiter
	cli.OsExiter = func(c int) { code = c }
	t.Cleanup(func() { cli.OsExiter = orig })
	return &code
}
