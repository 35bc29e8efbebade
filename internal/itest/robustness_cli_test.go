//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

const cliTimeout = 60 * time.Second

type robustCase struct {
	name            string
	args            func(t *testing.T) []string
	env             map[string]string
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

// fixtures creates a stub input file and a non-media file. Cases that fail
// before ffmpeg touches the input only need the path to exist.
func fixtures(t *testing.T) (sample, notMedia string) {
	t.Helper()
	dir := t.TempDir()
	sample = filepath.Join(dir, "sample.mp4")
	notMedia = filepath.Join(dir, "not-media.txt")
	if err := os.WriteFile(sample, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write sample fixture: %v", err)
	}
	if err := os.WriteFile(notMedia, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write text fixture: %v", err)
	}
	return sample, notMedia
}

func TestRobustness_ArgsValidation(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	sample, _ := fixtures(t)

	cases := []robustCase{
		{
			name:         "no args",
			args:         staticArgs(),
			wantContains: []string{"accepts 1 arg(s), received 0"},
		},
		{
			name:         "too many args",
			args:         staticArgs(sample, "extra"),
			wantContains: []string{"accepts 1 arg(s), received 2"},
		},
		{
			name:         "unknown flag",
			args:         staticArgs(sample, "--wat"),
			wantContains: []string{"unknown flag: --wat"},
		},
		{
			name:         "clips non int",
			args:         staticArgs(sample, "--clips", "nope"),
			wantContains: []string{`invalid argument "nope" for "--clips"`},
		},
		{
			name: "clips zero",
			args: staticArgs(sample, "--clips", "0"),
			env: map[string]string{
				"GEMINI_API_KEY": "dummy",
			},
			wantContains: []string{"config: clips must be > 0"},
		},
		{
			name: "min above max",
			args: staticArgs(sample, "--min", "90", "--max", "60"),
			env: map[string]string{
				"GEMINI_API_KEY": "dummy",
			},
			wantContains: []string{"config: min clip must be <= max clip"},
		},
		{
			name:         "missing api key",
			args:         staticArgs(sample),
			env:          map[string]string{"GEMINI_API_KEY": ""},
			wantContains: []string{"GEMINI_API_KEY is required"},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_InvalidInputMedia(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	_, notMedia := fixtures(t)

	cases := []robustCase{
		{
			name: "missing input path",
			args: staticArgs(filepath.Join(repoRoot, "does-not-exist.mp4")),
			env: map[string]string{
				"GEMINI_API_KEY": "dummy",
			},
			wantContains: []string{"config: stat input:"},
		},
		{
			name: "input is non media file",
			args: staticArgs(notMedia),
			env: map[string]string{
				"GEMINI_API_KEY": "dummy",
			},
			wantContains: []string{"ffmpeg extract audio:"},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args(t), tc.env)
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./cmd/shortclips"}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
		env,
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

func staticArgs(args ...string) func(t *testing.T) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
