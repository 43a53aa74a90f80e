package main

import (
	"os"
	"strings"

	"board-cli/internal/cli"
)

func isScriptPath(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasSuffix(s, ".jsonl") && len(s) > len(".jsonl")
}

// rewriteScriptArgs turns `board <file.jsonl>` into `board replay <file.jsonl>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (`board --format text x.jsonl`), so this looks for the first
// positional token rather than argv[1].
func rewriteScriptArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--format":          true,
		"--record":          true,
		"--seed-containers": true,
		"--seed-items":      true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isScriptPath(argv[i+1]) {
				return insertAt(argv, i+1, "replay")
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isScriptPath(a) {
			return insertAt(argv, i, "replay")
		}
		return argv
	}
	return argv
}

func insertAt(argv []string, i int, tok string) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[:i]...)
	out = append(out, tok)
	return append(out, argv[i:]...)
}

func main() {
	os.Args = rewriteScriptArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
