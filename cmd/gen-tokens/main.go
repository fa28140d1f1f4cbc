package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/mdview"
	"pkt.systems/mdview/lex"
)

func main() {
	root := "testdata"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no markdown files found under %s", root)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		tokens, err := lex.Markdown(src)
		if err != nil {
			fatalf("lex %s: %v", path, err)
		}
		data, err := mdview.EncodeTokens(tokens)
		if err != nil {
			fatalf("encode %s: %v", path, err)
		}
		out := tokensPath(path)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			fatalf("write %s: %v", out, err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s (%d tokens)\n", out, len(tokens))
	}
}

func tokensPath(mdPath string) string {
	return strings.TrimSuffix(mdPath, ".md") + ".tokens.json"
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
