package main

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/ling0322/pcfg"
)

// treebankExt is the extension of the treebank files loaded from a directory
const treebankExt = ".mrg"

// loadTrees reads every treebank file under path and normalizes the trees.
// Malformed trees are logged and skipped
func loadTrees(path string, logger *slog.Logger) ([]*pcfg.Tree, error) {
	files, err := treebankFiles(path)
	if err != nil {
		return nil, err
	}

	trees := []*pcfg.Tree{}
	for _, file := range files {
		fileTrees, err := readTreeFile(file, logger)
		if err != nil {
			return nil, err
		}
		trees = append(trees, fileTrees...)
	}
	logger.Info("loaded treebank", "path", path, "files", len(files), "trees", len(trees))
	return trees, nil
}

// treebankFiles returns path itself when it's a file, or the treebank files
// under it in lexical order
func treebankFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "treebankFiles")
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files := []string{}
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), treebankExt) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", path)
	}
	sort.Strings(files)
	return files, nil
}

func readTreeFile(file string, logger *slog.Logger) ([]*pcfg.Tree, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "readTreeFile")
	}
	defer f.Close()

	trees := []*pcfg.Tree{}
	reader := pcfg.NewTreeReader(f)
	for {
		tree, err := reader.Next()
		if err != nil {
			var syntaxErr *pcfg.SyntaxError
			if errors.As(err, &syntaxErr) {
				logger.Warn("skipping malformed tree", "file", file, "error", syntaxErr)
				continue
			}
			if errors.Is(err, io.EOF) {
				return trees, nil
			}
			return nil, errors.Wrapf(err, "reading %s", file)
		}
		if normalized := pcfg.StandardNormalizer.Transform(tree); normalized != nil {
			trees = append(trees, normalized)
		}
	}
}
