package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

var builtinSeeds = []string{
	"",
	"module {\n}\n",
	"module @m {\n  %0 = const attrs = {value = <i8: 16>} -> !void\n}\n",
	"// comment\nmodule @m {\n  func @id(%x: !int<32>) -> !int<32> {\n    return (%x)\n  }\n}\n",
	`module @sample {
  %0 = const attrs = {value = <i8: -16>} -> !int<8>
  func @pick(%a: !int<8>, %b: !int<8>) -> !int<8> {
    return (%b)
  } attrs = {inline = <bool: true>, lanes = <u16[]: [1, 2]>, sig = <type[]: [!int<8>, !func<(!int<8>) -> !void>]>}
  %1 = const attrs = {value = <u64: 18446744073709551615>, tag = <str: "x">} -> !int<64>
}
`,
	"module { %x = const attrs = {value = <i8: 1>, value = <i8: 2>} -> !void }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds the printer golden files, which are valid IR.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "ir", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".golden" {
			return nil
		}
		// #nosec G304 -- path comes from the repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, n int) []byte {
	if len(src) <= n {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:n]...)
}
