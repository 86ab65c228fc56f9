package passes

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"tir/internal/trace"
	"tir/ir"
	"tir/pass"
)

type statsKey struct{}

// WithStatsOutput makes the op-stats pass write its table to w.
func WithStatsOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, statsKey{}, w)
}

func statsOutput(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(statsKey{}).(io.Writer); ok {
		return w
	}
	return io.Discard
}

// OpStat is the number of operations of one kind.
type OpStat struct {
	Name  string
	Count int
}

// CountOps tallies the operations under root by qualified name, most
// frequent first, ties by name.
func CountOps(root ir.Op) []OpStat {
	counts := make(map[string]int)
	ir.Walk(root, func(op *ir.Operation) { counts[op.Name()]++ })
	out := make([]OpStat, 0, len(counts))
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, OpStat{Name: name, Count: counts[name]})
	}
	slices.SortStableFunc(out, func(a, b OpStat) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

// OpStats reports how many operations of each kind the tree holds. It does
// not modify the tree.
var OpStats = pass.NewOpPass[ir.Op]("OpPass", "op-stats", "operation", func(ctx context.Context, root ir.Op) error {
	stats := CountOps(root)
	total := 0
	width := len("total")
	for _, s := range stats {
		total += s.Count
		width = max(width, len(s.Name))
	}
	w := statsOutput(ctx)
	for _, s := range stats {
		if _, err := fmt.Fprintf(w, "%-*s %6d\n", width, s.Name, s.Count); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%-*s %6d\n", width, "total", total); err != nil {
		return err
	}
	trace.Point(trace.FromContext(ctx), trace.ScopeOp, "op-stats", fmt.Sprintf("ops=%d kinds=%d", total, len(stats)), trace.CurrentSpan(ctx))
	return nil
})
