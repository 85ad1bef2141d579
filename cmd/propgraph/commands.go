package main

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/DmitriyVTitov/size"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/orneryd/propgraph/pkg/graph"
	"github.com/orneryd/propgraph/pkg/traversal"
)

type (
	vertex = graph.Vertex[string, string, string, any]
	edge   = graph.Edge[string, string, string, any]
	walk   = traversal.Options[string, string, string, any]
	step   = traversal.Step[string, string, string, any]
)

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Show element counts, label histograms and memory footprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Graph %s (%s)\n", g.ID(), g.Label())
			fmt.Fprintf(w, "  vertices:    %s\n", humanize.Comma(int64(g.NumberOfVertices())))
			fmt.Fprintf(w, "  edges:       %s\n", humanize.Comma(int64(g.NumberOfEdges())))
			fmt.Fprintf(w, "  hyperedges:  %s\n", humanize.Comma(int64(g.NumberOfHyperEdges())))
			fmt.Fprintf(w, "  multiedges:  %s\n", humanize.Comma(int64(g.NumberOfMultiEdges())))
			fmt.Fprintf(w, "  components:  %s\n", humanize.Comma(int64(g.NumberOfComponents(nil))))
			if n := size.Of(g); n >= 0 {
				fmt.Fprintf(w, "  memory:      ~%s\n", humanize.Bytes(uint64(n)))
			}

			histogram(w, "vertex labels", labelCounts(g.Vertices()))
			histogram(w, "edge labels", labelCounts(g.Edges()))
			return nil
		},
	}
}

func (a *app) componentsCmd() *cobra.Command {
	var exclude []string
	cmd := &cobra.Command{
		Use:   "components <file>",
		Short: "List weakly connected components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			var filter func(*edge) bool
			if len(exclude) > 0 {
				filter = func(e *edge) bool { return !slices.Contains(exclude, e.Label()) }
			}
			parts, err := g.ComponentsWithOptions(cmd.Context(), graph.ComponentOptions[string, string, string, any]{
				Factory: func(i int) (*graph.PropertyGraph, error) {
					return graph.New[string, string, string, any](fmt.Sprintf("%s-%d", g.ID(), i), "Component", a.cfg.GraphOptions())
				},
				EdgeFilter:  filter,
				Parallelism: a.cfg.Components.Parallelism,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d components\n", len(parts))
			for _, p := range parts {
				ids := graph.VertexIDs(p.Vertices())
				fmt.Fprintf(w, "  %s: %d vertices, %d edges [%s]\n",
					p.ID(), p.NumberOfVertices(), p.NumberOfEdges(), preview(ids, 5))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&exclude, "exclude-label", nil, "Edge labels that do not connect components")
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	var strictSchema bool
	cmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Extract the label-level schema graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			opts := a.cfg.SchemaOptions()
			opts.ContinuousLearning = false
			opts.EnforceSchema = false
			if cmd.Flags().Changed("strict-schema") {
				opts.Strict = strictSchema
			}
			s, err := g.SchemaGraph(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			sg := s.Graph()
			fmt.Fprintf(w, "Schema %s: %d vertex labels, %d edge label pairs\n", sg.ID(), sg.NumberOfVertices(), sg.NumberOfEdges())
			for v := range sg.Vertices() {
				fmt.Fprintf(w, "  (%s)\n", v.ID())
			}
			for e := range sg.Edges() {
				fmt.Fprintf(w, "  (%s)-[%s]->(%s)\n", e.OutVertexID(), e.Label(), e.InVertexID())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strictSchema, "strict-schema", false, "Fail when an edge label joins more than one label pair")
	return cmd
}

func (a *app) neighborsCmd() *cobra.Command {
	var (
		direction string
		labels    []string
		depth     int
	)
	cmd := &cobra.Command{
		Use:   "neighbors <file> <vertex-id>",
		Short: "Walk the neighbourhood of a vertex breadth-first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := traversal.ParseDirection(direction)
			if err != nil {
				return err
			}
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			start, err := g.GetVertex(args[1])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			return traversal.BFS(start, walk{Direction: dir, Labels: labels, MaxDepth: depth}, func(s step) bool {
				if s.Via == nil {
					fmt.Fprintf(w, "%s (%s)\n", s.Vertex.ID(), s.Vertex.Label())
					return true
				}
				fmt.Fprintf(w, "%s%s (%s) via %s [%s]\n",
					strings.Repeat("  ", s.Depth), s.Vertex.ID(), s.Vertex.Label(), s.Via.ID(), s.Via.Label())
				return true
			})
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "both", "Edges to follow: out, in or both")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Only follow edges with these labels")
	cmd.Flags().IntVar(&depth, "depth", 1, "Maximum number of hops (0 is unbounded)")
	return cmd
}

func (a *app) pathCmd() *cobra.Command {
	var (
		direction string
		labels    []string
	)
	cmd := &cobra.Command{
		Use:   "path <file> <from> <to>",
		Short: "Find an unweighted shortest path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := traversal.ParseDirection(direction)
			if err != nil {
				return err
			}
			g, err := a.load(args[0])
			if err != nil {
				return err
			}
			from, err := g.GetVertex(args[1])
			if err != nil {
				return err
			}
			to, err := g.GetVertex(args[2])
			if err != nil {
				return err
			}
			p, err := traversal.ShortestPath(from, to, walk{Direction: dir, Labels: labels})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d hops\n", p.Len())
			fmt.Fprintln(w, formatPath(p.Vertices, p.Edges))
			return nil
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "out", "Edges to follow: out, in or both")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Only follow edges with these labels")
	return cmd
}

func formatPath(vs []*vertex, es []*edge) string {
	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			e := es[i-1]
			if e.OutVertexID() == vs[i-1].ID() {
				fmt.Fprintf(&sb, " -[%s]-> ", e.Label())
			} else {
				fmt.Fprintf(&sb, " <-[%s]- ", e.Label())
			}
		}
		sb.WriteString(v.ID())
	}
	return sb.String()
}

type labeled interface{ Label() string }

func labelCounts[T labeled](seq iter.Seq[T]) map[string]int {
	counts := make(map[string]int)
	for el := range seq {
		counts[el.Label()]++
	}
	return counts
}

// histogram prints counts by descending frequency, ties by label.
func histogram(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	labels := slices.Collect(maps.Keys(counts))
	slices.SortFunc(labels, func(a, b string) int {
		if d := counts[b] - counts[a]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	fmt.Fprintf(w, "%s:\n", title)
	for _, l := range labels {
		fmt.Fprintf(w, "  %-20s %s\n", l, humanize.Comma(int64(counts[l])))
	}
}

func preview(ids []string, n int) string {
	if len(ids) <= n {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:n], ", ") + fmt.Sprintf(", … (+%d)", len(ids)-n)
}
