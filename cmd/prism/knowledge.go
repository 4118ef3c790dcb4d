// Knowledge commands for the prism CLI.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/prism/internal/memex"
	"github.com/mesh-intelligence/prism/pkg/types"
)

// flagFindSeed loads the built-in graph before searching, so find works
// against the default in-memory DSN without a prior seed run.
var flagFindSeed bool

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect the knowledge network",
	Long: `Work with the memex knowledge network. With the default in-memory DSN
the graph lives only for the duration of one command; configure
knowledge.dsn with a file path to persist it across runs.`,
}

var knowledgeSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in seed graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := openKnowledge()
		if err != nil {
			return err
		}
		defer net.Close()

		if err := seedGraph(net); err != nil {
			return fmt.Errorf("seed graph: %w", err)
		}
		nodes, relations, err := net.Counts()
		if err != nil {
			return fmt.Errorf("count graph: %w", err)
		}

		if flagJSON {
			out, err := json.MarshalIndent(map[string]int{
				"nodes":     nodes,
				"relations": relations,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d nodes and %d relations\n", nodes, relations)
		return nil
	},
}

var knowledgeFindCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search nodes by name or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		net, err := openKnowledge()
		if err != nil {
			return err
		}
		defer net.Close()

		if flagFindSeed {
			if err := seedGraph(net); err != nil {
				return fmt.Errorf("seed graph: %w", err)
			}
		}

		nodes, err := net.FindNodes(args[0], 20)
		if err != nil {
			return fmt.Errorf("find nodes: %w", err)
		}

		if flagJSON {
			out, err := json.MarshalIndent(nodes, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		w := cmd.OutOrStdout()
		if len(nodes) == 0 {
			fmt.Fprintf(w, "no nodes match %q\n", args[0])
			return nil
		}
		for _, n := range nodes {
			fmt.Fprintf(w, "%d\t%s\t%s (strength %.2f)\n", n.ID, n.Type, n.Name, n.Strength)
		}
		return nil
	},
}

func init() {
	knowledgeFindCmd.Flags().BoolVar(&flagFindSeed, "seed", false, "load the built-in graph before searching")

	knowledgeCmd.AddCommand(knowledgeSeedCmd)
	knowledgeCmd.AddCommand(knowledgeFindCmd)
}

// openKnowledge opens the knowledge network at the configured DSN.
func openKnowledge() (*memex.Network, error) {
	net, err := memex.Open(cfg.Knowledge.DSN, memex.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open knowledge network: %w", err)
	}
	return net, nil
}

// seedGraph loads a small built-in graph of platform concepts.
func seedGraph(net *memex.Network) error {
	seeds := []struct {
		typ, name, desc string
	}{
		{types.NodeConcept, "quantum entanglement", "correlation shared between distant systems"},
		{types.NodeConcept, "superposition", "linear combination of basis states"},
		{types.NodeEvent, "decoherence", "loss of quantum behavior through interaction"},
		{types.NodeEntity, "reality engine", "bounded registry of spaces and their objects"},
		{types.NodeEntity, "entanglement provider", "issues, synchronizes, and destroys handles"},
		{types.NodeResource, "qubit budget", "qubits the platform may allocate"},
		{types.NodeQuantum, "bell pair", "maximally entangled two-qubit state"},
	}

	ids := make([]uint64, 0, len(seeds))
	for _, s := range seeds {
		node, err := net.CreateNode(s.typ, s.name, s.desc)
		if err != nil {
			return err
		}
		ids = append(ids, node.ID)
	}

	relations := []struct {
		typ      string
		src, dst int // index into ids
		strength float64
	}{
		{types.RelationRelatedTo, 0, 1, 0.8}, // entanglement <-> superposition
		{types.RelationCauses, 2, 0, 0.6},    // decoherence breaks entanglement
		{types.RelationPartOf, 5, 4, 0.9},    // qubit budget belongs to the provider
		{types.RelationEntangled, 6, 0, 1.0}, // bell pair realizes entanglement
		{types.RelationIsA, 6, 1, 0.7},       // bell pair is a superposition
		{types.RelationRelatedTo, 3, 4, 0.9}, // engine works with the provider
	}
	for _, r := range relations {
		if _, err := net.CreateRelation(r.typ, ids[r.src], ids[r.dst], r.strength); err != nil {
			return err
		}
	}
	return nil
}
