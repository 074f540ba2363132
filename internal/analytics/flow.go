package analytics

import (
	"sort"

	"github.com/applytrack/applytrack/internal/db/models"
)

// Link is a weighted edge between two positions of FlowGraph.Nodes
type Link struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

// FlowGraph is a Sankey diagram of observed state-to-state moves
type FlowGraph struct {
	Nodes []string `json:"nodes"`
	Links []Link   `json:"links"`
}

type flowBuilder struct {
	graph FlowGraph
	nodes map[string]int
	links map[[2]int]int
}

func (b *flowBuilder) node(name string) int {
	if idx, ok := b.nodes[name]; ok {
		return idx
	}
	idx := len(b.graph.Nodes)
	b.nodes[name] = idx
	b.graph.Nodes = append(b.graph.Nodes, name)
	return idx
}

func (b *flowBuilder) add(from, to string) {
	key := [2]int{b.node(from), b.node(to)}
	if idx, ok := b.links[key]; ok {
		b.graph.Links[idx].Value++
		return
	}
	b.links[key] = len(b.graph.Links)
	b.graph.Links = append(b.graph.Links, Link{Source: key[0], Target: key[1], Value: 1})
}

// BuildFlowGraph counts every (from, to) pair in the ledger, with creation
// entries sourced from START. Applications without any ledger entry contribute
// a START edge to their current state. Nodes and links are ordered by first
// appearance, walking applications by id and entries by sequence.
func BuildFlowGraph(apps []models.Application, transitions []models.Transition) FlowGraph {
	b := &flowBuilder{
		graph: FlowGraph{Nodes: []string{}, Links: []Link{}},
		nodes: make(map[string]int),
		links: make(map[[2]int]int),
	}

	groups := groupByApplication(transitions)
	seen := make(map[uint]bool, len(apps))
	for _, app := range sortedByID(apps) {
		seen[app.ID] = true
		entries := groups[app.ID]
		if len(entries) == 0 {
			b.add(models.StateStart, string(app.CurrentState))
			continue
		}
		for _, t := range entries {
			b.add(t.SourceLabel(), string(t.ToState))
		}
	}

	// Entries whose application is missing from the snapshot still count.
	for _, t := range orphans(transitions, seen) {
		b.add(t.SourceLabel(), string(t.ToState))
	}
	return b.graph
}

func orphans(transitions []models.Transition, seen map[uint]bool) []models.Transition {
	var rest []models.Transition
	for _, t := range transitions {
		if !seen[t.ApplicationID] {
			rest = append(rest, t)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].ApplicationID != rest[j].ApplicationID {
			return rest[i].ApplicationID < rest[j].ApplicationID
		}
		return rest[i].Sequence < rest[j].Sequence
	})
	return rest
}
