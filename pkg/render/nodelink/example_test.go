package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/treesquares/treesquares/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := nodelink.New()
	g.AddNode(nodelink.Node{ID: "Kiruna", Label: "Kiruna", Root: true})
	g.AddEdge(nodelink.Edge{From: "Kiruna", To: "Gällivare", Weight: 4})
	g.AddEdge(nodelink.Edge{From: "Luleå", To: "Kiruna", Weight: 2})

	dot := nodelink.ToDOT(g, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "Kiruna" -> "Gällivare" [penwidth=5.00, label="4"];
	// "Luleå" -> "Kiruna" [penwidth=3.00, label="2"];
}

func ExampleGraph_Prune() {
	g := nodelink.New()
	g.AddNode(nodelink.Node{ID: "Kiruna", Root: true})
	g.AddEdge(nodelink.Edge{From: "Kiruna", To: "Abisko", Weight: 1})
	g.AddEdge(nodelink.Edge{From: "Kiruna", To: "Gällivare", Weight: 4})

	p := g.Prune(1)
	fmt.Println(p.NodeCount(), p.EdgeCount())
	// Output:
	// 2 1
}
