package relation

import (
	"regexp"
	"strconv"

	"github.com/dbwatch/ora-monitoring/utils"

	graphviz "github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/scylladb/go-set"
	"github.com/scylladb/go-set/strset"
)

// Extractor harvests (blocker, blocked) session pairs from free text. The
// pattern must have two groups.
type Extractor struct {
	Name    string
	pattern *regexp.Regexp
}

var (
	BlockingExtractor = Extractor{
		Name:    "blocking",
		pattern: regexp.MustCompile(`SID (\d+) is blocking status \w+ blocking (\d+)`),
	}
	LockingExtractor = Extractor{
		Name:    "locking",
		pattern: regexp.MustCompile(`SID (\d+) is (?:blocking|locking) (?:the )?sessions? (\d+)`),
	}
)

// Extract adds every matching line to r and returns the number of matches.
func (e Extractor) Extract(lines []string, r *Relations) int {
	matched := 0
	for _, line := range lines {
		m := e.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		r.Add(m[1], m[2])
		matched++
	}
	return matched
}

type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Relations is a deduplicated set of session pairs. Edges and nodes keep
// first-seen order.
type Relations struct {
	seen    *strset.Set
	edges   []Edge
	nodeSet *strset.Set
	nodes   []string
}

func NewRelations() *Relations {
	return &Relations{
		seen:    set.NewStringSet(),
		nodeSet: set.NewStringSet(),
	}
}

// Add records the pair and reports whether it was new.
func (r *Relations) Add(from, to string) bool {
	key := from + "->" + to
	if r.seen.Has(key) {
		return false
	}
	r.seen.Add(key)
	r.edges = append(r.edges, Edge{From: from, To: to})
	for _, n := range []string{from, to} {
		if !r.nodeSet.Has(n) {
			r.nodeSet.Add(n)
			r.nodes = append(r.nodes, n)
		}
	}
	return true
}

func (r *Relations) Edges() []Edge {
	return r.edges
}

// Nodes is the union of all identifiers appearing in any pair.
func (r *Relations) Nodes() []string {
	return r.nodes
}

func (r *Relations) Len() int {
	return len(r.edges)
}

type Node struct {
	ID    int64  `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

type GraphEdge struct {
	From int64 `json:"from" yaml:"from"`
	To   int64 `json:"to" yaml:"to"`
}

type Graph struct {
	Nodes []Node      `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// Graph returns the first maxNodes nodes and the first maxEdges edges.
func (r *Relations) Graph(maxNodes, maxEdges int) Graph {
	g := Graph{Nodes: []Node{}, Edges: []GraphEdge{}}
	for _, n := range r.nodes {
		if len(g.Nodes) >= maxNodes {
			break
		}
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			continue
		}
		g.Nodes = append(g.Nodes, Node{ID: id, Label: "SID " + n})
	}
	for _, e := range r.edges {
		if len(g.Edges) >= maxEdges {
			break
		}
		from, err1 := strconv.ParseInt(e.From, 10, 64)
		to, err2 := strconv.ParseInt(e.To, 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		g.Edges = append(g.Edges, GraphEdge{From: from, To: to})
	}
	return g
}

var bytesBufferPool utils.BytesBufferPool

// Render builds the graph with graphviz and lays it out in format.
func (g Graph) Render(name string, format graphviz.Format) ([]byte, error) {
	gv := graphviz.New()
	defer gv.Close()
	graph, err := gv.Graph(graphviz.Name(name), graphviz.Directed)
	if err != nil {
		return nil, err
	}
	defer graph.Close()

	nodes := make(map[int64]*cgraph.Node, len(g.Nodes))
	node := func(id int64) (*cgraph.Node, error) {
		if n, ok := nodes[id]; ok {
			return n, nil
		}
		n, err := graph.CreateNode(strconv.FormatInt(id, 10))
		if err != nil {
			return nil, err
		}
		n.SetShape(cgraph.EllipseShape)
		nodes[id] = n
		return n, nil
	}
	for _, n := range g.Nodes {
		cn, err := node(n.ID)
		if err != nil {
			return nil, err
		}
		cn.SetLabel(n.Label)
	}
	for i, e := range g.Edges {
		from, err := node(e.From)
		if err != nil {
			return nil, err
		}
		to, err := node(e.To)
		if err != nil {
			return nil, err
		}
		if _, err := graph.CreateEdge("e"+strconv.Itoa(i), from, to); err != nil {
			return nil, err
		}
	}

	buf := bytesBufferPool.Get()
	defer bytesBufferPool.Put(buf)
	if err := gv.Render(graph, format, buf); err != nil {
		return nil, err
	}
	res := make([]byte, buf.Len())
	copy(res, buf.Bytes())
	return res, nil
}

// DOT returns the laid out graph in the dot language.
func (g Graph) DOT(name string) ([]byte, error) {
	return g.Render(name, graphviz.XDOT)
}

func (g Graph) SVG(name string) ([]byte, error) {
	return g.Render(name, graphviz.SVG)
}
