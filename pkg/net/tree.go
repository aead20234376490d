package net

import (
	"github.com/laidout/impose/pkg/errors"
)

type edgeKey struct{ a, b int }

func keyOf(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

type faceEdge struct{ face, edge int }

// LinkFaces rebuilds every face's Links from edges that share both point
// indexes. An edge used by more than two faces is an error.
func (n *Net) LinkFaces() error {
	shared := make(map[edgeKey][]faceEdge)
	for fi := range n.Faces {
		f := &n.Faces[fi]
		f.Links = make([]int, len(f.Points))
		for e := range f.Points {
			f.Links[e] = NoLink
			a, b := f.Edge(e)
			k := keyOf(a, b)
			shared[k] = append(shared[k], faceEdge{fi, e})
		}
	}
	for k, uses := range shared {
		switch len(uses) {
		case 1:
		case 2:
			x, y := uses[0], uses[1]
			n.Faces[x.face].Links[x.edge] = y.face
			n.Faces[y.face].Links[y.edge] = x.face
		default:
			return errors.New(errors.ErrCodeInvalidNet, "edge %d-%d is shared by %d faces", k.a, k.b, len(uses))
		}
	}
	return nil
}

// Tree is a spanning tree of a net's faces, rooted at the face that stays
// put when the net is folded up.
type Tree struct {
	Root int `json:"root"`
	// Parent[f] is the face f hinges on, or -1 for the root.
	Parent []int `json:"parent"`
	// Hinge[f] is the edge of face f shared with its parent, or -1.
	Hinge []int `json:"hinge"`
	// Depth[f] counts hinges between f and the root.
	Depth []int `json:"depth"`
	// Order lists faces breadth first from the root.
	Order []int `json:"order"`
}

// Children returns the faces hinged directly on f, in BFS order.
func (t *Tree) Children(f int) []int {
	var out []int
	for _, c := range t.Order {
		if t.Parent[c] == f {
			out = append(out, c)
		}
	}
	return out
}

// FoldTree walks the face links breadth first from root.
func (n *Net) FoldTree(root int) (*Tree, error) {
	if root < 0 || root >= len(n.Faces) {
		return nil, errors.New(errors.ErrCodeOutOfRange, "root face %d out of range", root)
	}
	count := len(n.Faces)
	t := &Tree{
		Root:   root,
		Parent: make([]int, count),
		Hinge:  make([]int, count),
		Depth:  make([]int, count),
		Order:  make([]int, 0, count),
	}
	seen := make([]bool, count)
	for i := range t.Parent {
		t.Parent[i], t.Hinge[i] = -1, -1
	}

	seen[root] = true
	queue := []int{root}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		t.Order = append(t.Order, f)
		for e, to := range n.Faces[f].Links {
			if to < 0 || to >= count || seen[to] {
				continue
			}
			seen[to] = true
			a, b := n.Faces[f].Edge(e)
			t.Parent[to] = f
			t.Hinge[to] = n.edgeTo(to, a, b, f)
			t.Depth[to] = t.Depth[f] + 1
			queue = append(queue, to)
		}
	}

	if len(t.Order) != count {
		return t, errors.New(errors.ErrCodeNetDisconnected,
			"only %d of %d faces are reachable from face %d", len(t.Order), count, root)
	}
	return t, nil
}
