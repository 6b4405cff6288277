package graph

import (
	"sort"

	"concord/contexts/policy-governance/group-network-service/domain/entities"
)

// DefaultMaxDepth bounds the alternate-route enumeration. The relationship
// graph may contain cycles; every traversal is depth- or visited-bounded.
const DefaultMaxDepth = 5

type neighbor struct {
	groupID  string
	relation entities.RelationKind
}

// Graph is an in-memory adjacency snapshot of the relationship graph, built
// once per traversal call.
type Graph struct {
	neighbors map[string][]neighbor
}

// New builds the adjacency structure. Each directed parent/child edge is
// walkable both ways: reaching the parent from the child is a "parent" hop
// and vice versa. Neighbor lists are sorted by group id so equal-length
// routes resolve deterministically instead of by edge insertion order.
func New(relationships []entities.GroupRelationship) *Graph {
	neighbors := make(map[string][]neighbor)
	for _, rel := range relationships {
		if rel.ParentGroupID == "" || rel.ChildGroupID == "" || rel.ParentGroupID == rel.ChildGroupID {
			continue
		}
		neighbors[rel.ChildGroupID] = append(neighbors[rel.ChildGroupID], neighbor{
			groupID:  rel.ParentGroupID,
			relation: entities.RelationKindParent,
		})
		neighbors[rel.ParentGroupID] = append(neighbors[rel.ParentGroupID], neighbor{
			groupID:  rel.ChildGroupID,
			relation: entities.RelationKindChild,
		})
	}
	for groupID := range neighbors {
		list := neighbors[groupID]
		sort.Slice(list, func(i, j int) bool { return list[i].groupID < list[j].groupID })
		neighbors[groupID] = list
	}
	return &Graph{neighbors: neighbors}
}

type bfsNode struct {
	groupID  string
	relation entities.RelationKind
	distance int
	parent   int
}

// ShortestPath runs a breadth-first search from the origin set to the target
// and returns the minimal-hop route, origin first. A shared visited set keeps
// cyclic graphs terminating; origins seed at distance zero with the "member"
// relation.
func (g *Graph) ShortestPath(origins []string, target string) ([]entities.PathStep, bool) {
	if target == "" || len(origins) == 0 {
		return nil, false
	}

	seeds := append([]string(nil), origins...)
	sort.Strings(seeds)

	visited := make(map[string]bool)
	var queue []bfsNode
	for _, origin := range seeds {
		if origin == "" || visited[origin] {
			continue
		}
		visited[origin] = true
		queue = append(queue, bfsNode{groupID: origin, relation: entities.RelationKindMember, parent: -1})
	}

	for head := 0; head < len(queue); head++ {
		node := queue[head]
		if node.groupID == target {
			return reconstruct(queue, head), true
		}
		for _, next := range g.neighbors[node.groupID] {
			if visited[next.groupID] {
				continue
			}
			visited[next.groupID] = true
			queue = append(queue, bfsNode{
				groupID:  next.groupID,
				relation: next.relation,
				distance: node.distance + 1,
				parent:   head,
			})
		}
	}
	return nil, false
}

func reconstruct(queue []bfsNode, head int) []entities.PathStep {
	var steps []entities.PathStep
	for at := head; at >= 0; at = queue[at].parent {
		node := queue[at]
		steps = append(steps, entities.PathStep{
			GroupID:  node.groupID,
			Relation: node.relation,
			Distance: node.distance,
		})
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// AllPaths enumerates every route from the origin set to the target up to
// maxDepth hops, sorted by ascending length. Visited tracking is per path so
// alternate routes may share intermediate groups.
func (g *Graph) AllPaths(origins []string, target string, maxDepth int) [][]entities.PathStep {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if target == "" {
		return nil
	}

	seeds := append([]string(nil), origins...)
	sort.Strings(seeds)

	var results [][]entities.PathStep
	for _, origin := range seeds {
		if origin == "" {
			continue
		}
		onPath := map[string]bool{origin: true}
		trail := []entities.PathStep{{GroupID: origin, Relation: entities.RelationKindMember}}
		g.dfs(origin, target, maxDepth, onPath, trail, &results)
	}

	sort.SliceStable(results, func(i, j int) bool { return len(results[i]) < len(results[j]) })
	return results
}

func (g *Graph) dfs(
	current string,
	target string,
	maxDepth int,
	onPath map[string]bool,
	trail []entities.PathStep,
	results *[][]entities.PathStep,
) {
	if current == target {
		*results = append(*results, append([]entities.PathStep(nil), trail...))
		return
	}
	if len(trail)-1 >= maxDepth {
		return
	}
	for _, next := range g.neighbors[current] {
		if onPath[next.groupID] {
			continue
		}
		onPath[next.groupID] = true
		trail = append(trail, entities.PathStep{
			GroupID:  next.groupID,
			Relation: next.relation,
			Distance: len(trail),
		})
		g.dfs(next.groupID, target, maxDepth, onPath, trail, results)
		trail = trail[:len(trail)-1]
		delete(onPath, next.groupID)
	}
}
