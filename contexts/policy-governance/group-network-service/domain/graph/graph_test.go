package graph

import (
	"testing"

	"concord/contexts/policy-governance/group-network-service/domain/entities"
)

func edges(pairs ...[2]string) []entities.GroupRelationship {
	var rels []entities.GroupRelationship
	for _, pair := range pairs {
		rels = append(rels, entities.GroupRelationship{ParentGroupID: pair[0], ChildGroupID: pair[1]})
	}
	return rels
}

func TestShortestPathMinimalHops(t *testing.T) {
	// chapter -> region -> national, plus a longer detour through committee.
	g := New(edges(
		[2]string{"region", "chapter"},
		[2]string{"national", "region"},
		[2]string{"committee", "chapter"},
		[2]string{"national", "committee-board"},
		[2]string{"committee-board", "committee"},
	))

	steps, found := g.ShortestPath([]string{"chapter"}, "national")
	if !found {
		t.Fatalf("expected a route")
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d: %+v", len(steps), steps)
	}
	if steps[0].GroupID != "chapter" || steps[0].Relation != entities.RelationKindMember || steps[0].Distance != 0 {
		t.Fatalf("unexpected origin step: %+v", steps[0])
	}
	if steps[1].GroupID != "region" || steps[1].Relation != entities.RelationKindParent {
		t.Fatalf("unexpected middle step: %+v", steps[1])
	}
	if steps[2].GroupID != "national" || steps[2].Distance != 2 {
		t.Fatalf("unexpected target step: %+v", steps[2])
	}
}

func TestShortestPathNoRoute(t *testing.T) {
	g := New(edges([2]string{"region", "chapter"}))
	if _, found := g.ShortestPath([]string{"chapter"}, "island"); found {
		t.Fatalf("expected no route to disconnected group")
	}
}

func TestShortestPathTerminatesOnCycles(t *testing.T) {
	g := New(edges(
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "a"},
	))
	steps, found := g.ShortestPath([]string{"a"}, "c")
	if !found || len(steps) != 2 {
		t.Fatalf("expected direct 2-step route through the cycle, got %v %v", steps, found)
	}
}

func TestShortestPathDeterministicTieBreak(t *testing.T) {
	// Two equal-length routes to the target; the lexicographically smaller
	// intermediate group must win regardless of edge order.
	for _, ordered := range [][]entities.GroupRelationship{
		edges([2]string{"mid-a", "start"}, [2]string{"mid-b", "start"}, [2]string{"goal", "mid-a"}, [2]string{"goal", "mid-b"}),
		edges([2]string{"mid-b", "start"}, [2]string{"mid-a", "start"}, [2]string{"goal", "mid-b"}, [2]string{"goal", "mid-a"}),
	} {
		steps, found := New(ordered).ShortestPath([]string{"start"}, "goal")
		if !found || len(steps) != 3 {
			t.Fatalf("expected 3-step route, got %v %v", steps, found)
		}
		if steps[1].GroupID != "mid-a" {
			t.Fatalf("expected deterministic route through mid-a, got %s", steps[1].GroupID)
		}
	}
}

func TestAllPathsBoundedAndSorted(t *testing.T) {
	g := New(edges(
		[2]string{"region", "chapter"},
		[2]string{"national", "region"},
		[2]string{"committee", "chapter"},
		[2]string{"national", "committee"},
	))

	paths := g.AllPaths([]string{"chapter"}, "national", 5)
	if len(paths) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(paths))
	}
	for i := 1; i < len(paths); i++ {
		if len(paths[i-1]) > len(paths[i]) {
			t.Fatalf("paths not sorted by length: %v", paths)
		}
	}

	// Depth 1 cannot reach a 2-hop target.
	if paths := g.AllPaths([]string{"chapter"}, "national", 1); len(paths) != 0 {
		t.Fatalf("expected no routes within depth 1, got %v", paths)
	}
}

func TestBFSNeverLongerThanDFS(t *testing.T) {
	g := New(edges(
		[2]string{"b", "a"},
		[2]string{"c", "b"},
		[2]string{"d", "c"},
		[2]string{"d", "a"},
		[2]string{"e", "d"},
	))
	shortest, found := g.ShortestPath([]string{"a"}, "e")
	if !found {
		t.Fatalf("expected a route")
	}
	for _, path := range g.AllPaths([]string{"a"}, "e", 5) {
		if len(shortest) > len(path) {
			t.Fatalf("BFS route (%d) longer than DFS route (%d)", len(shortest), len(path))
		}
	}
}
