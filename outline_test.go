package mdnav

import "testing"

// mkHeadings builds a heading list from (level, text) pairs with
// sequential source indexes and slug ids.
func mkHeadings(pairs ...any) []Heading {
	var hs []Heading
	for i := 0; i < len(pairs); i += 2 {
		hs = append(hs, Heading{
			Level:       pairs[i].(int),
			Text:        pairs[i+1].(string),
			SourceIndex: len(hs),
		})
	}
	return AssignIDs(hs)
}

func TestBuildOutline_SkippedLevels(t *testing.T) {
	headings := mkHeadings(
		1, "Intro",
		2, "Background",
		2, "Goals",
		1, "Impl",
		3, "Arch",
	)

	forest := BuildOutline(headings, nil)

	if len(forest) != 2 {
		t.Fatalf("got %d roots, want 2", len(forest))
	}
	if forest[0].Heading.Text != "Intro" || forest[1].Heading.Text != "Impl" {
		t.Fatalf("roots = %q, %q; want Intro, Impl", forest[0].Heading.Text, forest[1].Heading.Text)
	}

	intro := forest[0]
	if len(intro.Children) != 2 {
		t.Fatalf("Intro has %d children, want 2", len(intro.Children))
	}
	if intro.Children[0].Heading.Text != "Background" || intro.Children[1].Heading.Text != "Goals" {
		t.Errorf("Intro children = %q, %q; want Background, Goals",
			intro.Children[0].Heading.Text, intro.Children[1].Heading.Text)
	}

	impl := forest[1]
	if len(impl.Children) != 1 {
		t.Fatalf("Impl has %d children, want 1", len(impl.Children))
	}
	// Arch (level 3) nests directly under Impl (level 1); the skipped
	// level 2 is never synthesized.
	if impl.Children[0].Heading.Text != "Arch" {
		t.Errorf("Impl child = %q, want Arch", impl.Children[0].Heading.Text)
	}
}

func TestBuildOutline_MinHeadings(t *testing.T) {
	tests := []struct {
		name      string
		headings  []Heading
		opts      *OutlineOptions
		wantRoots int
	}{
		{
			name:      "single heading yields empty forest",
			headings:  mkHeadings(1, "Only"),
			wantRoots: 0,
		},
		{
			name:      "two same-level headings yield two roots",
			headings:  mkHeadings(2, "First", 2, "Second"),
			wantRoots: 2,
		},
		{
			name:      "no headings",
			headings:  nil,
			wantRoots: 0,
		},
		{
			name:      "raised minimum suppresses small documents",
			headings:  mkHeadings(1, "A", 2, "B", 2, "C"),
			opts:      &OutlineOptions{MinHeadings: 4},
			wantRoots: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := BuildOutline(tt.headings, tt.opts)
			if len(forest) != tt.wantRoots {
				t.Errorf("got %d roots, want %d", len(forest), tt.wantRoots)
			}
			for _, root := range forest {
				if len(root.Children) != 0 {
					t.Errorf("root %q has unexpected children", root.Heading.Text)
				}
			}
		})
	}
}

func TestBuildOutline_Invariants(t *testing.T) {
	sequences := [][]Heading{
		mkHeadings(1, "a", 2, "b", 3, "c", 2, "d", 1, "e", 6, "f"),
		mkHeadings(3, "deep start", 1, "shallow", 2, "mid"),
		mkHeadings(2, "a", 2, "b", 2, "c", 2, "d"),
		mkHeadings(6, "x", 5, "y", 4, "z", 3, "w"),
		mkHeadings(1, "a", 3, "b", 5, "c", 6, "d", 2, "e", 4, "f"),
	}

	for _, headings := range sequences {
		forest := BuildOutline(headings, nil)

		// Every child's level is strictly greater than its parent's.
		Walk(forest, func(n *OutlineNode, depth int) bool {
			for _, c := range n.Children {
				if c.Heading.Level <= n.Heading.Level {
					t.Errorf("child %q (level %d) under parent %q (level %d)",
						c.Heading.Text, c.Heading.Level, n.Heading.Text, n.Heading.Level)
				}
			}
			return true
		})

		// Pre-order traversal reproduces the original input order.
		var order []int
		Walk(forest, func(n *OutlineNode, depth int) bool {
			order = append(order, n.Heading.SourceIndex)
			return true
		})
		if len(order) != len(headings) {
			t.Fatalf("traversal visited %d nodes, want %d", len(order), len(headings))
		}
		for i, idx := range order {
			if idx != i {
				t.Errorf("pre-order position %d has source index %d", i, idx)
			}
		}
	}
}

func TestBuildOutline_RebuildsFresh(t *testing.T) {
	headings := mkHeadings(1, "Intro", 2, "Goals")

	first := BuildOutline(headings, nil)
	second := BuildOutline(headings, nil)

	if first[0] == second[0] {
		t.Error("rebuild returned a previously built node")
	}
	if first[0].Heading != second[0].Heading {
		t.Error("rebuild changed heading content")
	}
}
