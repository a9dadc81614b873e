package lines

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/sourcebuf/internal/engine/search"
)

// checkBuckets verifies the structural invariants of a paged version.
func checkBuckets(t *testing.T, p *PagedVersion) {
	t.Helper()
	total := 0
	for k, b := range p.buckets {
		if b.Len() == 0 {
			t.Fatalf("bucket %d is empty", k)
		}
		if b.Len() > p.capacity {
			t.Fatalf("bucket %d holds %d lines, capacity %d", k, b.Len(), p.capacity)
		}
		if p.starts[k] != total {
			t.Fatalf("bucket %d starts at %d, want %d", k, p.starts[k], total)
		}
		total += b.Len()
	}
	if total != p.Len() {
		t.Fatalf("buckets hold %d lines, Len() = %d", total, p.Len())
	}
}

func TestNewPagedChunking(t *testing.T) {
	tests := []struct {
		lines   int
		buckets int
	}{
		{0, 0},
		{1, 1},
		{50, 1},
		{51, 2},
		{120, 3},
	}
	for _, tt := range tests {
		p := NewPaged(NewFileInfo("f", numbered(tt.lines)), 0)
		if p.Capacity() != DefaultBucketSize {
			t.Errorf("Capacity() = %d, want %d", p.Capacity(), DefaultBucketSize)
		}
		if got := len(p.Buckets()); got != tt.buckets {
			t.Errorf("%d lines: %d buckets, want %d", tt.lines, got, tt.buckets)
		}
		checkBuckets(t, p)
	}
}

func TestPagedReadAcrossBuckets(t *testing.T) {
	p := NewPaged(NewFileInfo("f", numbered(23)), 5)

	got, _, err := p.From(3, 11)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, numbered(23)[3:14]) {
		t.Errorf("From(3, 11) = %v", got)
	}
	for n := range 23 {
		if line, _ := p.Line(n); line != fmt.Sprintf("L%d", n) {
			t.Errorf("Line(%d) = %q", n, line)
		}
	}
}

func TestPagedUpdateLeavesOtherBuckets(t *testing.T) {
	p := NewPaged(NewFileInfo("f", numbered(20)), 5)
	before := p.Buckets()

	if err := p.ApplyUpdate(UpdateLines{StartingLine: 11, Count: 1, Lines: []string{"X"}}); err != nil {
		t.Fatal(err)
	}
	checkBuckets(t, p)

	after := p.Buckets()
	for _, k := range []int{0, 1, 3} {
		if after[k] != before[k] {
			t.Errorf("bucket %d was rebuilt by an edit in bucket 2", k)
		}
	}
	if after[2] == before[2] {
		t.Error("bucket 2 should have been rebuilt")
	}
}

func TestPagedSmallEditsFoldNeighbor(t *testing.T) {
	p := NewPaged(NewFileInfo("f", numbered(20)), 10)

	// Deleting 8 of the first bucket's 10 lines would leave a 2-line bucket.
	if err := p.ApplyUpdate(UpdateLines{StartingLine: 0, Count: 8}); err != nil {
		t.Fatal(err)
	}
	checkBuckets(t, p)
	if got := len(p.Buckets()); got != 2 {
		t.Errorf("expected neighbor to be folded into 2 buckets, got %d", got)
	}
	if first := p.Buckets()[0].Len(); first != 10 {
		t.Errorf("first bucket holds %d lines, want 10", first)
	}
}

func TestPagedCloneSharesBuckets(t *testing.T) {
	orig := NewPaged(NewFileInfo("f", numbered(12)), 4)
	clone := orig.Clone().(*PagedVersion)

	for k := range orig.buckets {
		if orig.buckets[k] != clone.buckets[k] {
			t.Fatalf("bucket %d not shared after clone", k)
		}
	}

	clone.ApplySearchReplace(SearchReplace{Pattern: "L5", Replacement: "X"})
	if orig.buckets[1] == clone.buckets[1] {
		t.Error("written bucket should have been copied")
	}
	if orig.buckets[0] != clone.buckets[0] || orig.buckets[2] != clone.buckets[2] {
		t.Error("untouched buckets should remain shared")
	}
	if line, _ := orig.Line(5); line != "L5" {
		t.Errorf("original saw clone's write: %q", line)
	}

	// The original must also copy before writing a shared bucket.
	orig.ApplySearchReplace(SearchReplace{Pattern: "L0", Replacement: "Y"})
	if line, _ := clone.Line(0); line != "L0" {
		t.Errorf("clone saw original's write: %q", line)
	}
}

func TestPagedCloneWhileReading(t *testing.T) {
	p := NewPaged(NewFileInfo("f", numbered(40)), 4)
	want := numbered(40)

	var wg sync.WaitGroup
	clones := make([]Version, 8)
	for i := range clones {
		wg.Add(2)
		go func() {
			defer wg.Done()
			clones[i] = p.Clone()
		}()
		go func() {
			defer wg.Done()
			if got, _, _ := p.From(0, 40); !slices.Equal(got, want) {
				t.Errorf("read during clone = %v", got)
			}
			_ = p.Cursors("L3", search.Linear)
		}()
	}
	wg.Wait()

	for i, c := range clones {
		c.ApplySearchReplace(SearchReplace{Pattern: "L", Replacement: fmt.Sprintf("C%d-", i)})
	}
	if got := p.AllLines(); !slices.Equal(got, want) {
		t.Errorf("source changed by clone writes: %v", got)
	}
	checkBuckets(t, p)
}

// TestPagedMatchesModel drives random edits against a paged version and a
// plain slice model and compares them after every step.
func TestPagedMatchesModel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, capacity := range []int{1, 2, 3, 7, 50} {
		t.Run(fmt.Sprintf("capacity=%d", capacity), func(t *testing.T) {
			model := numbered(rng.Intn(60))
			p := NewPaged(NewFileInfo("f", model), capacity)
			var snapshots []Version
			var models [][]string
			next := 0

			for step := range 400 {
				switch op := rng.Intn(10); {
				case op < 7:
					start := rng.Intn(len(model) + 3)
					count := rng.Intn(12)
					repl := make([]string, rng.Intn(12))
					for i := range repl {
						repl[i] = fmt.Sprintf("n%d", next)
						next++
					}
					if err := p.ApplyUpdate(UpdateLines{StartingLine: start, Count: count, Lines: repl}); err != nil {
						t.Fatalf("step %d: %v", step, err)
					}
					s, e := updateBounds(len(model), start, count)
					model = slices.Replace(slices.Clone(model), s, e, repl...)
				case op < 9:
					pat := fmt.Sprintf("L%d", rng.Intn(10))
					p.ApplySearchReplace(SearchReplace{Pattern: pat, Replacement: "r"})
					for i, line := range model {
						model[i] = strings.ReplaceAll(line, pat, "r")
					}
				default:
					snapshots = append(snapshots, p.Clone())
					models = append(models, slices.Clone(model))
				}

				checkBuckets(t, p)
				if got := p.AllLines(); !slices.Equal(got, model) {
					t.Fatalf("step %d: paged diverged from model\n got %v\nwant %v", step, got, model)
				}
			}

			for i, snap := range snapshots {
				if got := snap.AllLines(); !slices.Equal(got, models[i]) {
					t.Errorf("snapshot %d changed after later edits", i)
				}
				checkBuckets(t, snap.(*PagedVersion))
			}
		})
	}
}

// TestKindsAgree applies the same random updates to every kind.
func TestKindsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seed := numbered(75)
	var versions []Version
	for _, kind := range allKinds {
		versions = append(versions, newVersion(t, kind, seed))
	}

	for step := range 300 {
		var e Edit
		if rng.Intn(4) == 0 {
			e = SearchReplace{Pattern: fmt.Sprintf("%d", rng.Intn(10)), Replacement: "#"}
		} else {
			e = UpdateLines{
				StartingLine: rng.Intn(versions[0].Len() + 2),
				Count:        rng.Intn(6),
				Lines:        []string{fmt.Sprintf("s%d", step)},
			}
		}
		for _, v := range versions {
			if err := v.Apply(e); err != nil {
				t.Fatalf("step %d %s: %v", step, v.Kind(), err)
			}
		}

		want := versions[0].AllLines()
		line := rng.Intn(versions[0].Len() + 5)
		count := rng.Intn(20)
		wantFrom, _, _ := versions[0].From(line, count)
		wantBefore, wantStart, _ := versions[0].Before(line, count)
		for _, v := range versions[1:] {
			if got := v.AllLines(); !slices.Equal(got, want) {
				t.Fatalf("step %d: %s diverged from contiguous", step, v.Kind())
			}
			if got, _, _ := v.From(line, count); !slices.Equal(got, wantFrom) {
				t.Fatalf("step %d: %s From(%d, %d) differs", step, v.Kind(), line, count)
			}
			if got, start, _ := v.Before(line, count); !slices.Equal(got, wantBefore) || start != wantStart {
				t.Fatalf("step %d: %s Before(%d, %d) differs", step, v.Kind(), line, count)
			}
		}
	}
}
