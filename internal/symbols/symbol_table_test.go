package symbols

import (
	"testing"

	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

func TestDeclareDuplicateInSameScopeFails(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Declare(&Symbol{Name: "x", Type: typesystem.TInt}); err != nil {
		t.Fatalf("first declare: %v", err)
	}
	if err := tbl.Declare(&Symbol{Name: "x", Type: typesystem.TInt}); err == nil {
		t.Fatalf("expected duplicate declare to fail")
	}
}

func TestScopeDepthBalanced(t *testing.T) {
	tbl := NewTable()
	before := tbl.Depth()
	tbl.PushScope()
	tbl.Declare(&Symbol{Name: "y", Type: typesystem.TStr})
	tbl.PopScope()
	if tbl.Depth() != before {
		t.Fatalf("scope depth not restored: got %d want %d", tbl.Depth(), before)
	}
	if _, ok := tbl.Find("y"); ok {
		t.Fatalf("y should not be visible after pop")
	}
}

func TestFindSearchesOuterScopes(t *testing.T) {
	tbl := NewTable()
	tbl.Declare(&Symbol{Name: "g", Type: typesystem.TBool})
	tbl.PushScope()
	defer tbl.PopScope()
	sym, ok := tbl.Find("g")
	if !ok || !typesystem.Equal(sym.Type, typesystem.TBool) {
		t.Fatalf("expected to find g from outer scope")
	}
}
