package diag

import (
	"strings"
	"testing"

	"bproto/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		bag.Add(NewError(PhaseLex, LexUnknownChar, span(0, 0, 1), "x"))
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}

	unlimited := NewBag(0)
	for i := 0; i < 100; i++ {
		if !unlimited.Add(NewError(PhaseLex, LexUnknownChar, span(0, 0, 1), "x")) {
			t.Fatal("unlimited bag rejected a diagnostic")
		}
	}
}

func TestBagHasErrors(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewWarning(PhaseLink, SemaUnusedImport, span(0, 0, 1), "w"))
	if bag.HasErrors() {
		t.Fatal("warnings must not count as errors")
	}
	if !bag.HasWarnings() {
		t.Fatal("expected HasWarnings")
	}
	bag.Add(NewError(PhaseLink, SemaDuplicateTag, span(0, 0, 1), "e"))
	if !bag.HasErrors() {
		t.Fatal("expected HasErrors")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewWarning(PhaseParse, SynInfo, span(1, 5, 6), "b"))
	bag.Add(NewError(PhaseParse, SynMissingTag, span(0, 9, 10), "c"))
	bag.Add(NewError(PhaseParse, SynUnexpectedToken, span(0, 2, 3), "a"))
	bag.Sort()

	items := bag.Items()
	if items[0].Message != "a" || items[1].Message != "c" || items[2].Message != "b" {
		t.Fatalf("sort order: %v %v %v", items[0].Message, items[1].Message, items[2].Message)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(10)
	d := NewError(PhaseLink, SemaDuplicateTag, span(0, 3, 4), "same")
	bag.Add(d)
	bag.Add(d)
	bag.Add(NewError(PhaseLink, SemaDuplicateTag, span(0, 3, 4), "different"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Len after Dedup = %d, want 2", bag.Len())
	}
}

func TestBagMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(PhaseLex, LexUnknownChar, span(0, 0, 1), "a"))
	b := NewBag(1)
	b.Add(NewError(PhaseLex, LexUnknownChar, span(0, 1, 2), "b"))
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("Len after Merge = %d, want 2", a.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynMissingTag, "SYN2008"},
		{SemaImportCycle, "SEM3005"},
		{GenSinkFailure, "GEN4001"},
		{UnknownCode, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Errorf("ID(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(PhaseParse, SynMissingTag, span(0, 4, 5), "missing tag")
	r.Report(d)
	r.Report(d)
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
}

func TestRenderCaretPlacement(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.bproto", []byte("message A {\n  u32 id;\n}\n"))

	// span of "id" on line 2
	d := NewError(PhaseParse, SynMissingTag, span(id, 18, 20), "field 'id' is missing a tag")
	out := Render(d, fs, RenderOptions{})

	if !strings.Contains(out, "error[SYN2008]") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "demo.bproto:2:7") {
		t.Errorf("missing location: %q", out)
	}
	if !strings.Contains(out, "u32 id;") {
		t.Errorf("missing source line: %q", out)
	}
	if !strings.Contains(out, "^^") {
		t.Errorf("missing caret: %q", out)
	}
	if !strings.Contains(out, "phase: parse") {
		t.Errorf("missing phase tag: %q", out)
	}
}

func TestFormatGolden(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.bproto", []byte("enum E {\n}\n"))

	diags := []Diagnostic{
		NewError(PhaseLink, SemaDuplicateTag, span(id, 9, 10), "dup\ntag"),
		NewWarning(PhaseLink, SemaUnusedImport, span(id, 0, 4), "unused"),
	}
	got := FormatGoldenDiagnostics(diags, fs, false)
	want := "warning SEM3007 a.bproto:1:1 unused\nerror SEM3002 a.bproto:2:1 dup tag"
	if got != want {
		t.Fatalf("golden output:\n%q\nwant:\n%q", got, want)
	}
}
