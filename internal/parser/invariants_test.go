package parser

import (
	"testing"

	"bproto/internal/diag"
	"bproto/internal/source"
	"bproto/internal/testkit"
)

func TestSpanInvariants(t *testing.T) {
	cases := map[string]string{
		"clean": `package demo;
import demo.common;
// Doc.
message Position {
	u32 id = 1;
	[]f32 coords = 2 [delta];
}
enum Status { Idle = 1; u32 Moving = 2; }
`,
		"recovered": `package demo;
message Broken {
	u32 id;
	string name = 2;
}
= = =
enum Ok { A = 1; }
`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("inv.bproto", []byte(src))
			sf := fs.Get(id)
			bag := diag.NewBag(64)
			f := ParseFile(fs, sf, Options{Reporter: diag.BagReporter{Bag: bag}})
			if err := testkit.CheckSpanInvariants(f, sf); err != nil {
				t.Fatal(err)
			}
		})
	}
}
