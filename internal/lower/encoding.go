package lower

import (
	"fmt"

	"bproto/internal/ast"
	"bproto/internal/diag"
	"bproto/internal/ir"
)

var encodingKinds = map[string]ir.EncodingKind{
	"bits":          ir.EncodingBits,
	"bits_variable": ir.EncodingBitsVariable,
	"zigzag":        ir.EncodingZigzag,
	"delta":         ir.EncodingDelta,
	"pad":           ir.EncodingPad,
	"fixed_point":   ir.EncodingFixedPoint,
}

// encoding validates one annotation against the field type and lowers
// it. The parser has already checked the name and arity; here we check
// that the encoding applies to the type and fits its width.
func (lw *lowerer) encoding(a *ast.EncodingAnnot, typ *ir.Type) (ir.Encoding, bool) {
	kind, ok := encodingKinds[a.Name]
	if !ok {
		lw.error(diag.SemaBadEncodingTarget, a.Span, fmt.Sprintf("unknown encoding %q", a.Name))
		return ir.Encoding{}, false
	}

	enc := ir.Encoding{Span: a.Span, Kind: kind}
	if len(a.Args) > 0 {
		enc.A = a.Args[0]
	}
	if len(a.Args) > 1 {
		enc.B = a.Args[1]
	}

	base, hasBase := scalarBase(typ)

	switch kind {
	case ir.EncodingBits, ir.EncodingBitsVariable:
		if !hasBase || !base.IsInteger() {
			lw.error(diag.SemaBadEncodingTarget, a.Span,
				fmt.Sprintf("%s applies to integer types, field is %s", kind, typ))
			return ir.Encoding{}, false
		}
		width, _ := base.BitWidth()
		if enc.A == 0 || enc.A > width {
			lw.error(diag.SemaBadEncodingWidth, a.Span,
				fmt.Sprintf("%s(%d) does not fit %s, which is %d bits wide", kind, enc.A, base, width))
			return ir.Encoding{}, false
		}
	case ir.EncodingZigzag:
		if !hasBase || !base.IsSigned() {
			lw.error(diag.SemaBadEncodingTarget, a.Span,
				fmt.Sprintf("zigzag applies to signed integer types, field is %s", typ))
			return ir.Encoding{}, false
		}
	case ir.EncodingDelta:
		if !hasBase || !base.IsInteger() {
			lw.error(diag.SemaBadEncodingTarget, a.Span,
				fmt.Sprintf("delta applies to integer types, field is %s", typ))
			return ir.Encoding{}, false
		}
	case ir.EncodingPad:
		if enc.A == 0 {
			lw.error(diag.SemaBadEncodingWidth, a.Span, "pad width must be positive")
			return ir.Encoding{}, false
		}
	case ir.EncodingFixedPoint:
		if !hasBase || !base.IsFloat() {
			lw.error(diag.SemaBadEncodingTarget, a.Span,
				fmt.Sprintf("fixed_point applies to floating-point types, field is %s", typ))
			return ir.Encoding{}, false
		}
		if total := enc.A + enc.B; total == 0 || total > 64 {
			lw.error(diag.SemaBadEncodingWidth, a.Span,
				fmt.Sprintf("fixed_point(%d, %d) must total between 1 and 64 bits", enc.A, enc.B))
			return ir.Encoding{}, false
		}
	}
	return enc, true
}

// scalarBase digs through arrays and maps to the native type an encoding
// would act on. Map encodings act on the value side.
func scalarBase(t *ir.Type) (ir.NativeType, bool) {
	for t != nil {
		switch t.Kind {
		case ir.KindNative:
			return t.Native, true
		case ir.KindArray, ir.KindMap:
			t = t.Elem
		default:
			return ir.NativeInvalid, false
		}
	}
	return ir.NativeInvalid, false
}
