// Package blend implements the composition operators of a drawing context
// on premultiplied 8-bit RGBA.
//
// Every operator is a Porter-Duff style function of one source and one
// destination pixel. Coverage is applied outside the operator by linear
// interpolation between the destination and the operator's result, so
// pixels outside a shape are never touched.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Op is a composition operator.
type Op uint8

const (
	OpSrcOver  Op = iota // S + D*(1-Sa) [default]
	OpSrcCopy            // S
	OpSrcIn              // S*Da
	OpSrcOut             // S*(1-Da)
	OpSrcAtop            // S*Da + D*(1-Sa)
	OpDstOver            // S*(1-Da) + D
	OpDstCopy            // D
	OpDstIn              // D*Sa
	OpDstOut             // D*(1-Sa)
	OpDstAtop            // S*(1-Da) + D*Sa
	OpXor                // S*(1-Da) + D*(1-Sa)
	OpClear              // 0
	OpPlus               // min(S + D, 1)
	OpModulate           // S*D

	opCount
)

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	return op < opCount
}

var opNames = [opCount]string{
	"SrcOver", "SrcCopy", "SrcIn", "SrcOut", "SrcAtop",
	"DstOver", "DstCopy", "DstIn", "DstOut", "DstAtop",
	"Xor", "Clear", "Plus", "Modulate",
}

func (op Op) String() string {
	if op.Valid() {
		return opNames[op]
	}
	return "Op(?)"
}

// Func composites one premultiplied source pixel onto a destination pixel.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

var funcs = [opCount]Func{
	OpSrcOver:  srcOver,
	OpSrcCopy:  srcCopy,
	OpSrcIn:    srcIn,
	OpSrcOut:   srcOut,
	OpSrcAtop:  srcAtop,
	OpDstOver:  dstOver,
	OpDstCopy:  dstCopy,
	OpDstIn:    dstIn,
	OpDstOut:   dstOut,
	OpDstAtop:  dstAtop,
	OpXor:      xor,
	OpClear:    clearAll,
	OpPlus:     plus,
	OpModulate: modulate,
}

// FuncFor returns the function for op, or SrcOver for unknown values.
func FuncFor(op Op) Func {
	if !op.Valid() {
		return srcOver
	}
	return funcs[op]
}

func clearAll(_, _, _, _, _, _, _, _ byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

func srcCopy(sr, sg, sb, sa, _, _, _, _ byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

func dstCopy(_, _, _, _, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return dr, dg, db, da
}

func srcOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

func dstOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return addClamp(mulDiv255(sr, invDa), dr),
		addClamp(mulDiv255(sg, invDa), dg),
		addClamp(mulDiv255(sb, invDa), db),
		addClamp(mulDiv255(sa, invDa), da)
}

func srcIn(sr, sg, sb, sa, _, _, _, da byte) (byte, byte, byte, byte) {
	return mulDiv255(sr, da), mulDiv255(sg, da), mulDiv255(sb, da), mulDiv255(sa, da)
}

func dstIn(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

func srcOut(sr, sg, sb, sa, _, _, _, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return mulDiv255(sr, invDa), mulDiv255(sg, invDa), mulDiv255(sb, invDa), mulDiv255(sa, invDa)
}

func dstOut(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

func srcAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(mulDiv255(sr, da), mulDiv255(dr, invSa)),
		addClamp(mulDiv255(sg, da), mulDiv255(dg, invSa)),
		addClamp(mulDiv255(sb, da), mulDiv255(db, invSa)),
		da
}

func dstAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return addClamp(mulDiv255(sr, invDa), mulDiv255(dr, sa)),
		addClamp(mulDiv255(sg, invDa), mulDiv255(dg, sa)),
		addClamp(mulDiv255(sb, invDa), mulDiv255(db, sa)),
		sa
}

func xor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	invSa := 255 - sa
	return addClamp(mulDiv255(sr, invDa), mulDiv255(dr, invSa)),
		addClamp(mulDiv255(sg, invDa), mulDiv255(dg, invSa)),
		addClamp(mulDiv255(sb, invDa), mulDiv255(db, invSa)),
		addClamp(mulDiv255(sa, invDa), mulDiv255(da, invSa))
}

func plus(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return addClamp(sr, dr), addClamp(sg, dg), addClamp(sb, db), addClamp(sa, da)
}

func modulate(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(sr, dr), mulDiv255(sg, dg), mulDiv255(sb, db), mulDiv255(sa, da)
}
