// Some helpers using closures to generate values, and programs that fold
// the generated values
package valgen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sarchlab/stackvm/instr"
)

// MakeConstGen returns a generator that always yields constant.
func MakeConstGen(constant instr.Number) func() instr.Number {
	return func() instr.Number {
		return constant
	}
}

// MakeIncreasingGen returns a generator yielding start+1, start+2, and so
// on, wrapping at 65536.
func MakeIncreasingGen(start instr.Number) func() instr.Number {
	current := start
	return func() instr.Number {
		current++
		return current
	}
}

// MakeRandomGen returns a deterministic generator of arbitrary numbers.
func MakeRandomGen(seed uint64) func() instr.Number {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() instr.Number {
		return instr.Number(r.UintN(1 << 16))
	}
}

// FoldProgram returns the source of a program that loads n generated
// values, combines them left to right with op, and returns the total. The
// expected result is computed with the same wrap-around arithmetic.
// op must be ADD or MULTIPLY.
func FoldProgram(gen func() instr.Number, n int, op instr.Opcode) (string, instr.Number) {
	if n < 1 {
		panic("fold needs at least one value")
	}

	var (
		sb   strings.Builder
		want instr.Number
	)

	for i := 0; i < n; i++ {
		v := gen()
		fmt.Fprintf(&sb, "LOAD_VAL %d\n", v)

		if i == 0 {
			want = v
			continue
		}

		switch op {
		case instr.OpAdd:
			want += v
		case instr.OpMultiply:
			want *= v
		default:
			panic(fmt.Sprintf("cannot fold with %s", op))
		}
		fmt.Fprintf(&sb, "%s\n", op)
	}

	sb.WriteString("RETURN_VALUE\n")

	return sb.String(), want
}

// CountingLoop returns the source of a program that counts a variable from
// zero up to limit and returns it. The bound is tested before each
// increment, so a limit of zero returns zero.
func CountingLoop(limit instr.Number) string {
	return fmt.Sprintf(`LOAD_VAL 0
WRITE_VAR i
.check
LOAD_VAL %d
READ_VAR i
LESS
GOTO .body
READ_VAR i
RETURN_VALUE
.body
READ_VAR i
LOAD_VAL 1
ADD
WRITE_VAR i
LOAD_VAL 1
GOTO .check
`, limit)
}
