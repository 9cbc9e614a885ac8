package symbolic

import (
	"regexp"
	"strings"
)

// Normalization turns LaTeX-flavoured input into plain algebraic text the
// parser accepts. Rules apply in a fixed order; \frac and ^{...} run to a
// joint fixpoint so nested groups reduce innermost-first.

var (
	reFrac       = regexp.MustCompile(`\\frac\{([^{}]*)\}\{([^{}]*)\}`)
	reCaretBrace = regexp.MustCompile(`\^\{([^{}]*)\}`)
	reSubBrace   = regexp.MustCompile(`_\{([^{}]*)\}`)
	reFuncBrace  = regexp.MustCompile(`\\?(sin|cos|tan|asin|acos|atan|sinh|cosh|tanh|exp|log|ln|sqrt|abs)\{([^{}]*)\}`)
	reBigOps     = regexp.MustCompile(`\\(sum|prod|int)(_\{[^{}]*\})?(\^\{[^{}]*\})?`)
	reCommand    = regexp.MustCompile(`\\[a-zA-Z]+`)
)

// Normalize converts LaTeX-ish notation to plain algebra.
func Normalize(input string) string {
	s := input

	s = strings.ReplaceAll(s, `\cdot`, "*")
	s = strings.ReplaceAll(s, `\times`, "*")
	s = strings.ReplaceAll(s, `\left`, "")
	s = strings.ReplaceAll(s, `\right`, "")

	// Big operators go first, while their brace-wrapped bounds are still
	// recognizable.
	s = reBigOps.ReplaceAllString(s, "")

	// Fractions and caret braces can nest inside each other, so both
	// rewrites run to a joint fixpoint, innermost groups first.
	for reFrac.MatchString(s) || reCaretBrace.MatchString(s) {
		s = reFrac.ReplaceAllString(s, "($1)/($2)")
		s = reCaretBrace.ReplaceAllString(s, "^($1)")
	}
	s = reSubBrace.ReplaceAllString(s, "_$1")
	s = reFuncBrace.ReplaceAllString(s, "$1($2)")

	s = strings.ReplaceAll(s, `\pi`, "pi")
	s = reCommand.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")

	return strings.TrimSpace(s)
}

// SplitEquation splits an equation into left and right sides. Assignment
// (":=") takes priority over equality; bare expressions compare against zero.
func SplitEquation(s string) (string, string) {
	if lhs, rhs, ok := strings.Cut(s, ":="); ok {
		return strings.TrimSpace(lhs), strings.TrimSpace(rhs)
	}
	if lhs, rhs, ok := strings.Cut(s, "="); ok {
		return strings.TrimSpace(lhs), strings.TrimSpace(rhs)
	}

	return strings.TrimSpace(s), "0"
}
