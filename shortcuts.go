package main

// Two shortcut tables sit in front of token classification.  The user table
// is persisted and editable with scutadd/scutdel; it exists so most operators
// are reachable from a single unshifted key.  The fixed table maps shifted
// symbols to their unshifted spellings (',' and '.' for '<' and '>') and is
// consulted only when the user table did not already rewrite the token.
// Resolution is deliberately not recursive: one user substitution, then one
// fixed substitution, and that is the final token.

var fixedShortcuts = map[string]string{
	"c.f":   "c>f",
	"f.c":   "f>c",
	"p.r":   "p>r",
	"r.p":   "r>p",
	"x,0?":  "x<0?",
	"x,=0?": "x<=0?",
	"x,=y?": "x<=y?",
	"x,y?":  "x<y?",
	"x.0?":  "x>0?",
	"x.=0?": "x>=0?",
	"x.=y?": "x>=y?",
	"x.y?":  "x>y?",
	"=":     "+", // RPN has no use for '=', so spare the shift key
	"**":    "^", // Python spelling of exponentiation
}

func defaultShortcuts() map[string]string {
	return map[string]string{
		"#": "rand",
		"[": "stat",
		"a": "+",
		"b": "xroot",
		"c": "chs",
		"d": "/",
		"f": "!",
		"g": "gamma",
		"h": "help",
		"i": "inv",
		"j": "rad",
		"k": "scut",
		"l": "ln",
		"m": "mem",
		"n": "frac",
		"o": "^",
		"p": "prog",
		"q": "exc",
		"r": "sqrt",
		"s": "-",
		"t": "sq",
		"u": "deg",
		"v": "int",
		"w": "show",
		"x": "*",
		"y": "swap",
		"z": "abs",
	}
}

// resolveShortcut applies at most one substitution from each table.
func resolveShortcut(user map[string]string, token string) string {
	if sub, ok := user[token]; ok {
		token = sub
	}
	if sub, ok := fixedShortcuts[token]; ok {
		token = sub
	}
	return token
}

// shortcutFor finds the user shortcut bound to an operator, if any, for the
// help display.  Ties break toward the lowest key so the answer is stable.
func shortcutFor(user map[string]string, op string) (string, bool) {
	var best string
	found := false
	for key, target := range user {
		if target == op && (!found || key < best) {
			best, found = key, true
		}
	}
	return best, found
}
