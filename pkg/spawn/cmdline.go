package spawn

import (
	"strings"
)

// Marshaler renders an executable path and argument list in the form
// the platform's process-creation call consumes. POSIX systems take a
// discrete argument vector; Windows takes a single escaped command
// line. One strategy is selected per platform at build time, but both
// compile everywhere so the escaping can be verified on any system.
type Marshaler interface {
	// Marshal returns the argument vector (path included as the first
	// element) and the joined command line. Exactly one of the two is
	// meaningful per strategy; the other is its zero value.
	Marshal(path string, args []string) (argv []string, cmdline string)
}

// VectorMarshaler passes each argument as an independent string. No
// escaping is performed because none is needed: the kernel receives
// the vector as-is.
type VectorMarshaler struct{}

func (VectorMarshaler) Marshal(path string, args []string) ([]string, string) {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, path)
	argv = append(argv, args...)
	return argv, ""
}

// QuotedMarshaler joins the path and arguments into a single command
// line escaped so that the platform's canonical argument parser
// reproduces the original list exactly, empty arguments included.
type QuotedMarshaler struct{}

func (QuotedMarshaler) Marshal(path string, args []string) ([]string, string) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, EscapeArg(path))
	for _, arg := range args {
		parts = append(parts, EscapeArg(arg))
	}
	return nil, strings.Join(parts, " ")
}

// EscapeArg escapes one argument for inclusion in a Windows command
// line:
//   - an argument without space, tab or quote characters is emitted
//     unchanged (the empty argument becomes "");
//   - otherwise the argument is wrapped in quotes, a run of N
//     backslashes before a literal quote becomes 2N+1 backslashes
//     followed by the escaped quote, and a run of backslashes at the
//     very end is doubled so the closing quote stays a delimiter.
func EscapeArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, " \t\"") {
		return arg
	}

	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		switch c {
		case '\\':
			slashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, 2*slashes+1))
			b.WriteByte('"')
			slashes = 0
		default:
			if slashes > 0 {
				b.WriteString(strings.Repeat(`\`, slashes))
				slashes = 0
			}
			b.WriteByte(c)
		}
	}
	if slashes > 0 {
		b.WriteString(strings.Repeat(`\`, 2*slashes))
	}
	b.WriteByte('"')
	return b.String()
}

// SplitCommandLine parses a command line with the canonical Windows
// argument-vector rules (the CommandLineToArgvW backslash-and-quote
// conventions that EscapeArg targets). It is the round-trip
// counterpart of QuotedMarshaler and exists so the escaping can be
// verified without a Windows host.
func SplitCommandLine(cmdline string) []string {
	var args []string
	i := 0
	n := len(cmdline)
	for {
		for i < n && (cmdline[i] == ' ' || cmdline[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		var b strings.Builder
		inQuotes := false
		for i < n {
			c := cmdline[i]
			if !inQuotes && (c == ' ' || c == '\t') {
				break
			}
			if c == '\\' {
				j := i
				for j < n && cmdline[j] == '\\' {
					j++
				}
				count := j - i
				if j < n && cmdline[j] == '"' {
					// Backslashes before a quote: every pair collapses
					// to one literal backslash, an odd leftover escapes
					// the quote itself.
					b.WriteString(strings.Repeat(`\`, count/2))
					if count%2 == 1 {
						b.WriteByte('"')
						j++
					}
				} else {
					b.WriteString(strings.Repeat(`\`, count))
				}
				i = j
				continue
			}
			if c == '"' {
				inQuotes = !inQuotes
				i++
				continue
			}
			b.WriteByte(c)
			i++
		}
		args = append(args, b.String())
	}
	return args
}
