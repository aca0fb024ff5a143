package command

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// structuralInjection renders the argv as a single command line and parses
// it as bash. An argument list that produces more than one statement, a
// pipeline, a redirect, or a substitution is treated as injection even if
// the individual metacharacters slipped past the literal scan (quoting,
// unusual encodings). A parse failure is not evidence of anything — the
// literal scan already covers raw metacharacters — so it reports false.
func structuralInjection(binary string, args []string) bool {
	line := binary
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}

	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(line), "")
	if err != nil {
		return false
	}

	if len(file.Stmts) > 1 {
		return true
	}

	compound := false
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.BinaryCmd:
			compound = true
		case *syntax.CmdSubst:
			compound = true
		case *syntax.ProcSubst:
			compound = true
		case *syntax.Subshell:
			compound = true
		case *syntax.Block:
			compound = true
		case *syntax.Redirect:
			compound = true
		case *syntax.Stmt:
			if n.Background || n.Coprocess {
				compound = true
			}
		}
		return !compound
	})
	return compound
}
