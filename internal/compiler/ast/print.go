package ast

import (
	"fmt"
	"io"
	"strings"
)

// Print renders node as an indented tree, two spaces per level, in the
// exact shape the driver's --print-ast flag emits. It is a plain
// recursive function rather than a formal Visitor: the pretty printer
// has no state to carry between calls beyond the current indent, so a
// visitor object would add nothing a parameter doesn't already give it.
func Print(w io.Writer, node Node, indent string) {
	switch n := node.(type) {
	case *Program:
		fmt.Fprintf(w, "%sProgram:\n", indent)
		for _, stmt := range n.Body {
			Print(w, stmt, indent+"  ")
		}

	case *Literal:
		fmt.Fprintf(w, "%sLiteral: %s\n", indent, n.Raw)

	case *VarDecl:
		fmt.Fprintf(w, "%sVarDecl: %s : %s\n", indent, n.Name, n.Type.Name)
		Print(w, n.Value, indent+"  ")
		fmt.Fprintf(w, "%s  Constant: %t\n", indent, n.IsConst)

	case *Assign:
		fmt.Fprintf(w, "%sAssign:\n", indent)
		fmt.Fprintf(w, "%s  Variable: %s\n", indent, n.Name)
		Print(w, n.Value, indent+"  ")

	case *Variable:
		fmt.Fprintf(w, "%sVariable: %s\n", indent, n.Name)

	case *Binary:
		fmt.Fprintf(w, "%sBinary: %s\n", indent, n.Op)
		Print(w, n.LHS, indent+"  ")
		Print(w, n.RHS, indent+"  ")

	case *Unary:
		fmt.Fprintf(w, "%sUnary: %s\n", indent, n.Op)
		Print(w, n.Operand, indent+"  ")

	case *Proto:
		fmt.Fprintf(w, "%sProto: %s\n", indent, n.Name)
		for _, p := range n.Params {
			fmt.Fprintf(w, "%s  Arg: %s : %s\n", indent, p.Name, p.Type.Name)
		}
		fmt.Fprintf(w, "%s  Return: %s\n", indent, n.Ret.Name)

	case *Block:
		fmt.Fprintf(w, "%sBlock:\n", indent)
		for _, stmt := range n.Body {
			Print(w, stmt, indent+"  ")
		}

	case *FuncDecl:
		fmt.Fprintf(w, "%sFuncDecl:\n", indent)
		Print(w, n.Proto, indent+"  ")
		Print(w, n.Body, indent+"  ")

	case *Call:
		fmt.Fprintf(w, "%sCall:\n", indent)
		Print(w, n.Callee, indent+"  ")
		fmt.Fprintf(w, "%s  Args:\n", indent)
		for _, arg := range n.Args {
			Print(w, arg, indent+"    ")
		}

	case *Return:
		fmt.Fprintf(w, "%sReturn:\n", indent)
		Print(w, n.Value, indent+"  ")

	case *If:
		fmt.Fprintf(w, "%sIf:\n", indent)
		fmt.Fprintf(w, "%s  Cond:\n", indent)
		Print(w, n.Cond, indent+"    ")
		Print(w, n.Block, indent+"  ")

	case *IfElse:
		fmt.Fprintf(w, "%sIfElse:\n", indent)
		fmt.Fprintf(w, "%s  Cond:\n", indent)
		Print(w, n.If.Cond, indent+"    ")
		Print(w, n.If.Block, indent+"  ")
		fmt.Fprintf(w, "%s  Else:\n", indent)
		Print(w, n.ElseBlock, indent+"  ")

	default:
		fmt.Fprintf(w, "%s<unknown node %T>\n", indent, n)
	}
}

// String renders node as Print does, returning the result as a string
// instead of writing to a stream.
func String(node Node) string {
	var sb strings.Builder
	Print(&sb, node, "")
	return sb.String()
}
