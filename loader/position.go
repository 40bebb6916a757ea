package loader

import (
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/jub0bs/corspolicy/cfgerrors"
)

// locate fills in the Line and Column fields of the shape errors in err's
// tree by looking up the offending values in the YAML document data.
// Errors that cannot be located are left alone.
func locate(data []byte, err error) {
	f, perr := parser.ParseBytes(data, 0)
	if perr != nil {
		return
	}
	for err := range cfgerrors.All(err) {
		cse, ok := err.(*cfgerrors.ConfigShapeError)
		if !ok || cse.Dimension == cfgerrors.DimDocument {
			continue
		}
		node := lookup(f, cse.Dimension)
		if node == nil {
			continue
		}
		if seq, ok := node.(*ast.SequenceNode); ok && cse.Reason != "type" {
			if elem := find(seq, cse.Value); elem != nil {
				node = elem
			}
		}
		tok := node.GetToken()
		if tok == nil || tok.Position == nil {
			continue
		}
		cse.Line = tok.Position.Line
		cse.Column = tok.Position.Column
	}
}

func lookup(f *ast.File, key string) ast.Node {
	path, err := yaml.PathString("$." + key)
	if err != nil {
		return nil
	}
	node, err := path.FilterFile(f)
	if err != nil {
		return nil
	}
	return node
}

// find returns the first string element of seq equal to v, if any.
func find(seq *ast.SequenceNode, v any) ast.Node {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	for _, elem := range seq.Values {
		if str, ok := elem.(*ast.StringNode); ok && str.Value == s {
			return elem
		}
	}
	return nil
}
