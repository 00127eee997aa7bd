package golang

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"path"
	"slices"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/luminiadev/lumigen/compiler/gen"
)

// File is a Go compilation unit holding the declarations of one entity.
type File struct {
	*jen.File
	// ImportPath of the package the file belongs to.
	ImportPath string
	// TypeName is the name of the primary type.
	TypeName string
}

// Path implements gen.CompilationUnit.
func (f *File) Path() string {
	return path.Join(f.ImportPath, FileName(f.TypeName))
}

// Render prints the file with gofmt formatting. The imports are read back
// from the printed source, since jennifer only decides them while printing.
func Render(f *File) (*gen.Rendered, error) {
	var b bytes.Buffer
	if err := f.File.Render(&b); err != nil {
		return nil, fmt.Errorf("golang: render %s: %w", f.Path(), err)
	}
	imports, err := Imports(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("golang: render %s: %w", f.Path(), err)
	}
	return &gen.Rendered{Source: b.String(), Imports: imports}, nil
}

// Imports returns the sorted import paths of a Go source file.
func Imports(src []byte) ([]string, error) {
	af, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}
	imports := make([]string, 0, len(af.Imports))
	for _, spec := range af.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return nil, err
		}
		imports = append(imports, p)
	}
	slices.Sort(imports)
	return imports, nil
}
