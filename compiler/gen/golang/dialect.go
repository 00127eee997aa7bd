// Package golang implements the Go dialect of lumigen. Every entity becomes
// a struct with constructors and accessors in its own file. Inheritance maps
// onto struct embedding, enums onto package-level values.
package golang

import (
	"fmt"

	"github.com/luminiadev/lumigen/compiler/gen"
)

// Header is the first line of every generated file.
const Header = "Code generated by lumigen. DO NOT EDIT."

// Dialect generates Go sources with jennifer. It is stateless once created
// and safe for concurrent use.
type Dialect struct {
	cfg *gen.Config
}

var _ gen.Dialect = (*Dialect)(nil)

// NewDialect returns a Go dialect for the given configuration. A nil
// configuration uses the defaults.
func NewDialect(cfg *gen.Config) *Dialect {
	if cfg == nil {
		cfg = gen.MustNewConfig()
	}
	return &Dialect{cfg: cfg}
}

// Name implements gen.Dialect.
func (*Dialect) Name() string { return "go" }

// Render implements gen.EntityGenerator.
func (d *Dialect) Render(u gen.CompilationUnit) (*gen.Rendered, error) {
	f, ok := u.(*File)
	if !ok {
		return nil, fmt.Errorf("golang: unexpected compilation unit %T", u)
	}
	return Render(f)
}
