// Package java implements the Java dialect of lumigen. Every entity becomes
// one public class or enum in its own compilation unit, following the
// conventions of the Lumi domain framework.
package java

import (
	"fmt"

	"github.com/luminiadev/lumigen/compiler/gen"
)

// Dialect generates Java sources. It is stateless once created and safe
// for concurrent use.
type Dialect struct {
	cfg *gen.Config
}

var _ gen.Dialect = (*Dialect)(nil)

// NewDialect returns a Java dialect for the given configuration. A nil
// configuration uses the defaults.
func NewDialect(cfg *gen.Config) *Dialect {
	if cfg == nil {
		cfg = gen.MustNewConfig()
	}
	return &Dialect{cfg: cfg}
}

// Name implements gen.Dialect.
func (*Dialect) Name() string { return "java" }

// Render implements gen.EntityGenerator.
func (d *Dialect) Render(u gen.CompilationUnit) (*gen.Rendered, error) {
	f, ok := u.(*File)
	if !ok {
		return nil, fmt.Errorf("java: unexpected compilation unit %T", u)
	}
	return Render(f, d.cfg.IndentUnit()), nil
}
