package mock

import "github.com/fwojciec/fpx"

var _ fpx.Converter = (*Converter)(nil)

// Converter is a mock implementation of fpx.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
