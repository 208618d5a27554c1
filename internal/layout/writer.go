package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + `="`)
	hw.text(value)
	hw.raw(`"`)
}

func (hw *htmlWriter) component(c templ.Component) {
	if hw.err == nil {
		hw.err = c.Render(hw.ctx, hw.w)
	}
}

func component(fn func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{ctx: ctx, w: w}
		fn(hw)
		return hw.err
	})
}
