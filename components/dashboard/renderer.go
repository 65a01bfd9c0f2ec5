package dashboard

import "io"

// Renderer describes the template renderer contract needed by the controller.
// Render writes to out when given and also returns the rendered string.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
