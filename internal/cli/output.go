package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Response is the JSON envelope written with --format json.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// OutputFormatter writes command results as JSON or as text lines.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Success writes data. In text mode, text renders it; a nil text prints data with %v.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	if text != nil {
		text(f.Writer)
		return nil
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}
