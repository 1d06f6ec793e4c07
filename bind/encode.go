package bind

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/pxx/pkg"
)

// FormatJSON writes m as JSON. An indent of zero writes one line.
func (m Module) FormatJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(m, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(m)
	}

	if err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	if _, err = fmt.Fprintln(w, string(data)); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

// FormatYAML writes m as YAML. An indent of zero writes flow style.
func (m Module) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, m, opts...)
	if err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	if _, err = fmt.Fprint(w, string(data)); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}
