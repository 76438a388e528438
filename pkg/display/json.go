package display

import (
	"io"

	"github.com/bytedance/sonic"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// FormatView implements Formatter.FormatView.
func (f *jsonFormatter) FormatView(w io.Writer, v View) error {
	var (
		data []byte
		err  error
	)
	if f.config.Compact {
		data, err = sonic.ConfigStd.Marshal(v)
	} else {
		data, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
