package util

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

func WriteJSON(fn string, data interface{}) error {
	f, err := os.Create(fn)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if err := PrintJSON(f, data); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(f.Sync())
}

// PrintJSON writes data as indented JSON followed by a newline.
func PrintJSON(w io.Writer, data interface{}) error {
	out, err := json.MarshalIndent(data, "", "   ")
	if err != nil {
		return errors.Wrap(err, "problem writing data")
	}

	if _, err := w.Write(append(out, '\n')); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
