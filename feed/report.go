package feed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// DiagnosticDocument renders err as a minimal well-formed XML document.
func DiagnosticDocument(err error) string {
	fe := asFeedError(err)
	return fmt.Sprintf("%s<error id=\"%s\" type=\"%s\" time=\"%s\">%s</error>\n",
		xmlHeader,
		escapeAttr(fe.ID),
		escapeAttr(string(fe.ErrorType)),
		fe.Timestamp.UTC().Format(time.RFC3339),
		escapeText(err.Error()),
	)
}

// WriteDiagnostic replaces the artifact at path with the diagnostic document for err.
func WriteDiagnostic(path string, err error) error {
	if err == nil {
		return nil
	}
	if werr := writeFileAtomic(path, []byte(DiagnosticDocument(err))); werr != nil {
		return model.CreateOutputError(werr, path)
	}
	model.InfoLogWithContext("Wrote diagnostic document", "reporter", "write_diagnostic", path, map[string]interface{}{
		"error_id": asFeedError(err).ID,
	})
	return nil
}

func asFeedError(err error) *model.FeedError {
	var fe *model.FeedError
	if errors.As(err, &fe) {
		return fe
	}
	return model.NewFeedErrorWithCause(model.ErrorTypeUnknown, err.Error(), err)
}

// writeFileAtomic writes data next to path and renames it into place so a
// reader never sees a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
