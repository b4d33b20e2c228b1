package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tgfetch/TGFetch/internal/types"
)

// Meta is the resolved destination of one attachment.
type Meta struct {
	Path   string
	Format string
}

// ResolveMeta determines the destination path and detected format of a
// classified attachment under baseDir. The format comes from the MIME
// subtype, fixed to jpg for photos. Voice and round-video files are named
// by their timestamp (colons replaced with hyphens for path safety), other
// kinds keep the original file name attribute falling back to
// "{kind}_{mediaID}".
func ResolveMeta(m *types.Media, kind Kind, baseDir string) Meta {
	format := ""
	var doc *types.DocumentInfo
	if m != nil {
		doc = m.Document
	}
	if doc != nil && doc.MimeType != "" {
		parts := strings.Split(doc.MimeType, "/")
		format = parts[len(parts)-1]
	} else if kind == KindPhoto {
		format = "jpg"
	}

	if kind == KindVoice || kind == KindVideoNote {
		ts := strings.ReplaceAll(doc.Date.UTC().Format("2006-01-02T15:04:05"), ":", "-")
		name := fmt.Sprintf("%s_%s.%s", kind, ts, format)
		return Meta{Path: filepath.Join(baseDir, string(kind), name), Format: format}
	}

	name := ""
	var mediaID int64
	if doc != nil {
		name = doc.FileName()
		mediaID = doc.ID
	} else if m != nil && m.Photo != nil {
		mediaID = m.Photo.ID
	}
	if name == "" {
		name = fmt.Sprintf("%s_%d", kind, mediaID)
	}
	return Meta{Path: filepath.Join(baseDir, string(kind), name), Format: format}
}
