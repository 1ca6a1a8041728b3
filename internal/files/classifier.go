package files

import (
	"fmt"
	"strings"
)

// MaxFileSize is the per-file ceiling enforced when a file enters the
// candidate set.
const MaxFileSize = 10 << 20 // 10MB

const pdfType = "application/pdf"

// acceptedTypes mirrors the upload picker's accept list. image/* is handled
// by prefix in Accept.
var acceptedTypes = map[string]bool{
	pdfType:      true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
}

// Upload is a file handle held by the active wizard session until submission.
type Upload struct {
	Name      string
	MediaType string
	Size      int64
	Content   []byte
}

// Buckets partitions uploads by declared media type.
type Buckets struct {
	PDFs   []Upload
	Images []Upload
	Other  []Upload
}

// Total returns the number of classified files across all buckets.
func (b Buckets) Total() int {
	return len(b.PDFs) + len(b.Images) + len(b.Other)
}

// Classify assigns each non-empty upload to exactly one bucket. The PDF
// media type always wins; zero-size files are dropped. Oversized or
// unsupported files are not rejected here; Accept governs entry into the
// candidate set.
func Classify(uploads []Upload) Buckets {
	var b Buckets
	for _, u := range uploads {
		if u.Size == 0 {
			continue
		}
		switch {
		case u.MediaType == pdfType:
			b.PDFs = append(b.PDFs, u)
		case strings.HasPrefix(u.MediaType, "image/"):
			b.Images = append(b.Images, u)
		default:
			b.Other = append(b.Other, u)
		}
	}
	return b
}

// Accept reports whether an upload may enter the candidate set.
func Accept(u Upload) error {
	if u.Size > MaxFileSize {
		return fmt.Errorf("%s exceeds the %dMB file size limit", u.Name, MaxFileSize>>20)
	}
	if strings.HasPrefix(u.MediaType, "image/") || acceptedTypes[u.MediaType] {
		return nil
	}
	return fmt.Errorf("%s has unsupported type %q", u.Name, u.MediaType)
}
