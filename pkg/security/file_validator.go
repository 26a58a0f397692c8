package security

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// Magic byte signatures per accepted CV extension
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE compound document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP container
}

// Accepted MIME types per extension. Legacy .doc files are often only
// recognised as generic OLE storage.
var allowedMIME = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

// CVExtensions lists the accepted CV file extensions.
var CVExtensions = []string{".pdf", ".doc", ".docx"}

// ValidateCVFile checks, in order, the extension whitelist, the magic bytes
// and the MIME type sniffed from the content. application/octet-stream is
// never accepted.
func ValidateCVFile(filename string, data []byte) FileValidationResult {
	var result FileValidationResult

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	signatures, ok := magicBytes[ext]
	if !ok {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if !hasSignature(data, signatures) {
		result.Error = "file content does not match extension"
		return result
	}

	detected := mimetype.Detect(data)
	result.DetectedMIME = detected.String()
	if !mimeAllowed(ext, detected) {
		result.Error = "MIME type not allowed: " + result.DetectedMIME
		return result
	}

	result.Valid = true
	return result
}

func hasSignature(data []byte, signatures [][]byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func mimeAllowed(ext string, detected *mimetype.MIME) bool {
	for _, allowed := range allowedMIME[ext] {
		for m := detected; m != nil; m = m.Parent() {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

// ContentTypeFor is the Content-Type stored with an accepted CV.
func ContentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
