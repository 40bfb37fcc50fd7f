package archive

import "strings"

// Text decodes b as UTF-8 text. Invalid byte sequences are removed instead of
// being replaced, so decoding never fails.
func Text(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}
