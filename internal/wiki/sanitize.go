package wiki

import "strings"

// unsafeFilenameChars are replaced in addition to control characters.
const unsafeFilenameChars = `<>:"/\|?*`

// SanitizeFilename replaces characters that are unsafe in filenames on common
// filesystems with '-'. Each replaced character becomes exactly one '-', so
// the result has the same byte length as name.
//
// Every unsafe character is ASCII and bytes of a multi-byte UTF-8 sequence
// are never ASCII, so the scan works on bytes. Invalid UTF-8 passes through
// unchanged.
func SanitizeFilename(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c < 0x20 || strings.IndexByte(unsafeFilenameChars, c) >= 0 {
			b[i] = '-'
		}
	}
	return string(b)
}
