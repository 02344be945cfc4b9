// Package wiki reconstructs individual wiki pages from the two payloads the
// DeepWiki service returns for a repository: a numbered outline of pages and
// a single string holding every page body back to back.
//
// # Overview
//
// The package is two pure stages plus a helper:
//
//   - ParseOutline turns outline text into an ordered list of Sections.
//   - Split walks the concatenated content with the outline as an ordered
//     table of "# Page: <title>" anchors and returns a DocumentMap.
//   - SanitizeFilename makes every produced filename safe to persist.
//
// # Usage
//
//	outline := wiki.ParseOutline(structureText)
//	docs, err := wiki.Split(contentText, outline)
//	if err != nil {
//		return err
//	}
//	for name, text := range docs.All() {
//		// persist name -> text
//	}
//
// The outline is the authority on page boundaries. Text that looks like a
// page marker but does not name an expected section is kept as part of the
// body it appears in.
package wiki
