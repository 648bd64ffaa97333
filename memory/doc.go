// Package memory holds the session state (extracted slots plus the
// conversation transcript) and persists it as a single JSON document.
//
// Persistence model:
//   - The file is overwritten after every turn via temp-file-then-rename.
//   - Loading fails soft: a missing or corrupt file yields an empty session.
package memory
