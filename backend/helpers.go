package backend

import (
	"fmt"
	"strings"

	"github.com/c2fo/remotestore/utils"
)

// EncodeCursor packs a folder and a backend continuation token into an opaque listing cursor.
func EncodeCursor(folder, token string) string {
	return folder + "\n" + token
}

// DecodeCursor splits a cursor produced by EncodeCursor.
func DecodeCursor(cursor string) (folder, token string, err error) {
	folder, token, ok := strings.Cut(cursor, "\n")
	if !ok || folder == "" {
		return "", "", fmt.Errorf("malformed listing cursor %q", cursor)
	}
	return folder, token, nil
}

// ObjectKey converts an absolute store path into a bucket object key ("/a/b" -> "a/b").
func ObjectKey(p string) string {
	return utils.RemoveLeadingSlash(utils.CleanPath(p))
}

// FolderPrefix returns the key prefix of the objects below folder p. The store root has the
// empty prefix.
func FolderPrefix(p string) string {
	key := ObjectKey(p)
	if key == "" {
		return ""
	}
	return key + "/"
}

// FolderMarker returns the key of the zero-byte object that marks folder p as existing.
func FolderMarker(p string) string {
	return FolderPrefix(p)
}

// ChildName returns the name of key relative to prefix, and whether key is a direct child file.
func ChildName(prefix, key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

// ChildFolderName returns the folder name of a common prefix ("a/b/" below "a/" -> "b").
func ChildFolderName(prefix, commonPrefix string) string {
	return utils.RemoveTrailingSlash(strings.TrimPrefix(commonPrefix, prefix))
}
