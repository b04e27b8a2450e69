package remotestore

import (
	"fmt"
	"strings"

	"github.com/c2fo/remotestore/utils"
)

// category folder names below the root
var categoryFolders = [...]string{
	Multichunk:  "multichunks",
	Database:    "databases",
	Cleanup:     "databases",
	Action:      "actions",
	Transaction: "transactions",
	Temp:        "temporary",
	Repo:        "",
	RootMisc:    "",
}

// NamespaceLayout maps every category onto a folder below a root path. It is computed once and
// never touches the store.
type NamespaceLayout struct {
	root  string
	paths [len(categoryFolders)]string
}

// NewNamespaceLayout builds the layout for root. The root is normalized to a single leading slash
// and no trailing slash, so "backup", "/backup/" and "//backup" are equivalent.
func NewNamespaceLayout(root string) NamespaceLayout {
	l := NamespaceLayout{root: utils.CleanPath(root)}
	for c, folder := range categoryFolders {
		l.paths[c] = utils.JoinPath(l.root, folder)
	}
	return l
}

// Root returns the normalized root path.
func (l NamespaceLayout) Root() string {
	return l.root
}

// PathFor returns the folder of category. Unknown categories resolve to the root.
func (l NamespaceLayout) PathFor(category Category) string {
	if !category.Valid() {
		return l.root
	}
	return l.paths[category]
}

// FolderPath returns the folder holding f, including its SubPath.
func (l NamespaceLayout) FolderPath(f RemoteFile) string {
	return utils.JoinPath(l.PathFor(f.Category), f.SubPath)
}

// FullPath returns the absolute path of f.
func (l NamespaceLayout) FullPath(f RemoteFile) string {
	return utils.JoinPath(l.FolderPath(f), f.Name)
}

// Resolve returns the absolute path of p, which is relative to the root. It fails with
// ErrInvalidPath when p contains a ".." segment or resolves outside the root.
func (l NamespaceLayout) Resolve(p string) (string, error) {
	if err := ValidateSubPath(p); err != nil {
		return "", err
	}
	joined := utils.JoinPath(l.root, p)
	if !l.contains(joined) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return joined, nil
}

// contains reports whether the clean absolute path p is the root or below it.
func (l NamespaceLayout) contains(p string) bool {
	if l.root == "/" || p == l.root {
		return true
	}
	return strings.HasPrefix(p, l.root+"/")
}

// Folders returns the distinct category folders below the root, in category order. The root
// itself is not included.
func (l NamespaceLayout) Folders() []string {
	var folders []string
	seen := map[string]bool{l.root: true}
	for _, c := range Categories() {
		p := l.paths[c]
		if !seen[p] {
			seen[p] = true
			folders = append(folders, p)
		}
	}
	return folders
}

// categoriesAt returns the categories stored directly in folder p.
func (l NamespaceLayout) categoriesAt(p string) []Category {
	var cats []Category
	for _, c := range Categories() {
		if l.paths[c] == p {
			cats = append(cats, c)
		}
	}
	return cats
}
