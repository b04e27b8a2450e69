package remotestore

import (
	"fmt"
	"strings"
)

// Category is the logical class of a stored object. It decides the folder the object lives in.
type Category int

const (
	// Multichunk holds the actual repository data.
	Multichunk Category = iota
	// Database holds database deltas.
	Database
	// Cleanup marks cleanup runs and shares the databases folder.
	Cleanup
	// Action holds action markers of running clients.
	Action
	// Transaction holds transaction markers.
	Transaction
	// Temp holds temporary objects.
	Temp
	// Repo is the repository descriptor at the root.
	Repo
	// RootMisc covers any other root-level object, such as the master file.
	RootMisc
)

var categoryNames = [...]string{
	Multichunk:  "multichunk",
	Database:    "database",
	Cleanup:     "cleanup",
	Action:      "action",
	Transaction: "transaction",
	Temp:        "temp",
	Repo:        "repo",
	RootMisc:    "rootmisc",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{Multichunk, Database, Cleanup, Action, Transaction, Temp, Repo, RootMisc}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= Multichunk && c <= RootMisc
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory returns the category named s, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(categoryNames[c], s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// FileType tells a file from a folder in path-aware listings.
type FileType int

const (
	// FileTypeFile is a regular object.
	FileTypeFile FileType = iota
	// FileTypeFolder is a folder.
	FileTypeFolder
)

func (t FileType) String() string {
	if t == FileTypeFolder {
		return "folder"
	}
	return "file"
}
