package remotestore

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c2fo/remotestore/utils"
)

// RemoteFile addresses one object in the store by category and name. SubPath optionally places
// the object in a folder below its category folder.
type RemoteFile struct {
	Category Category
	Name     string
	SubPath  string
}

// NewRemoteFile validates name and returns the RemoteFile for it.
func NewRemoteFile(category Category, name string) (RemoteFile, error) {
	if err := ValidateName(name); err != nil {
		return RemoteFile{}, err
	}
	if !category.Valid() {
		return RemoteFile{}, fmt.Errorf("new remote file: invalid category %d", int(category))
	}
	return RemoteFile{Category: category, Name: name}, nil
}

// WithSubPath returns a copy of f placed below subPath inside its category folder.
func (f RemoteFile) WithSubPath(subPath string) RemoteFile {
	f.SubPath = subPath
	return f
}

func (f RemoteFile) String() string {
	if f.SubPath == "" {
		return f.Category.String() + ":" + f.Name
	}
	return f.Category.String() + ":" + utils.RemoveLeadingSlash(utils.JoinPath(f.SubPath, f.Name))
}

// ValidateName checks name is usable as a remote file name.
func ValidateName(name string) error {
	if name == "" || utils.IsSpecialName(name) || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ValidateSubPath checks p has no ".." segment, so that joining it below a folder cannot climb out
// of that folder. Empty, absolute and slash terminated paths are accepted.
func ValidateSubPath(p string) error {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	return nil
}

// Validate checks the name and sub path of f.
func (f RemoteFile) Validate() error {
	if err := ValidateName(f.Name); err != nil {
		return err
	}
	return ValidateSubPath(f.SubPath)
}

// NameParser rebuilds a typed RemoteFile from a listed name. It returns an error for names that do
// not follow the naming pattern of the category.
type NameParser func(category Category, name string) (RemoteFile, error)

var namePatterns = map[Category]*regexp.Regexp{
	Multichunk:  regexp.MustCompile(`^multichunk-[a-f0-9]+$`),
	Database:    regexp.MustCompile(`^database-[^-]+-\d{10}$`),
	Cleanup:     regexp.MustCompile(`^cleanup-\d+$`),
	Action:      regexp.MustCompile(`^action-(up|down|cleanup)-[^-]+-\d+$`),
	Transaction: regexp.MustCompile(`^transaction-.+$`),
	Temp:        regexp.MustCompile(`^temp-.+$`),
	Repo:        regexp.MustCompile(`^syncany$`),
	RootMisc:    regexp.MustCompile(`^master$`),
}

// ParseRemoteFile is the default NameParser. It accepts the repository's naming conventions:
//
//	multichunk-<hex>
//	database-<client>-<10 digit version>
//	cleanup-<number>
//	action-<up|down|cleanup>-<client>-<number>
//	transaction-<id>
//	temp-<id>
//	syncany
//	master
func ParseRemoteFile(category Category, name string) (RemoteFile, error) {
	if err := ValidateName(name); err != nil {
		return RemoteFile{}, err
	}
	re, ok := namePatterns[category]
	if !ok {
		return RemoteFile{}, fmt.Errorf("parse remote file: invalid category %d", int(category))
	}
	if !re.MatchString(name) {
		return RemoteFile{}, fmt.Errorf("name %q does not match the %s pattern", name, category)
	}
	return RemoteFile{Category: category, Name: name}, nil
}
