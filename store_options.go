package remotestore

import (
	"go.uber.org/zap"

	"github.com/c2fo/remotestore/options"
)

// StoreOption configures a RemoteStore.
type StoreOption = options.Option[RemoteStore]

const (
	optionNameLogger       = "logger"
	optionNameNameParser   = "nameParser"
	optionNameTempDir      = "tempDir"
	optionNameRepoFileName = "repoFileName"
	optionNameConcurrency  = "concurrency"
)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) StoreOption {
	return options.Func(optionNameLogger, func(s *RemoteStore) {
		if l != nil {
			s.logger = l
		}
	})
}

// WithNameParser replaces ParseRemoteFile as the parser used by List and CleanTemporary.
func WithNameParser(p NameParser) StoreOption {
	return options.Func(optionNameNameParser, func(s *RemoteStore) {
		if p != nil {
			s.parser = p
		}
	})
}

// WithTempDir sets the local directory for download temp files. By default they are created next
// to the destination.
func WithTempDir(dir string) StoreOption {
	return options.Func(optionNameTempDir, func(s *RemoteStore) {
		s.tempDir = dir
	})
}

// WithRepoFileName sets the name of the repository descriptor checked by TestRepoFileExists.
func WithRepoFileName(name string) StoreOption {
	return options.Func(optionNameRepoFileName, func(s *RemoteStore) {
		if name != "" {
			s.repoFileName = name
		}
	})
}

// WithConcurrency bounds the number of concurrent client calls made by Init and CleanTemporary.
// Values below 1 are ignored.
func WithConcurrency(n int) StoreOption {
	return options.Func(optionNameConcurrency, func(s *RemoteStore) {
		if n > 0 {
			s.concurrency = n
		}
	})
}

func applyStoreOptions(s *RemoteStore, opts ...StoreOption) {
	options.ApplyOptions(s, opts...)
}
