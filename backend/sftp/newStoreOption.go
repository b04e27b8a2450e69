package sftp

import (
	_sftp "github.com/pkg/sftp"
	"go.uber.org/zap"

	"github.com/c2fo/remotestore/options"
)

const (
	optionNameClient  = "client"
	optionNameOptions = "options"
	optionNameLogger  = "logger"
)

// WithClient uses an established SFTP session instead of dialing the authority. Close still
// closes the session.
func WithClient(client *_sftp.Client) options.Option[Store] {
	return &clientOpt{
		client: client,
	}
}

type clientOpt struct {
	client *_sftp.Client
}

func (c *clientOpt) Apply(s *Store) {
	s.client = c.client
}

func (c *clientOpt) OptionName() string {
	return optionNameClient
}

// WithOptions sets the connection options.
func WithOptions(opts Options) options.Option[Store] {
	return options.Func(optionNameOptions, func(s *Store) {
		s.options = opts
	})
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *zap.Logger) options.Option[Store] {
	return options.Func(optionNameLogger, func(s *Store) {
		if l != nil {
			s.logger = l
		}
	})
}
