package ftp

import (
	"go.uber.org/zap"

	"github.com/c2fo/remotestore/backend/ftp/types"
	"github.com/c2fo/remotestore/options"
)

const (
	optionNameFTPClient = "ftpclient"
	optionNameOptions   = "options"
	optionNameLogger    = "logger"
)

// WithClient is used to explicitly specify a Client to use for the store.
// The client is used to interact with the FTP service.
func WithClient(c types.Client) options.Option[Store] {
	return &clientOpt{
		client: c,
	}
}

type clientOpt struct {
	client types.Client
}

func (ct *clientOpt) Apply(s *Store) {
	s.client = ct.client
}

func (ct *clientOpt) OptionName() string {
	return optionNameFTPClient
}

// WithOptions is used to specify options for the store.
// The options are used to configure the client.
func WithOptions(opts Options) options.Option[Store] {
	return &optionsOpt{
		options: opts,
	}
}

type optionsOpt struct {
	options Options
}

func (o *optionsOpt) Apply(s *Store) {
	s.options = o.options
}

func (o *optionsOpt) OptionName() string {
	return optionNameOptions
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *zap.Logger) options.Option[Store] {
	return options.Func(optionNameLogger, func(s *Store) {
		if l != nil {
			s.logger = l
		}
	})
}
