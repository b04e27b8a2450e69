package options_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/remotestore/options"
)

type target struct {
	applied []string
}

type optionsSuite struct {
	suite.Suite
}

func (s *optionsSuite) TestApplyOptionsInOrder() {
	t := &target{}
	first := options.Func("first", func(t *target) { t.applied = append(t.applied, "first") })
	second := options.Func("second", func(t *target) { t.applied = append(t.applied, "second") })

	options.ApplyOptions(t, first, nil, second)

	s.Equal([]string{"first", "second"}, t.applied)
	s.Equal("first", first.OptionName())
}

func TestOptions(t *testing.T) {
	suite.Run(t, new(optionsSuite))
}
