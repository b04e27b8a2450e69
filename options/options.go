// Package options provides the generic functional option mechanism used by stores and backends.
//
// An option is any type with an Apply method for its target and a name:
//
//	type bufferSizeOpt struct{ size int }
//
//	func (o bufferSizeOpt) Apply(c *Client)     { c.bufferSize = o.size }
//	func (o bufferSizeOpt) OptionName() string { return "bufferSize" }
package options

// Option configures a value of type T during construction.
type Option[T any] interface {
	Apply(*T)
	OptionName() string
}

// ApplyOptions applies opts to t in order, skipping nil options.
func ApplyOptions[T any](t *T, opts ...Option[T]) {
	for _, o := range opts {
		if o == nil {
			continue
		}
		o.Apply(t)
	}
}

// Func adapts a plain function into an Option with the given name.
func Func[T any](name string, fn func(*T)) Option[T] {
	return funcOpt[T]{name: name, fn: fn}
}

type funcOpt[T any] struct {
	name string
	fn   func(*T)
}

func (o funcOpt[T]) Apply(t *T)         { o.fn(t) }
func (o funcOpt[T]) OptionName() string { return o.name }
