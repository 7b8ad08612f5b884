package creature

import "go.uber.org/zap"

// Option customises Combatant and Attacker construction.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	observer AttackObserver
}

// WithLogger sets the logger used for combat events. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers an observer notified after every attack.
func WithObserver(obs AttackObserver) Option {
	return func(o *options) { o.observer = obs }
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
