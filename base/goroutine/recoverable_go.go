package goroutine

import (
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/utils"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverableGoOptions struct {
	beforeStart    func()
	afterEnded     func()
	afterRecovered func(panic interface{}, stack []byte)
	logger         *log.Logger
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions)

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(o *RecoverableGoOptions) {
		o.beforeStart = f
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(o *RecoverableGoOptions) {
		o.afterEnded = f
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(o *RecoverableGoOptions) {
		o.afterRecovered = f
	}
}

// WithLogger reports panics with the given logger's fields.
func WithLogger(l log.Logger) RecoverableGoOptionsFunc {
	return func(o *RecoverableGoOptions) {
		o.logger = &l
	}
}

// RecoverableGo runs f in a goroutine. The returned channel receives the panic
// if f panicked and is closed otherwise.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) <-chan *PanicEvent {
	opts := RecoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}
	logger := log.Log()
	if opts.logger != nil {
		logger = *opts.logger
	}

	panicChan := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			if opts.afterEnded != nil {
				opts.afterEnded()
			}

			p := recover()
			if p == nil {
				close(panicChan)
				return
			}

			stack := utils.Stack(3)
			logger.WithFields(log.Fields{
				"err":   p,
				"stack": string(stack),
			}).Error("panic")

			if opts.afterRecovered != nil {
				opts.afterRecovered(p, stack)
			}
			panicChan <- &PanicEvent{p, stack}
		}()

		if opts.beforeStart != nil {
			opts.beforeStart()
		}

		f()
	}()

	return panicChan
}
