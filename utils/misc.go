package utils

import (
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// GoWithRecovery runs exec and logs a panic with its stack instead of
// crashing. recoverFn, when not nil, sees the recovered value first, which is
// nil when exec returned normally.
func GoWithRecovery(exec func(), recoverFn func(r interface{})) {
	defer func() {
		r := recover()
		if recoverFn != nil {
			recoverFn(r)
		}
		if r == nil {
			return
		}
		log.Error("recovered from panic", zap.Reflect("r", r), zap.Stack("stack trace"))
	}()
	exec()
}
