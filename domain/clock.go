package domain

import (
	"time"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
)

// Clock supplies the authoritative time used for every expiry comparison.
type Clock interface {
	Now(ctx.Ctx) (time.Time, error)
}
