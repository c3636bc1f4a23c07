package host

import "time"

// epoch anchors the fallback clock; time.Since uses the monotonic reading.
var epoch = time.Now()

func fallbackNanotime() uint64 {
	return uint64(time.Since(epoch))
}
