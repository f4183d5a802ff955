// Package translation wraps gotext. Without a loaded catalog Translate
// returns the message ID itself, so the Russian product copy doubles as the
// default locale.
package translation

import (
	"github.com/leonelquinteros/gotext"
)

func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
