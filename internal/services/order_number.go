package services

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	orderNumberPrefix = "ORD-"
	orderNumberRandom = 8
	base36Alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewOrderNumber returns ORD-<base36 millis>-<random base36>. Numbers are
// unique in practice but neither sequential nor unguessable.
func NewOrderNumber(now time.Time) string {
	var suffix [orderNumberRandom]byte
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}

	var b strings.Builder
	b.WriteString(orderNumberPrefix)
	b.WriteString(strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)))
	b.WriteByte('-')
	b.Write(suffix[:])
	return b.String()
}
