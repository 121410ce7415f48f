package models

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	CardPrefix   = "card"
	ColumnPrefix = "col"
)

// ErrMalformedID is returned when a tagged id does not carry a numeric server id
var ErrMalformedID = errors.New("malformed id")

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// CreateID returns a fresh id of the form "<prefix>-<random><time>".
// Six random base-36 characters are followed by the current unix milliseconds in
// base 36. Unique enough for one client session; not suitable for security use.
func CreateID(prefix string) string {
	var random [6]byte
	for i := range random {
		random[i] = base36[rand.Intn(len(base36))]
	}
	timePart := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return prefix + "-" + string(random[:]) + timePart
}

// ToCardID tags a raw wire id as a card id. Already-tagged ids are returned as is.
func ToCardID(raw string) string {
	return tag(CardPrefix, raw)
}

// ToColumnID tags a raw wire id as a column id
func ToColumnID(raw string) string {
	return tag(ColumnPrefix, raw)
}

// FromCardID strips the card tag
func FromCardID(id string) string {
	return strings.TrimPrefix(id, CardPrefix+"-")
}

// FromColumnID strips the column tag
func FromColumnID(id string) string {
	return strings.TrimPrefix(id, ColumnPrefix+"-")
}

// CardNumber extracts the numeric server id from a tagged card id
func CardNumber(id string) (int, error) {
	return number(FromCardID(id), id)
}

// ColumnNumber extracts the numeric server id from a tagged column id
func ColumnNumber(id string) (int, error) {
	return number(FromColumnID(id), id)
}

func tag(prefix, raw string) string {
	if strings.HasPrefix(raw, prefix+"-") {
		return raw
	}
	return prefix + "-" + raw
}

func number(raw, id string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	return n, nil
}
