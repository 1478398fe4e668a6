package dateutil

import (
	"time"

	"github.com/golang-module/carbon/v2"
)

// Carbon does calendar arithmetic in UTC.
type Carbon struct{}

func NewCarbon() *Carbon {
	return &Carbon{}
}

func (u *Carbon) AddDays(t time.Time, days int) time.Time {
	return carbon.Time2Carbon(t.UTC()).SetTimezone(carbon.UTC).AddDays(days).Carbon2Time().UTC()
}

func (u *Carbon) IsAfter(a time.Time, b time.Time) bool {
	return carbon.Time2Carbon(a).Gt(carbon.Time2Carbon(b))
}
