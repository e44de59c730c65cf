package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithDomain(domain string) Option { return func(d *EmailData) { d.Domain = domain } }

func newBaseEmailData(appName, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, AppName: appName, Type: typ}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(appName, name, email string, opts ...Option) map[string]any {
	return ToMap(newBaseEmailData(appName, Welcome, name, email, opts...))
}

func NewAccountDeletedData(appName, name, email string, opts ...Option) map[string]any {
	return ToMap(newBaseEmailData(appName, AccountDeleted, name, email, opts...))
}
