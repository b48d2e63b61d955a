package logging

import (
	"github.com/sirupsen/logrus"
)

// KV wraps a logrus logger behind a key/value field API, the shape the
// database layer logs through.
type KV struct {
	l *logrus.Logger
}

// NewKV returns a key/value adapter over the named logger.
func NewKV(name string) *KV {
	return &KV{l: NewLogger(name)}
}

func (k *KV) Debug(msg string, fields ...interface{}) { k.entry(fields).Debug(msg) }
func (k *KV) Info(msg string, fields ...interface{})  { k.entry(fields).Info(msg) }
func (k *KV) Warn(msg string, fields ...interface{})  { k.entry(fields).Warn(msg) }
func (k *KV) Error(msg string, fields ...interface{}) { k.entry(fields).Error(msg) }

func (k *KV) entry(fields []interface{}) *logrus.Entry {
	data := logrus.Fields{}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		data[key] = fields[i+1]
	}
	return k.l.WithFields(data)
}
