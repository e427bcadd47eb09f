// Package noop provides no-op observability adapters for tests and for
// deployments where metrics collection is disabled.
package noop

import "accessaudit/domain/observability"

type Logger struct{}

func NewLogger() observability.Logger { return Logger{} }

func (Logger) Info(msg string, fields ...interface{})  {}
func (Logger) Error(msg string, fields ...interface{}) {}
func (Logger) Warn(msg string, fields ...interface{})  {}
func (Logger) Debug(msg string, fields ...interface{}) {}
func (l Logger) WithFields(fields map[string]interface{}) observability.Logger { return l }

type Metrics struct{}

func NewMetrics() observability.Metrics { return Metrics{} }

func (Metrics) IncrementCounter(name string, tags map[string]string)            {}
func (Metrics) RecordHistogram(name string, value float64, tags map[string]string) {}
func (Metrics) RecordGauge(name string, value float64, tags map[string]string)  {}
func (m Metrics) WithTags(tags map[string]string) observability.Metrics          { return m }
