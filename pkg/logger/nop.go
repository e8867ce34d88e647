package logger

// nopLogger discards everything; used by tests.
type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (l *nopLogger) InitLogger()                                  {}
func (l *nopLogger) Debug(args ...interface{})                    {}
func (l *nopLogger) Debugf(template string, args ...interface{})  {}
func (l *nopLogger) Info(args ...interface{})                     {}
func (l *nopLogger) Infof(template string, args ...interface{})   {}
func (l *nopLogger) Warn(args ...interface{})                     {}
func (l *nopLogger) Warnf(template string, args ...interface{})   {}
func (l *nopLogger) Error(args ...interface{})                    {}
func (l *nopLogger) Errorf(template string, args ...interface{})  {}
func (l *nopLogger) DPanic(args ...interface{})                   {}
func (l *nopLogger) DPanicf(template string, args ...interface{}) {}
func (l *nopLogger) Fatal(args ...interface{})                    {}
func (l *nopLogger) Fatalf(template string, args ...interface{})  {}
