package replicator

import "testing"

// testLogger implements the StdLogger interface and records the text in the
// logs of the given T passed from Test functions.
type testLogger struct {
	t *testing.T
}

func (l *testLogger) Print(v ...interface{}) {
	if l.t != nil {
		l.t.Helper()
		l.t.Log(v...)
	}
}

func (l *testLogger) Printf(format string, v ...interface{}) {
	if l.t != nil {
		l.t.Helper()
		l.t.Logf(format, v...)
	}
}

func (l *testLogger) Println(v ...interface{}) {
	if l.t != nil {
		l.t.Helper()
		l.t.Log(v...)
	}
}

// useTestLogger routes Logger and DebugLogger to t until the test ends.
func useTestLogger(t *testing.T) {
	t.Helper()
	logger, debugLogger := Logger, DebugLogger
	Logger = &testLogger{t: t}
	DebugLogger = &testLogger{t: t}
	t.Cleanup(func() {
		Logger, DebugLogger = logger, debugLogger
	})
}
