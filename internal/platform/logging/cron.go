package logging

// CronLogger satisfies the robfig/cron Logger interface.
type CronLogger struct {
	logger *Logger
}

// Cron adapts l for cron.WithLogger and the cron job wrappers. Cron's
// start/wake/run chatter is emitted at debug level.
func (l *Logger) Cron() CronLogger {
	if l == nil {
		return CronLogger{logger: Default()}
	}
	return CronLogger{logger: l}
}

func (c CronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Debug("cron: "+msg, keysAndValues...)
}

func (c CronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := make([]any, 0, len(keysAndValues)+2)
	args = append(args, "error", err)
	args = append(args, keysAndValues...)
	c.logger.Error("cron: "+msg, args...)
}
