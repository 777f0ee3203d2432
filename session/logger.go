package session

// Logger is the logging interface used by sessions and transfers.
// *zap.SugaredLogger satisfies it.
//
// Example:
//
//	logger, _ := zap.NewDevelopment()
//	s := session.New(port, codec.Reference, session.WithLogger(logger.Sugar()))
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}
