package i

// Logger is a leveled logger.
type Logger interface {
	Info(message string)
	Warning(message string)
	Error(message string)
}
