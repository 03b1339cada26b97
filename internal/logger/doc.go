// Package logger provides logging facilities for gitbchq.
//
// Messages come in two flavours. Internal messages (Info, Warning, Error)
// are written through log/slog to a debug log file when debug logging is
// enabled. User-facing messages (InfoToUser, WarningToUser, Success,
// StatusMessage) are always printed to the terminal with a small emoji
// prefix so they stand out between interactive prompts.
//
// Every log record carries a run_id attribute, a random UUID generated
// when the logger is created.
//
// # Usage
//
//	log := logger.New(cfg.Debug, cfg.LogFile, cfg.Verbose)
//	defer log.Close()
//
//	log.Info("listing messages for project %d", projectID)
//	log.Success("Comment #%d posted", id)
package logger
