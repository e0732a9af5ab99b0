// Package logger provides leveled logging for enject CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is prefixed and colored with fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details and errors
//
// Without flags, only critical warnings are shown.
//
// # Log Methods
//
//	Logger.Infof()          // Shown with --verbose or --debug
//	Logger.Debugf()         // Shown only with --debug
//	Logger.Warnf()          // Shown with --verbose or --debug
//	Logger.WarnfAlways()    // Always shown
//	Logger.Errorf()         // Shown with --debug
//	Logger.ErrorfAndReturn() // Errorf, then returns the message as an error
//
// # Secrets
//
// Nothing derived from the store, passwords or resolved environment values
// is ever passed to the logger. Log secret names and counts, never values.
package logger
