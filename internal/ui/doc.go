// Package ui provides semantic text formatting for CLI output.
//
// Formatters render colorized text when the terminal supports it and fall
// back to plain decorations (backticks, quotes) when NO_COLOR is set or the
// output is not a color-capable terminal.
//
//	ui.Code.Sprint("enject run -- npm start")  // Commands
//	ui.Path.Sprint(".enject/store")            // File paths
//	ui.Secret.Sprint("database_url")           // Secret names
//	ui.Reference.Sprint("en://database_url")   // Template placeholders
//	ui.SuccessLine("Secret saved")             // ✓ status lines
//
// Only names are ever formatted here. Secret values never reach this package.
package ui
