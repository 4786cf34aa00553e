// Package services contains the feature services of the physiokeeper CLI.
//
// Every protected call goes through a session.Caller, so each feature gets
// the same 401 recovery without re-implementing it. Services return plain
// errors; UserMessage and the feature-specific mappers turn them into the
// alert text the CLI prints.
package services
