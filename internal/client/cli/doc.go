// Package cli provides the interactive physiokeeper command-line client.
//
// It wires configuration, the sealed credential store, the session manager
// and the feature services into a REPL. Typical flow: hydrate the session
// from the store, prompt for credentials when there is none, then execute
// user commands until exit.
//
// Key features:
//   - Login / Register / Logout / Status
//   - Dashboard, exercise detail and the completion flow with its prompts
//   - History, weekly analytics, profile and password updates
//   - Chat with the exercise assistant
//
// Session alerts raised by the session manager are printed by the App and
// switch the prompt back to the logged-out command set.
package cli
