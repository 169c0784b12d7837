// Package cli provides the skillip command line: a cobra root with a
// "serve" command that runs the web front-end and a "shell" command that
// opens an interactive REPL over the same local session.
//
// Shell commands:
//   - help, status
//   - signup, login, logout
//   - avatar <path> [x y size]: crop a picture (percent units) and upload it
//   - exit | quit
//
// A background watcher pings the backend and shows online/offline in the
// prompt. Passwords are read without echo and wiped after use.
package cli
