// Package cli provides the interactive PublicEye command-line client.
//
// App wires the local state database, the HTTP client and the auth, profile
// and affiliation containers. Pages (home, login, signup, profile, edit)
// are reached through Navigate, which applies the route guard first.
//
// Typical flow: Shell mounts the app (confirming a stored session and
// loading the profile and catalog), starts the online status watcher and
// hands over to runREPL. The cobra commands built by NewRootCommand run the
// same operations one at a time.
package cli
