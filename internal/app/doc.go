// Package app provides the composition root for fetchlab: it loads
// configuration and preferences, builds the cat API client and the demo
// page catalog, and hands everything to the UI.
package app
